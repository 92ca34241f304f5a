package domain

import "time"

// Difficulty bounds consumed by the external move-selection component
const (
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
)

// TriggerEvent identifies which rule caused a difficulty change
type TriggerEvent string

const (
	TriggerWinStreak              TriggerEvent = "win_streak"
	TriggerLossStreak             TriggerEvent = "loss_streak"
	TriggerPerformanceImprovement TriggerEvent = "performance_improvement"
	TriggerPerformanceDecline     TriggerEvent = "performance_decline"
	TriggerTimeBased              TriggerEvent = "time_based"
)

// DifficultyAdjustment records a single difficulty change for auditability
type DifficultyAdjustment struct {
	Timestamp     time.Time    `json:"timestamp"`
	OldDifficulty float64      `json:"old_difficulty"`
	NewDifficulty float64      `json:"new_difficulty"`
	Reason        string       `json:"reason"`
	TriggerEvent  TriggerEvent `json:"trigger_event"`
}

// ClampDifficulty constrains a difficulty value to the supported range
func ClampDifficulty(d float64) float64 {
	return Clamp(d, MinDifficulty, MaxDifficulty)
}
