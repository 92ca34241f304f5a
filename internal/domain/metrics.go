package domain

import "time"

// PerformanceSample captures how well a single game was played.
// Samples are immutable once created and held in a bounded FIFO history.
type PerformanceSample struct {
	Timestamp        time.Time     `json:"timestamp"`
	DifficultyAtTime float64       `json:"difficulty_at_time"`
	Outcome          Outcome       `json:"outcome"`
	GameLength       time.Duration `json:"game_length"`
	PerformanceScore int           `json:"performance_score"` // 0-100
	AIResponseTime   time.Duration `json:"ai_response_time"`
	MoveAccuracyPct  float64       `json:"move_accuracy_pct"` // 0-100
}

// SkillLevel is a coarse tier derived from rolling metrics
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
	SkillMaster       SkillLevel = "master"
)

// Trend describes the direction of recent performance
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// PerformanceMetrics are recomputed from the sample history after every game.
// They carry no hidden state: the same history always yields the same metrics.
type PerformanceMetrics struct {
	AverageGameTime    time.Duration `json:"average_game_time"`
	WinRatePct         float64       `json:"win_rate_pct"`
	CurrentStreak      int           `json:"current_streak"` // positive = win run, negative = loss run
	BestStreak         int           `json:"best_streak"`
	AverageAccuracyPct float64       `json:"average_accuracy_pct"`
	ImprovementTrend   Trend         `json:"improvement_trend"`
	SkillLevel         SkillLevel    `json:"skill_level"`
	GamesPlayed        int           `json:"games_played"`
}
