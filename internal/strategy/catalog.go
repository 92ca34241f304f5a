// Package strategy matches the player's current metrics against an ordered
// catalog of coaching profiles.
package strategy

import "github.com/felixgeelhaar/mentor/internal/domain"

// FeedbackFrequency controls how chatty the mentor is under a strategy
type FeedbackFrequency string

const (
	FrequencyLow    FeedbackFrequency = "low"
	FrequencyMedium FeedbackFrequency = "medium"
	FrequencyHigh   FeedbackFrequency = "high"
)

// AnalysisDepth controls how detailed post-move analysis should be
type AnalysisDepth string

const (
	AnalysisBasic         AnalysisDepth = "basic"
	AnalysisDetailed      AnalysisDepth = "detailed"
	AnalysisComprehensive AnalysisDepth = "comprehensive"
)

// TriggerConditions gate when a strategy applies. All set conditions must hold.
type TriggerConditions struct {
	MinGamesPlayed       int                 `yaml:"min_games_played" json:"min_games_played"`
	PerformanceThreshold float64             `yaml:"performance_threshold" json:"performance_threshold"` // min average accuracy
	WinRateRange         [2]float64          `yaml:"win_rate_range" json:"win_rate_range"`               // [lo, hi] percent
	SkillLevels          []domain.SkillLevel `yaml:"skill_levels" json:"skill_levels"`                   // empty = any
}

// Interventions are the knobs a strategy sets for the rest of the engine
type Interventions struct {
	DifficultyBias    float64           `yaml:"difficulty_bias" json:"difficulty_bias"`
	FeedbackFrequency FeedbackFrequency `yaml:"feedback_frequency" json:"feedback_frequency"`
	HintAvailable     bool              `yaml:"hint_available" json:"hint_available"`
	AnalysisDepth     AnalysisDepth     `yaml:"analysis_depth" json:"analysis_depth"`
}

// CoachingStrategy is a named bundle of intervention parameters
type CoachingStrategy struct {
	ID            string            `yaml:"id" json:"id"`
	Name          string            `yaml:"name" json:"name"`
	Description   string            `yaml:"description" json:"description"`
	Trigger       TriggerConditions `yaml:"trigger" json:"trigger"`
	Interventions Interventions     `yaml:"interventions" json:"interventions"`
}

// DefaultCatalog returns the built-in strategies in priority order.
// Catalog order is a contract: the selector scans top-down and the first
// strategy whose conditions all hold wins, even when later entries would
// also match. The final entry is the unconditional beginner fallback.
func DefaultCatalog() []CoachingStrategy {
	return []CoachingStrategy{
		{
			ID:          "mastery-push",
			Name:        "Mastery Push",
			Description: "Minimal hand-holding for dominant players; bias difficulty upward.",
			Trigger: TriggerConditions{
				MinGamesPlayed:       15,
				PerformanceThreshold: 80,
				WinRateRange:         [2]float64{70, 100},
				SkillLevels:          []domain.SkillLevel{domain.SkillExpert, domain.SkillMaster},
			},
			Interventions: Interventions{
				DifficultyBias:    0.5,
				FeedbackFrequency: FrequencyLow,
				HintAvailable:     false,
				AnalysisDepth:     AnalysisComprehensive,
			},
		},
		{
			ID:          "advanced-refinement",
			Name:        "Advanced Refinement",
			Description: "Detailed analysis for strong players working on consistency.",
			Trigger: TriggerConditions{
				MinGamesPlayed:       10,
				PerformanceThreshold: 65,
				WinRateRange:         [2]float64{55, 100},
			},
			Interventions: Interventions{
				DifficultyBias:    0.25,
				FeedbackFrequency: FrequencyLow,
				HintAvailable:     false,
				AnalysisDepth:     AnalysisDetailed,
			},
		},
		{
			ID:          "steady-progress",
			Name:        "Steady Progress",
			Description: "Balanced coaching for players holding their own.",
			Trigger: TriggerConditions{
				MinGamesPlayed:       5,
				PerformanceThreshold: 45,
				WinRateRange:         [2]float64{35, 70},
			},
			Interventions: Interventions{
				FeedbackFrequency: FrequencyMedium,
				HintAvailable:     true,
				AnalysisDepth:     AnalysisDetailed,
			},
		},
		{
			ID:          "confidence-building",
			Name:        "Confidence Building",
			Description: "Frequent encouragement and easier opponents for struggling players.",
			Trigger: TriggerConditions{
				MinGamesPlayed: 5,
				WinRateRange:   [2]float64{0, 40},
			},
			Interventions: Interventions{
				DifficultyBias:    -0.5,
				FeedbackFrequency: FrequencyHigh,
				HintAvailable:     true,
				AnalysisDepth:     AnalysisBasic,
			},
		},
		{
			ID:          "beginner-onboarding",
			Name:        "Beginner Onboarding",
			Description: "High-touch guidance for new players. Unconditional fallback.",
			Trigger: TriggerConditions{
				WinRateRange: [2]float64{0, 100},
			},
			Interventions: Interventions{
				FeedbackFrequency: FrequencyHigh,
				HintAvailable:     true,
				AnalysisDepth:     AnalysisBasic,
			},
		},
	}
}
