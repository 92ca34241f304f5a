package strategy

import (
	"testing"

	"github.com/felixgeelhaar/mentor/internal/domain"
)

func TestNewSelector_DefaultsToLastEntry(t *testing.T) {
	s := NewSelector(nil)

	if got := s.Active().ID; got != "beginner-onboarding" {
		t.Errorf("Active().ID = %q; want beginner-onboarding", got)
	}
	if len(s.Catalog()) != len(DefaultCatalog()) {
		t.Errorf("catalog size = %d; want %d", len(s.Catalog()), len(DefaultCatalog()))
	}
}

func TestSelector_Reselect(t *testing.T) {
	tests := []struct {
		name    string
		metrics domain.PerformanceMetrics
		wantID  string
	}{
		{
			"no games falls back to onboarding",
			domain.PerformanceMetrics{},
			"beginner-onboarding",
		},
		{
			"dominant player gets mastery push",
			domain.PerformanceMetrics{
				GamesPlayed:        20,
				AverageAccuracyPct: 85,
				WinRatePct:         80,
				SkillLevel:         domain.SkillMaster,
			},
			"mastery-push",
		},
		{
			"strong but not masterful gets refinement",
			domain.PerformanceMetrics{
				GamesPlayed:        12,
				AverageAccuracyPct: 70,
				WinRatePct:         60,
				SkillLevel:         domain.SkillAdvanced,
			},
			"advanced-refinement",
		},
		{
			"middling player gets steady progress",
			domain.PerformanceMetrics{
				GamesPlayed:        8,
				AverageAccuracyPct: 55,
				WinRatePct:         50,
				SkillLevel:         domain.SkillIntermediate,
			},
			"steady-progress",
		},
		{
			"struggling player gets confidence building",
			domain.PerformanceMetrics{
				GamesPlayed:        8,
				AverageAccuracyPct: 40,
				WinRatePct:         20,
				SkillLevel:         domain.SkillBeginner,
			},
			"confidence-building",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(nil)
			got, _ := s.Reselect(tt.metrics)
			if got.ID != tt.wantID {
				t.Errorf("Reselect() = %q; want %q", got.ID, tt.wantID)
			}
			if s.Active().ID != tt.wantID {
				t.Errorf("Active() = %q; want %q", s.Active().ID, tt.wantID)
			}
		})
	}
}

func TestSelector_Reselect_FirstMatchWins(t *testing.T) {
	// Two strategies whose conditions both hold; catalog order decides.
	catalog := []CoachingStrategy{
		{ID: "first", Trigger: TriggerConditions{WinRateRange: [2]float64{0, 100}}},
		{ID: "second", Trigger: TriggerConditions{WinRateRange: [2]float64{0, 100}}},
	}
	s := NewSelector(catalog)

	got, changed := s.Reselect(domain.PerformanceMetrics{WinRatePct: 50})
	if got.ID != "first" {
		t.Errorf("Reselect() = %q; want first", got.ID)
	}
	if !changed {
		t.Error("Reselect() changed = false; want true")
	}
}

func TestSelector_Reselect_ReportsUnchanged(t *testing.T) {
	s := NewSelector(nil)

	if _, changed := s.Reselect(domain.PerformanceMetrics{}); changed {
		t.Error("Reselect() with default metrics changed = true; want false")
	}
}

func TestSelector_SetActiveID(t *testing.T) {
	s := NewSelector(nil)

	s.SetActiveID("steady-progress")
	if got := s.Active().ID; got != "steady-progress" {
		t.Errorf("Active().ID = %q; want steady-progress", got)
	}

	// Unknown IDs leave the active strategy alone.
	s.SetActiveID("no-such-strategy")
	if got := s.Active().ID; got != "steady-progress" {
		t.Errorf("Active().ID after unknown = %q; want steady-progress", got)
	}
}

func TestTriggerConditions_Matches(t *testing.T) {
	cond := TriggerConditions{
		MinGamesPlayed:       10,
		PerformanceThreshold: 60,
		WinRateRange:         [2]float64{40, 80},
		SkillLevels:          []domain.SkillLevel{domain.SkillAdvanced},
	}

	base := domain.PerformanceMetrics{
		GamesPlayed:        15,
		AverageAccuracyPct: 70,
		WinRatePct:         60,
		SkillLevel:         domain.SkillAdvanced,
	}

	if !cond.Matches(base) {
		t.Fatal("Matches() = false for satisfying metrics")
	}

	tests := []struct {
		name   string
		mutate func(*domain.PerformanceMetrics)
	}{
		{"too few games", func(m *domain.PerformanceMetrics) { m.GamesPlayed = 5 }},
		{"accuracy below threshold", func(m *domain.PerformanceMetrics) { m.AverageAccuracyPct = 50 }},
		{"win rate below range", func(m *domain.PerformanceMetrics) { m.WinRatePct = 30 }},
		{"win rate above range", func(m *domain.PerformanceMetrics) { m.WinRatePct = 90 }},
		{"wrong skill level", func(m *domain.PerformanceMetrics) { m.SkillLevel = domain.SkillBeginner }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.mutate(&m)
			if cond.Matches(m) {
				t.Error("Matches() = true; want false")
			}
		})
	}
}
