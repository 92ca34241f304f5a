package difficulty

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
)

func sampleRun(score int, outcomes ...domain.Outcome) []domain.PerformanceSample {
	samples := make([]domain.PerformanceSample, len(outcomes))
	for i, o := range outcomes {
		samples[i] = domain.PerformanceSample{Outcome: o, PerformanceScore: score}
	}
	return samples
}

func wins(n, score int) []domain.PerformanceSample {
	samples := make([]domain.PerformanceSample, n)
	for i := range samples {
		samples[i] = domain.PerformanceSample{Outcome: domain.OutcomeWin, PerformanceScore: score}
	}
	return samples
}

func losses(n, score int) []domain.PerformanceSample {
	samples := make([]domain.PerformanceSample, n)
	for i := range samples {
		samples[i] = domain.PerformanceSample{Outcome: domain.OutcomeLoss, PerformanceScore: score}
	}
	return samples
}

func TestController_Check_TooFewSamples(t *testing.T) {
	c := NewController(5)

	if adj := c.Check(wins(4, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0); adj != nil {
		t.Errorf("Check() with 4 samples = %+v; want nil", adj)
	}
	if c.Current() != 5 {
		t.Errorf("Current() = %v; want 5", c.Current())
	}
}

func TestController_Check_WinStreak(t *testing.T) {
	c := NewController(5)

	adj := c.Check(wins(5, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0)
	if adj == nil {
		t.Fatal("Check() = nil; want an adjustment")
	}
	if adj.TriggerEvent != domain.TriggerWinStreak {
		t.Errorf("TriggerEvent = %s; want win_streak", adj.TriggerEvent)
	}
	if adj.OldDifficulty != 5 || adj.NewDifficulty != 6 {
		t.Errorf("adjustment %v -> %v; want 5 -> 6", adj.OldDifficulty, adj.NewDifficulty)
	}
	if c.Current() != 6 {
		t.Errorf("Current() = %v; want 6", c.Current())
	}
}

func TestController_Check_WinStreakBeatsHighPerformance(t *testing.T) {
	// Five straight wins with high scores satisfies both the streak rule
	// and the performance rule; the streak rule must win.
	c := NewController(5)

	adj := c.Check(wins(5, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0)
	if adj == nil {
		t.Fatal("Check() = nil; want an adjustment")
	}
	if adj.TriggerEvent != domain.TriggerWinStreak {
		t.Errorf("TriggerEvent = %s; want win_streak", adj.TriggerEvent)
	}
}

func TestController_Check_LossStreak(t *testing.T) {
	c := NewController(5)

	adj := c.Check(losses(5, 20), domain.PerformanceMetrics{WinRatePct: 0}, 0)
	if adj == nil {
		t.Fatal("Check() = nil; want an adjustment")
	}
	if adj.TriggerEvent != domain.TriggerLossStreak {
		t.Errorf("TriggerEvent = %s; want loss_streak", adj.TriggerEvent)
	}
	if c.Current() != 4 {
		t.Errorf("Current() = %v; want 4", c.Current())
	}
}

func TestController_Check_HighPerformance(t *testing.T) {
	// Mixed outcomes so neither streak rule fires, but strong scores and
	// win rate trigger the performance rule.
	samples := sampleRun(80,
		domain.OutcomeWin, domain.OutcomeWin, domain.OutcomeDraw,
		domain.OutcomeWin, domain.OutcomeWin)
	c := NewController(5)

	adj := c.Check(samples, domain.PerformanceMetrics{WinRatePct: 80}, 0)
	if adj == nil {
		t.Fatal("Check() = nil; want an adjustment")
	}
	if adj.TriggerEvent != domain.TriggerPerformanceImprovement {
		t.Errorf("TriggerEvent = %s; want performance_improvement", adj.TriggerEvent)
	}
}

func TestController_Check_LowPerformance(t *testing.T) {
	samples := sampleRun(20,
		domain.OutcomeLoss, domain.OutcomeLoss, domain.OutcomeDraw,
		domain.OutcomeLoss, domain.OutcomeLoss)
	c := NewController(5)

	adj := c.Check(samples, domain.PerformanceMetrics{WinRatePct: 10}, 0)
	if adj == nil {
		t.Fatal("Check() = nil; want an adjustment")
	}
	if adj.TriggerEvent != domain.TriggerPerformanceDecline {
		t.Errorf("TriggerEvent = %s; want performance_decline", adj.TriggerEvent)
	}
	if c.Current() != 4 {
		t.Errorf("Current() = %v; want 4", c.Current())
	}
}

func TestController_Check_NoRuleFires(t *testing.T) {
	samples := sampleRun(50,
		domain.OutcomeWin, domain.OutcomeLoss, domain.OutcomeWin,
		domain.OutcomeLoss, domain.OutcomeDraw)
	c := NewController(5)

	if adj := c.Check(samples, domain.PerformanceMetrics{WinRatePct: 40}, 0); adj != nil {
		t.Errorf("Check() = %+v; want nil", adj)
	}
}

func TestController_Check_ClampAtMax(t *testing.T) {
	c := NewController(10)

	if adj := c.Check(wins(5, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0); adj != nil {
		t.Errorf("Check() at max difficulty = %+v; want nil", adj)
	}
	if c.Current() != domain.MaxDifficulty {
		t.Errorf("Current() = %v; want %v", c.Current(), domain.MaxDifficulty)
	}
}

func TestController_Check_ClampAtMin(t *testing.T) {
	c := NewController(1)

	if adj := c.Check(losses(5, 10), domain.PerformanceMetrics{WinRatePct: 0}, 0); adj != nil {
		t.Errorf("Check() at min difficulty = %+v; want nil", adj)
	}
	if c.Current() != domain.MinDifficulty {
		t.Errorf("Current() = %v; want %v", c.Current(), domain.MinDifficulty)
	}
}

func TestController_Check_StrategyBias(t *testing.T) {
	c := NewController(5)

	adj := c.Check(wins(5, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0.5)
	if adj == nil {
		t.Fatal("Check() = nil; want an adjustment")
	}
	if adj.NewDifficulty != 6.5 {
		t.Errorf("NewDifficulty = %v; want 6.5", adj.NewDifficulty)
	}
}

func TestController_Check_Cooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewController(5).
		WithCooldown(time.Hour).
		WithClock(func() time.Time { return now })

	if adj := c.Check(wins(5, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0); adj == nil {
		t.Fatal("first Check() = nil; want an adjustment")
	}

	now = now.Add(30 * time.Minute)
	if adj := c.Check(wins(5, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0); adj != nil {
		t.Errorf("Check() inside cooldown = %+v; want nil", adj)
	}

	now = now.Add(31 * time.Minute)
	if adj := c.Check(wins(5, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0); adj == nil {
		t.Error("Check() after cooldown = nil; want an adjustment")
	}
}

func TestController_AdjustmentLogCap(t *testing.T) {
	c := NewController(5)

	// Alternate full win and loss streaks so every check adjusts.
	for i := 0; i < MaxAdjustments+10; i++ {
		if i%2 == 0 {
			c.Check(wins(5, 90), domain.PerformanceMetrics{WinRatePct: 100}, 0)
		} else {
			c.Check(losses(5, 20), domain.PerformanceMetrics{WinRatePct: 0}, 0)
		}
	}

	if got := len(c.Adjustments()); got != MaxAdjustments {
		t.Errorf("len(Adjustments()) = %d; want %d", got, MaxAdjustments)
	}
}

func TestController_Predict(t *testing.T) {
	improving := append(
		func() []domain.PerformanceSample {
			s := make([]domain.PerformanceSample, 10)
			for i := range s {
				s[i] = domain.PerformanceSample{PerformanceScore: 50}
			}
			return s
		}(),
		wins(10, 80)...,
	)

	c := NewController(5)

	if got := c.Predict(improving); got != 5.5 {
		t.Errorf("Predict(improving) = %v; want 5.5", got)
	}
	// Prediction must not mutate the live difficulty.
	if c.Current() != 5 {
		t.Errorf("Current() after Predict = %v; want 5", c.Current())
	}
	if got := c.Predict(improving); got != 5.5 {
		t.Errorf("repeated Predict() = %v; want 5.5", got)
	}
}

func TestController_Predict_Declining(t *testing.T) {
	declining := append(wins(10, 70), losses(10, 20)...)

	c := NewController(5)
	if got := c.Predict(declining); got != 4.5 {
		t.Errorf("Predict(declining) = %v; want 4.5", got)
	}
}

func TestController_Predict_Stable(t *testing.T) {
	c := NewController(5)
	if got := c.Predict(wins(10, 55)); got != 5 {
		t.Errorf("Predict(stable) = %v; want 5", got)
	}
}
