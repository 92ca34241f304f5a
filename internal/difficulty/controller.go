// Package difficulty implements the rule-based controller that adapts the
// opponent's strength to the player's recent performance.
package difficulty

import (
	"fmt"
	"math"
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
	"github.com/felixgeelhaar/mentor/internal/performance"
)

// MaxAdjustments caps the retained adjustment log (oldest evicted first)
const MaxAdjustments = 100

// minSamples is how many games must be recorded before the controller acts
const minSamples = 5

// Controller owns the difficulty value and its adjustment history
type Controller struct {
	current     float64
	adjustments []domain.DifficultyAdjustment
	cooldown    time.Duration
	lastChange  time.Time
	now         func() time.Time
}

// NewController creates a controller starting at the given difficulty
func NewController(initial float64) *Controller {
	return &Controller{
		current: domain.ClampDifficulty(initial),
		now:     time.Now,
	}
}

// WithClock overrides the time source for tests
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// WithCooldown sets a minimum interval between adjustments. Zero (the
// default) preserves the original adjust-every-check behavior.
func (c *Controller) WithCooldown(d time.Duration) *Controller {
	c.cooldown = d
	return c
}

// Current returns the difficulty consumed by the move-selection component
func (c *Controller) Current() float64 {
	return c.current
}

// SetCurrent overrides the difficulty, clamped to range. Used on state import.
func (c *Controller) SetCurrent(d float64) {
	c.current = domain.ClampDifficulty(d)
}

// Adjustments returns the adjustment log, oldest first
func (c *Controller) Adjustments() []domain.DifficultyAdjustment {
	return c.adjustments
}

// Restore replaces the adjustment log from a persisted snapshot
func (c *Controller) Restore(adjustments []domain.DifficultyAdjustment) {
	if len(adjustments) > MaxAdjustments {
		adjustments = adjustments[len(adjustments)-MaxAdjustments:]
	}
	c.adjustments = append([]domain.DifficultyAdjustment(nil), adjustments...)
	if n := len(c.adjustments); n > 0 {
		c.lastChange = c.adjustments[n-1].Timestamp
	}
}

// Check evaluates the adjustment rules against the sample history and the
// current metrics. Rules are evaluated in fixed order and the first match
// wins; the returned adjustment is nil when no rule fires. bias comes from
// the active coaching strategy and is folded into the change magnitude.
func (c *Controller) Check(samples []domain.PerformanceSample, metrics domain.PerformanceMetrics, bias float64) *domain.DifficultyAdjustment {
	if len(samples) < minSamples {
		return nil
	}
	if c.cooldown > 0 && !c.lastChange.IsZero() && c.now().Sub(c.lastChange) < c.cooldown {
		return nil
	}

	last := samples[len(samples)-minSamples:]
	avg := performance.MeanScore(samples, minSamples)

	delta := 0.0
	var trigger domain.TriggerEvent
	var reason string

	switch {
	case allOutcome(last, domain.OutcomeWin):
		delta = 1
		trigger = domain.TriggerWinStreak
		reason = fmt.Sprintf("won the last %d games (avg score %.0f)", minSamples, avg)
	case allOutcome(last, domain.OutcomeLoss):
		delta = -1
		trigger = domain.TriggerLossStreak
		reason = fmt.Sprintf("lost the last %d games (avg score %.0f)", minSamples, avg)
	case avg > 75 && metrics.WinRatePct > 70:
		delta = 1
		trigger = domain.TriggerPerformanceImprovement
		reason = fmt.Sprintf("avg score %.0f with %.0f%% win rate", avg, metrics.WinRatePct)
	case avg < 30 && metrics.WinRatePct < 30:
		delta = -1
		trigger = domain.TriggerPerformanceDecline
		reason = fmt.Sprintf("avg score %.0f with %.0f%% win rate", avg, metrics.WinRatePct)
	default:
		return nil
	}

	delta += bias

	next := domain.ClampDifficulty(c.current + delta)
	if next == c.current {
		return nil
	}

	adjustment := domain.DifficultyAdjustment{
		Timestamp:     c.now(),
		OldDifficulty: c.current,
		NewDifficulty: next,
		Reason:        reason,
		TriggerEvent:  trigger,
	}

	c.current = next
	c.lastChange = adjustment.Timestamp
	c.adjustments = append(c.adjustments, adjustment)
	if len(c.adjustments) > MaxAdjustments {
		c.adjustments = c.adjustments[len(c.adjustments)-MaxAdjustments:]
	}

	return &adjustment
}

// Predict forecasts the near-term difficulty from the last 10 samples
// without mutating anything. The result is rounded to the nearest 0.5.
func (c *Controller) Predict(samples []domain.PerformanceSample) float64 {
	avg := performance.MeanScore(samples, 10)
	trend := performance.ImprovementTrend(samples)

	predicted := c.current
	switch {
	case trend == domain.TrendImproving && avg > 60:
		predicted += 0.5
	case trend == domain.TrendDeclining && avg < 40:
		predicted -= 0.5
	}

	return domain.ClampDifficulty(math.Round(predicted*2) / 2)
}

func allOutcome(samples []domain.PerformanceSample, outcome domain.Outcome) bool {
	for _, s := range samples {
		if s.Outcome != outcome {
			return false
		}
	}
	return true
}
