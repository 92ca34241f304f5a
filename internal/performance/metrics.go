package performance

import (
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
)

// recentWindow bounds how many samples feed the rolling averages
const recentWindow = 20

// trendWindow is the slice size compared against its predecessor for the trend
const trendWindow = 10

// Aggregate recomputes PerformanceMetrics from the sample history.
// Averages use the most recent 20 samples; streaks walk the full history.
func Aggregate(samples []domain.PerformanceSample) domain.PerformanceMetrics {
	metrics := domain.PerformanceMetrics{
		ImprovementTrend: domain.TrendStable,
		SkillLevel:       domain.SkillBeginner,
		GamesPlayed:      len(samples),
	}
	if len(samples) == 0 {
		return metrics
	}

	recent := samples
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}

	var wins int
	var totalTime time.Duration
	var totalAccuracy float64
	for _, s := range recent {
		if s.Outcome == domain.OutcomeWin {
			wins++
		}
		totalTime += s.GameLength
		totalAccuracy += s.MoveAccuracyPct
	}

	n := len(recent)
	metrics.WinRatePct = float64(wins) / float64(n) * 100
	metrics.AverageGameTime = totalTime / time.Duration(n)
	metrics.AverageAccuracyPct = totalAccuracy / float64(n)

	metrics.CurrentStreak, metrics.BestStreak = Streaks(samples)
	metrics.ImprovementTrend = ImprovementTrend(samples)
	metrics.SkillLevel = SkillLevelFor(metrics)

	return metrics
}

// Streaks walks the history newest to oldest. The current streak is the
// signed run length of the most recent identical outcome (positive for wins,
// negative for losses, zero on a draw). The best streak is the longest run of
// any identical outcome anywhere in the history.
func Streaks(samples []domain.PerformanceSample) (current, best int) {
	if len(samples) == 0 {
		return 0, 0
	}

	latest := samples[len(samples)-1].Outcome
	if latest != domain.OutcomeDraw {
		run := 0
		for i := len(samples) - 1; i >= 0; i-- {
			if samples[i].Outcome != latest {
				break
			}
			run++
		}
		if latest == domain.OutcomeWin {
			current = run
		} else {
			current = -run
		}
	}

	run := 1
	best = 1
	for i := 1; i < len(samples); i++ {
		if samples[i].Outcome == samples[i-1].Outcome {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	return current, best
}

// ImprovementTrend compares the mean performance score of the last 10 samples
// against the preceding 10. A difference beyond ±5 flips the trend; fewer
// than 5 total samples always reads as stable.
func ImprovementTrend(samples []domain.PerformanceSample) domain.Trend {
	if len(samples) < 5 {
		return domain.TrendStable
	}

	last := samples
	if len(last) > trendWindow {
		last = last[len(last)-trendWindow:]
	}
	prevEnd := len(samples) - len(last)
	prevStart := prevEnd - trendWindow
	if prevStart < 0 {
		prevStart = 0
	}
	prev := samples[prevStart:prevEnd]
	if len(prev) == 0 {
		return domain.TrendStable
	}

	diff := meanScore(last) - meanScore(prev)
	switch {
	case diff > 5:
		return domain.TrendImproving
	case diff < -5:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

// SkillLevelFor derives the coarse skill tier from rolling metrics
func SkillLevelFor(m domain.PerformanceMetrics) domain.SkillLevel {
	score := m.WinRatePct*0.4 +
		m.AverageAccuracyPct*0.3 +
		float64(m.BestStreak)*2 +
		float64(m.CurrentStreak)*0.3

	switch {
	case score >= 80:
		return domain.SkillMaster
	case score >= 65:
		return domain.SkillExpert
	case score >= 50:
		return domain.SkillAdvanced
	case score >= 30:
		return domain.SkillIntermediate
	default:
		return domain.SkillBeginner
	}
}

// MeanScore averages the performance scores of the last n samples
func MeanScore(samples []domain.PerformanceSample, n int) float64 {
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}
	return meanScore(samples)
}

func meanScore(samples []domain.PerformanceSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s.PerformanceScore)
	}
	return sum / float64(len(samples))
}
