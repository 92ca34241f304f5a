// Package performance converts finished games into a bounded sample history
// and derives rolling statistics from it.
package performance

import (
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
)

// MaxHistory is the cap on retained performance samples (oldest evicted first)
const MaxHistory = 1000

// Recorder owns the append-only performance sample history
type Recorder struct {
	samples []domain.PerformanceSample
	now     func() time.Time
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// WithClock overrides the time source. Tests use this to pin timestamps.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record scores a finished game and appends a sample to the history.
// difficultyAtTime is the difficulty the opponent was playing at, and
// aiResponseTime the opponent's recorded move latency for the game.
func (r *Recorder) Record(result domain.GameResult, difficultyAtTime float64, aiResponseTime time.Duration) domain.PerformanceSample {
	sample := domain.PerformanceSample{
		Timestamp:        r.now(),
		DifficultyAtTime: difficultyAtTime,
		Outcome:          result.Outcome,
		GameLength:       result.GameLength,
		PerformanceScore: Score(result.Outcome, result.GameLength, result.MoveAccuracyPct),
		AIResponseTime:   aiResponseTime,
		MoveAccuracyPct:  domain.Clamp(result.MoveAccuracyPct, 0, 100),
	}

	r.samples = append(r.samples, sample)
	if len(r.samples) > MaxHistory {
		r.samples = r.samples[len(r.samples)-MaxHistory:]
	}

	return sample
}

// Samples returns the full history, oldest first. The returned slice is
// shared; callers must not mutate it.
func (r *Recorder) Samples() []domain.PerformanceSample {
	return r.samples
}

// Len returns the number of retained samples
func (r *Recorder) Len() int {
	return len(r.samples)
}

// Restore replaces the history from a persisted snapshot, re-applying the cap
func (r *Recorder) Restore(samples []domain.PerformanceSample) {
	if len(samples) > MaxHistory {
		samples = samples[len(samples)-MaxHistory:]
	}
	r.samples = append([]domain.PerformanceSample(nil), samples...)
}

// Score computes the 0-100 performance score for a single game.
// The baseline of 50 is pushed up by wins and accuracy, down by losses;
// fast wins earn a time bonus and slow losses a time penalty.
func Score(outcome domain.Outcome, gameLength time.Duration, moveAccuracyPct float64) int {
	score := 50.0

	switch outcome {
	case domain.OutcomeWin:
		score += 30
		minutes := gameLength.Minutes()
		if bonus := 20 - minutes; bonus > 0 {
			score += bonus
		}
	case domain.OutcomeDraw:
		score += 10
	case domain.OutcomeLoss:
		score -= 20
		if penalty := gameLength.Minutes()/2 - 10; penalty < 0 {
			score += penalty
		}
	}

	score += (domain.Clamp(moveAccuracyPct, 0, 100) - 50) * 0.5

	return int(domain.Clamp(score, 0, 100))
}
