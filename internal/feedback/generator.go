// Package feedback turns live move events into contextual coaching messages
// while throttling commentary and avoiding verbatim repeats.
package feedback

import (
	"math/rand"
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
	"github.com/felixgeelhaar/mentor/internal/strategy"
	"github.com/google/uuid"
)

// RepeatWindow is how long a message stays "recently spoken" for the
// anti-repetition fallback.
const RepeatWindow = 45 * time.Second

// sampleProbability is the chance an otherwise unremarkable move gets commentary
const sampleProbability = 0.15

// Generator decides whether to speak on a move and what to say
type Generator struct {
	buffer   *Buffer
	messages map[messageKey][]string
	rng      *rand.Rand
	now      func() time.Time
}

// NewGenerator creates a generator backed by the given buffer. A nil rng
// falls back to a time-seeded source; tests inject a fixed seed to pin the
// noise and variant sequence.
func NewGenerator(buffer *Buffer, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		buffer:   buffer,
		messages: defaultMessages(),
		rng:      rng,
		now:      time.Now,
	}
}

// WithClock overrides the time source for tests
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// ObserveMove evaluates a single move. It returns the emitted feedback, or
// nil when the sampling gate decides to stay quiet.
func (g *Generator) ObserveMove(snapshot domain.GameSnapshot, move domain.MoveDescriptor, active strategy.CoachingStrategy) *domain.MentorFeedback {
	if !g.shouldComment(snapshot, move) {
		return nil
	}

	phase := domain.ClassifyPhase(snapshot.MoveNumber)
	quality := g.scoreMove(move)
	bucket := BucketFor(quality)

	message := g.pickMessage(bucket, phase)
	if g.buffer.SpokenWithin(message, RepeatWindow) {
		message = fallbackMessage(bucket)
	}

	fb := domain.MentorFeedback{
		ID:        uuid.New(),
		Type:      feedbackType(bucket),
		Message:   message,
		Priority:  priorityFor(snapshot, quality, active.Interventions.FeedbackFrequency),
		Timestamp: g.now(),
		Context: domain.FeedbackContext{
			GamePhase:        phase,
			PerformanceScore: quality,
		},
	}

	g.buffer.Add(fb)
	return &fb
}

// shouldComment is the sampling gate. Milestone moves, every 15th move,
// special moves, and checks always speak; everything else gets a 15% chance.
func (g *Generator) shouldComment(snapshot domain.GameSnapshot, move domain.MoveDescriptor) bool {
	switch snapshot.MoveNumber {
	case 1, 10, 20, 40:
		return true
	}
	if snapshot.MoveNumber > 0 && snapshot.MoveNumber%15 == 0 {
		return true
	}
	if move.Special() {
		return true
	}
	if snapshot.MoverInCheck {
		return true
	}
	return g.rng.Float64() < sampleProbability
}

// scoreMove rates the move 0-100: base 50, bonuses for captures and special
// moves, plus symmetric random noise in [-10, +10].
func (g *Generator) scoreMove(move domain.MoveDescriptor) int {
	score := 50.0

	if move.Capture {
		score += 15
	}
	if move.Teleport {
		score += 20
	}
	if move.RangedAttack {
		score += 10
	}
	if move.Castle {
		score += 12
	}

	score += g.rng.Float64()*20 - 10

	return int(domain.Clamp(score, 0, 100))
}

func (g *Generator) pickMessage(bucket QualityBucket, phase domain.GamePhase) string {
	variants := g.messages[messageKey{bucket, phase}]
	if len(variants) == 0 {
		return fallbackMessage(bucket)
	}
	return variants[g.rng.Intn(len(variants))]
}

func feedbackType(bucket QualityBucket) domain.FeedbackType {
	switch bucket {
	case BucketExcellent:
		return domain.FeedbackCelebration
	case BucketPoor:
		return domain.FeedbackStrategy
	default:
		return domain.FeedbackAnalysis
	}
}

// priorityFor marks checks and poor moves urgent; otherwise the active
// strategy's feedback frequency decides between medium and low.
func priorityFor(snapshot domain.GameSnapshot, quality int, freq strategy.FeedbackFrequency) domain.FeedbackPriority {
	if snapshot.MoverInCheck || quality < 40 {
		return domain.PriorityUrgent
	}
	if freq == strategy.FrequencyLow {
		return domain.PriorityLow
	}
	return domain.PriorityMedium
}
