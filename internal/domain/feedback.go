package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackType classifies the tone of a coaching message
type FeedbackType string

const (
	FeedbackEncouragement FeedbackType = "encouragement"
	FeedbackStrategy      FeedbackType = "strategy"
	FeedbackWarning       FeedbackType = "warning"
	FeedbackCelebration   FeedbackType = "celebration"
	FeedbackAnalysis      FeedbackType = "analysis"
)

// FeedbackPriority orders messages for the presentation layer
type FeedbackPriority string

const (
	PriorityLow    FeedbackPriority = "low"
	PriorityMedium FeedbackPriority = "medium"
	PriorityHigh   FeedbackPriority = "high"
	PriorityUrgent FeedbackPriority = "urgent"
)

// FeedbackContext anchors a message to the game situation that produced it
type FeedbackContext struct {
	GamePhase        GamePhase `json:"game_phase"`
	PerformanceScore int       `json:"performance_score"`
	LearningPoint    string    `json:"learning_point,omitempty"`
}

// MentorFeedback is a single coaching message emitted for a live move.
// Entries are ephemeral: the generator keeps a small ring of recent ones
// and prunes anything older than five minutes.
type MentorFeedback struct {
	ID        uuid.UUID        `json:"id"`
	Type      FeedbackType     `json:"type"`
	Message   string           `json:"message"`
	Priority  FeedbackPriority `json:"priority"`
	Timestamp time.Time        `json:"timestamp"`
	Context   FeedbackContext  `json:"context"`
}
