package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
)

// FeedbackEvent is the message emitted for each coaching message
type FeedbackEvent struct {
	PlayerID string                `json:"player_id"`
	Feedback domain.MentorFeedback `json:"feedback"`
	SentAt   time.Time             `json:"sent_at"`
}

// GameEvent is the message emitted when a game completes
type GameEvent struct {
	PlayerID   string          `json:"player_id"`
	Outcome    domain.Outcome  `json:"outcome"`
	Mode       domain.GameMode `json:"mode"`
	Difficulty float64         `json:"difficulty"`
	SentAt     time.Time       `json:"sent_at"`
}

// Publisher pushes coaching events onto the broker
type Publisher struct {
	conn *Connection
}

// NewPublisher creates a publisher over an open connection
func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// PublishFeedback emits a coaching message for narration consumers
func (p *Publisher) PublishFeedback(ctx context.Context, playerID string, fb domain.MentorFeedback) error {
	event := FeedbackEvent{
		PlayerID: playerID,
		Feedback: fb,
		SentAt:   time.Now(),
	}

	if err := p.conn.PublishJSON(ctx, FeedbackQueueName, event); err != nil {
		return fmt.Errorf("publish feedback event: %w", err)
	}

	slog.Debug("published feedback event",
		"player_id", playerID,
		"feedback_id", fb.ID,
		"priority", fb.Priority,
	)

	return nil
}

// PublishGame emits a game-completed event
func (p *Publisher) PublishGame(ctx context.Context, event GameEvent) error {
	if event.SentAt.IsZero() {
		event.SentAt = time.Now()
	}

	if err := p.conn.PublishJSON(ctx, GameQueueName, event); err != nil {
		return fmt.Errorf("publish game event: %w", err)
	}

	slog.Debug("published game event",
		"player_id", event.PlayerID,
		"outcome", event.Outcome,
		"difficulty", event.Difficulty,
	)

	return nil
}
