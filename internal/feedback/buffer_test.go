package feedback

import (
	"fmt"
	"testing"
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
	"github.com/google/uuid"
)

func entryAt(message string, ts time.Time) domain.MentorFeedback {
	return domain.MentorFeedback{
		ID:        uuid.New(),
		Message:   message,
		Timestamp: ts,
	}
}

func TestBuffer_Cap(t *testing.T) {
	b := NewBuffer()

	for i := 0; i < MaxBuffered+5; i++ {
		b.Add(entryAt(fmt.Sprintf("message %d", i), time.Now()))
	}

	recent := b.Recent()
	if len(recent) != MaxBuffered {
		t.Fatalf("len(Recent()) = %d; want %d", len(recent), MaxBuffered)
	}
	if recent[0].Message != "message 5" {
		t.Errorf("oldest retained = %q; want %q", recent[0].Message, "message 5")
	}
}

func TestBuffer_SpokenWithin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuffer().WithClock(func() time.Time { return now })

	b.Add(entryAt("nice move", now.Add(-30*time.Second)))
	b.Add(entryAt("stale remark", now.Add(-2*time.Minute)))

	if !b.SpokenWithin("nice move", 45*time.Second) {
		t.Error("SpokenWithin(recent) = false; want true")
	}
	if b.SpokenWithin("stale remark", 45*time.Second) {
		t.Error("SpokenWithin(old) = true; want false")
	}
	if b.SpokenWithin("never said", 45*time.Second) {
		t.Error("SpokenWithin(unknown) = true; want false")
	}
}

func TestBuffer_Prune(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuffer().WithClock(func() time.Time { return now })

	b.Add(entryAt("fresh", now.Add(-time.Minute)))
	b.Add(entryAt("expired", now.Add(-6*time.Minute)))
	b.Add(entryAt("borderline", now.Add(-MaxAge)))

	b.Prune()

	recent := b.Recent()
	if len(recent) != 1 {
		t.Fatalf("len(Recent()) after prune = %d; want 1", len(recent))
	}
	if recent[0].Message != "fresh" {
		t.Errorf("surviving entry = %q; want fresh", recent[0].Message)
	}
}

func TestBuffer_Restore(t *testing.T) {
	b := NewBuffer()

	entries := make([]domain.MentorFeedback, MaxBuffered+3)
	for i := range entries {
		entries[i] = entryAt(fmt.Sprintf("m%d", i), time.Now())
	}

	b.Restore(entries)

	recent := b.Recent()
	if len(recent) != MaxBuffered {
		t.Fatalf("len(Recent()) = %d; want %d", len(recent), MaxBuffered)
	}
	if recent[0].Message != "m3" {
		t.Errorf("oldest retained = %q; want m3", recent[0].Message)
	}
}

func TestBuffer_StopIsIdempotent(t *testing.T) {
	b := NewBuffer()
	b.StartSweep()

	b.Stop()
	b.Stop() // second call must not panic
}
