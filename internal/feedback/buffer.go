package feedback

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
)

// MaxBuffered caps the retained feedback entries (oldest evicted first)
const MaxBuffered = 10

// MaxAge is how long an entry stays visible before the sweep removes it
const MaxAge = 5 * time.Minute

// sweepInterval is how often the background sweep prunes stale entries
const sweepInterval = time.Minute

// Buffer is a small ring of recent feedback. It carries its own lock because
// the periodic sweep prunes concurrently with the engine's writes.
type Buffer struct {
	mu      sync.RWMutex
	entries []domain.MentorFeedback
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewBuffer creates an empty feedback buffer
func NewBuffer() *Buffer {
	return &Buffer{
		now:  time.Now,
		stop: make(chan struct{}),
	}
}

// WithClock overrides the time source for tests
func (b *Buffer) WithClock(now func() time.Time) *Buffer {
	b.now = now
	return b
}

// Add appends an entry, evicting the oldest beyond the cap
func (b *Buffer) Add(f domain.MentorFeedback) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, f)
	if len(b.entries) > MaxBuffered {
		b.entries = b.entries[len(b.entries)-MaxBuffered:]
	}
}

// Recent returns a copy of the buffered entries, oldest first
func (b *Buffer) Recent() []domain.MentorFeedback {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.MentorFeedback(nil), b.entries...)
}

// SpokenWithin reports whether message was emitted verbatim within the window
func (b *Buffer) SpokenWithin(message string, window time.Duration) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cutoff := b.now().Add(-window)
	for _, e := range b.entries {
		if e.Message == message && e.Timestamp.After(cutoff) {
			return true
		}
	}
	return false
}

// Restore replaces the buffer contents from a persisted snapshot
func (b *Buffer) Restore(entries []domain.MentorFeedback) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(entries) > MaxBuffered {
		entries = entries[len(entries)-MaxBuffered:]
	}
	b.entries = append([]domain.MentorFeedback(nil), entries...)
}

// Prune drops entries older than MaxAge
func (b *Buffer) Prune() {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := b.now().Add(-MaxAge)
	kept := b.entries[:0]
	for _, e := range b.entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	b.entries = kept
}

// StartSweep launches the periodic prune. It runs until Stop is called.
func (b *Buffer) StartSweep() {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.Prune()
			case <-b.stop:
				return
			}
		}
	}()
}

// Stop cancels the periodic prune so no work continues after shutdown
func (b *Buffer) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
}
