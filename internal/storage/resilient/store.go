// Package resilient wraps a persistence gateway with retry and circuit
// breaker patterns so transient I/O failures stay invisible to gameplay.
package resilient

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/mentor/internal/state"
	"github.com/felixgeelhaar/mentor/internal/storage/local"
	"github.com/felixgeelhaar/mentor/internal/storage/sqlite"
)

// StateStore is the persistence surface being wrapped
type StateStore interface {
	SaveState(*state.EngineState) error
	LoadState() (*state.EngineState, error)
}

// opTimeout bounds a single save or load attempt
const opTimeout = 5 * time.Second

// Store decorates a StateStore with fortify resilience patterns
type Store struct {
	inner   StateStore
	breaker circuitbreaker.CircuitBreaker[*state.EngineState]
	retrier retry.Retry[*state.EngineState]
	logger  *slog.Logger
}

// Wrap decorates a store. A nil logger falls back to slog's default.
func Wrap(inner StateStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{inner: inner, logger: logger}

	s.breaker = circuitbreaker.New[*state.EngineState](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("persistence circuit breaker state change",
				"from", from.String(),
				"to", to.String())
		},
	})

	s.retrier = retry.New[*state.EngineState](retry.Config{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryable,
	})

	return s
}

// SaveState persists the snapshot with retry behind the circuit breaker
func (s *Store) SaveState(st *state.EngineState) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := s.breaker.Execute(ctx, func(ctx context.Context) (*state.EngineState, error) {
		return s.retrier.Do(ctx, func(ctx context.Context) (*state.EngineState, error) {
			return nil, s.inner.SaveState(st)
		})
	})
	return err
}

// LoadState reads the snapshot with retry behind the circuit breaker.
// A missing snapshot is not a failure and passes through untouched.
func (s *Store) LoadState() (*state.EngineState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.breaker.Execute(ctx, func(ctx context.Context) (*state.EngineState, error) {
		return s.retrier.Do(ctx, func(ctx context.Context) (*state.EngineState, error) {
			return s.inner.LoadState()
		})
	})
}

// isRetryable treats "nothing saved yet" as terminal; everything else is
// assumed transient I/O.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, local.ErrNotFound) && !errors.Is(err, sqlite.ErrNotFound)
}
