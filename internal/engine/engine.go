// Package engine wires the coaching core together: performance recording,
// metrics, difficulty control, strategy selection, feedback generation, and
// ratings, behind a single-writer lock.
package engine

import (
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/felixgeelhaar/mentor/internal/difficulty"
	"github.com/felixgeelhaar/mentor/internal/domain"
	"github.com/felixgeelhaar/mentor/internal/feedback"
	"github.com/felixgeelhaar/mentor/internal/performance"
	"github.com/felixgeelhaar/mentor/internal/rating"
	"github.com/felixgeelhaar/mentor/internal/state"
	"github.com/felixgeelhaar/mentor/internal/storage/local"
	"github.com/felixgeelhaar/mentor/internal/storage/sqlite"
	"github.com/felixgeelhaar/mentor/internal/strategy"
)

// DefaultDifficulty is the starting difficulty for a fresh engine
const DefaultDifficulty = 3.0

// Gateway is the persistence collaborator. Saves are best-effort: the
// in-memory state stays authoritative when the gateway fails.
type Gateway interface {
	SaveState(*state.EngineState) error
	LoadState() (*state.EngineState, error)
}

// Config configures a new engine
type Config struct {
	PlayerID           string
	InitialDifficulty  float64
	DisableAdaptation  bool
	AdjustmentCooldown time.Duration
	Catalog            []strategy.CoachingStrategy
	Gateway            Gateway // nil disables persistence
	Logger             *slog.Logger
	Rand               *rand.Rand // nil uses a time-seeded source
}

// Engine is the adaptive difficulty and coaching core. All mutating entry
// points serialize on one mutex so the bounded histories stay consistent
// under a multi-threaded host.
type Engine struct {
	mu sync.Mutex

	playerID   string
	adaptation bool

	recorder   *performance.Recorder
	metrics    domain.PerformanceMetrics
	controller *difficulty.Controller
	selector   *strategy.Selector
	buffer     *feedback.Buffer
	generator  *feedback.Generator
	ratings    *rating.Engine

	gateway Gateway
	logger  *slog.Logger

	fallbackDifficulty float64
}

// New creates an engine and, when a gateway is configured, restores any
// previously saved state. Load failures are logged and the engine starts
// from defaults.
func New(cfg Config) *Engine {
	if cfg.InitialDifficulty == 0 {
		cfg.InitialDifficulty = DefaultDifficulty
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PlayerID == "" {
		cfg.PlayerID = "local"
	}

	buffer := feedback.NewBuffer()

	e := &Engine{
		playerID:           cfg.PlayerID,
		adaptation:         !cfg.DisableAdaptation,
		recorder:           performance.NewRecorder(),
		metrics:            performance.Aggregate(nil),
		controller:         difficulty.NewController(cfg.InitialDifficulty).WithCooldown(cfg.AdjustmentCooldown),
		selector:           strategy.NewSelector(cfg.Catalog),
		buffer:             buffer,
		generator:          feedback.NewGenerator(buffer, cfg.Rand),
		ratings:            rating.NewEngine(),
		gateway:            cfg.Gateway,
		logger:             cfg.Logger,
		fallbackDifficulty: cfg.InitialDifficulty,
	}

	e.restore()
	return e
}

// Start launches the periodic feedback sweep
func (e *Engine) Start() {
	e.buffer.StartSweep()
}

// Close cancels background work and takes a final snapshot
func (e *Engine) Close() {
	e.buffer.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.persist()
}

// RecordGameResult scores a finished game, recomputes metrics, reselects
// the coaching strategy, lets the difficulty controller react, and updates
// ratings. It never fails; persistence problems are logged only.
func (e *Engine) RecordGameResult(result domain.GameResult) {
	if !result.Outcome.Valid() {
		e.logger.Warn("ignoring game result with unknown outcome", "outcome", result.Outcome)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sample := e.recorder.Record(result, e.controller.Current(), result.AIResponseTime)
	e.metrics = performance.Aggregate(e.recorder.Samples())

	active, changed := e.selector.Reselect(e.metrics)
	if changed {
		e.logger.Info("coaching strategy changed",
			"strategy", active.ID,
			"skill_level", e.metrics.SkillLevel)
	}

	if e.adaptation {
		if adj := e.controller.Check(e.recorder.Samples(), e.metrics, active.Interventions.DifficultyBias); adj != nil {
			e.logger.Info("difficulty adjusted",
				"old", adj.OldDifficulty,
				"new", adj.NewDifficulty,
				"trigger", adj.TriggerEvent,
				"reason", adj.Reason)
		}
	}

	e.ratings.Apply(e.playerID, result)

	e.logger.Debug("game recorded",
		"outcome", result.Outcome,
		"score", sample.PerformanceScore,
		"difficulty", e.controller.Current())

	e.persist()
}

// ObserveMove feeds a live move to the feedback generator. The returned
// feedback is nil when the sampling gate stays quiet.
func (e *Engine) ObserveMove(snapshot domain.GameSnapshot, move domain.MoveDescriptor) *domain.MentorFeedback {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.generator.ObserveMove(snapshot, move, e.selector.Active())
}

// CurrentDifficulty returns the difficulty the opponent should play at
func (e *Engine) CurrentDifficulty() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controller.Current()
}

// PredictedDifficulty forecasts the near-term difficulty without mutating
// anything; calling it twice with no new games yields the same value.
func (e *Engine) PredictedDifficulty() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controller.Predict(e.recorder.Samples())
}

// Metrics returns the current rolling performance metrics
func (e *Engine) Metrics() domain.PerformanceMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

// ActiveStrategy returns the coaching strategy currently in effect
func (e *Engine) ActiveStrategy() strategy.CoachingStrategy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selector.Active()
}

// Adjustments returns the difficulty adjustment log, oldest first
func (e *Engine) Adjustments() []domain.DifficultyAdjustment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.DifficultyAdjustment(nil), e.controller.Adjustments()...)
}

// CurrentFeedback returns the recent coaching messages, oldest first
func (e *Engine) CurrentFeedback() []domain.MentorFeedback {
	return e.buffer.Recent()
}

// Leaderboard returns the ranked view for a mode, tagging this player's row
func (e *Engine) Leaderboard(mode domain.GameMode) []rating.RankedEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ratings.Leaderboard(mode, e.playerID)
}

// PvPRecord returns this player's PvP rating record, or nil before any game
func (e *Engine) PvPRecord() *rating.PvPRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ratings.PvP(e.playerID)
}

// CampaignRecord returns this player's campaign record, or nil before any game
func (e *Engine) CampaignRecord() *rating.CampaignRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ratings.Campaign(e.playerID)
}

// SetAdaptationEnabled toggles automatic difficulty adjustment
func (e *Engine) SetAdaptationEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.adaptation = enabled
}

// AdaptationEnabled reports whether automatic difficulty adjustment is on
func (e *Engine) AdaptationEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adaptation
}

// MergeRecords seeds externally stored rating records into the leaderboard,
// keeping local records where both exist.
func (e *Engine) MergeRecords(pvp []rating.PvPRecord, campaign []rating.CampaignRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ratings.MergePvP(pvp)
	e.ratings.MergeCampaign(campaign)
}

// ExportState serializes the full engine state as an opaque blob
func (e *Engine) ExportState() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot().Encode()
}

// ImportState restores state from a blob. Missing fields fall back to
// defaults; a blob that cannot be parsed at all is logged and ignored so
// the in-memory state stays authoritative.
func (e *Engine) ImportState(blob []byte) error {
	st, err := state.Decode(blob)
	if err != nil {
		e.logger.Warn("ignoring unreadable state blob", "error", err)
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(st)
	return nil
}

// snapshot assembles the persistence state. Callers hold the lock.
func (e *Engine) snapshot() *state.EngineState {
	enabled := e.adaptation
	return &state.EngineState{
		Difficulty:        e.controller.Current(),
		AdaptationEnabled: &enabled,
		Samples:           e.recorder.Samples(),
		Adjustments:       e.controller.Adjustments(),
		ActiveStrategyID:  e.selector.Active().ID,
		Feedback:          e.buffer.Recent(),
		PvPRecords:        e.ratings.AllPvP(),
		CampaignRecords:   e.ratings.AllCampaign(),
	}
}

// apply loads a normalized snapshot into the services. Callers hold the lock.
func (e *Engine) apply(st *state.EngineState) {
	st.Normalize(e.fallbackDifficulty)

	e.controller.SetCurrent(st.Difficulty)
	e.controller.Restore(st.Adjustments)
	e.recorder.Restore(st.Samples)
	e.adaptation = *st.AdaptationEnabled
	e.buffer.Restore(st.Feedback)
	e.ratings.Reset()
	e.ratings.MergePvP(st.PvPRecords)
	e.ratings.MergeCampaign(st.CampaignRecords)

	e.metrics = performance.Aggregate(e.recorder.Samples())
	e.selector.Reselect(e.metrics)
	if st.ActiveStrategyID != "" {
		e.selector.SetActiveID(st.ActiveStrategyID)
	}
}

// restore loads persisted state on startup, best-effort
func (e *Engine) restore() {
	if e.gateway == nil {
		return
	}

	st, err := e.gateway.LoadState()
	if err != nil {
		if !errors.Is(err, local.ErrNotFound) && !errors.Is(err, sqlite.ErrNotFound) {
			e.logger.Warn("could not load saved state, starting fresh", "error", err)
		}
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(st)
}

// persist saves the current state, best-effort. Callers hold the lock.
func (e *Engine) persist() {
	if e.gateway == nil {
		return
	}
	if err := e.gateway.SaveState(e.snapshot()); err != nil {
		e.logger.Warn("could not persist state", "error", err)
	}
}
