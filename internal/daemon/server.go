package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/mentor/internal/config"
	"github.com/felixgeelhaar/mentor/internal/domain"
	"github.com/felixgeelhaar/mentor/internal/engine"
	"github.com/felixgeelhaar/mentor/internal/queue"
	"github.com/felixgeelhaar/mentor/internal/rating"
	"github.com/felixgeelhaar/mentor/internal/storage/local"
	"github.com/felixgeelhaar/mentor/internal/storage/postgres"
	"github.com/felixgeelhaar/mentor/internal/storage/resilient"
	"github.com/felixgeelhaar/mentor/internal/storage/sqlite"
)

// Version is the daemon version reported on the status endpoint
const Version = "0.1.0"

// maxStateBlob caps PUT /v1/state bodies
const maxStateBlob = 4 << 20

// Server represents the Mentor daemon HTTP server
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router *http.ServeMux

	engine      *engine.Engine
	sqliteDB    *sqlite.DB
	ratingStore *sqlite.RatingStore
	leaderboard *postgres.RatingStore
	events      *queue.Connection
	publisher   *queue.Publisher
}

// ServerConfig holds configuration for creating a new server
type ServerConfig struct {
	Config   *config.LocalConfig
	DataPath string // overrides the default ~/.mentor/data location
}

// NewServer creates a new daemon server
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	s := &Server{
		cfg:    cfg.Config,
		router: http.NewServeMux(),
	}

	dataPath := cfg.DataPath
	if dataPath == "" {
		dataPath = cfg.Config.Storage.Path
	}
	if dataPath == "" {
		mentorDir, err := config.EnsureMentorDir()
		if err != nil {
			return nil, fmt.Errorf("get mentor dir: %w", err)
		}
		dataPath = filepath.Join(mentorDir, "data")
	}

	gateway, err := s.setupGateway(dataPath)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	if url := cfg.Config.Storage.DatabaseURL; url != "" {
		store, err := postgres.Connect(ctx, url)
		if err != nil {
			slog.Warn("shared leaderboard unavailable, using local records only", "error", err)
		} else {
			s.leaderboard = store
		}
	}

	if cfg.Config.Events.Enabled {
		conn, err := queue.NewConnection(cfg.Config.Events.URL)
		if err != nil {
			slog.Warn("event queue unavailable, events disabled", "error", err)
		} else {
			s.events = conn
			s.publisher = queue.NewPublisher(conn)
		}
	}

	s.engine = engine.New(engine.Config{
		PlayerID:           cfg.Config.Engine.PlayerID,
		InitialDifficulty:  cfg.Config.Engine.InitialDifficulty,
		DisableAdaptation:  !cfg.Config.Engine.AdaptationEnabled,
		AdjustmentCooldown: cfg.Config.Engine.AdjustmentCooldown(),
		Gateway:            gateway,
		Logger:             slog.Default(),
	})

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Config.Daemon.Bind, cfg.Config.Daemon.Port)
	handler := recoveryMiddleware(loggingMiddleware(correlationIDMiddleware(s.router)))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// setupGateway builds the persistence gateway for the configured backend
func (s *Server) setupGateway(dataPath string) (engine.Gateway, error) {
	switch s.cfg.Storage.Backend {
	case "sqlite":
		db, err := sqlite.Open(filepath.Join(dataPath, "mentor.db"))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		s.sqliteDB = db
		s.ratingStore = sqlite.NewRatingStore(db)
		return resilient.Wrap(sqlite.NewStateStore(db), slog.Default()), nil
	default:
		store, err := local.NewStore(dataPath)
		if err != nil {
			return nil, fmt.Errorf("create local store: %w", err)
		}
		return resilient.Wrap(store, slog.Default()), nil
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)

	// Game events
	s.router.HandleFunc("POST /v1/games", s.handleRecordGame)
	s.router.HandleFunc("POST /v1/moves", s.handleObserveMove)

	// Difficulty
	s.router.HandleFunc("GET /v1/difficulty", s.handleGetDifficulty)
	s.router.HandleFunc("GET /v1/difficulty/adjustments", s.handleListAdjustments)
	s.router.HandleFunc("PUT /v1/difficulty/adaptation", s.handleSetAdaptation)

	// Coaching
	s.router.HandleFunc("GET /v1/feedback", s.handleGetFeedback)
	s.router.HandleFunc("GET /v1/strategy", s.handleGetStrategy)

	// Metrics & ratings
	s.router.HandleFunc("GET /v1/metrics", s.handleGetMetrics)
	s.router.HandleFunc("GET /v1/records", s.handleGetRecords)
	s.router.HandleFunc("GET /v1/leaderboard/{mode}", s.handleLeaderboard)

	// State transfer
	s.router.HandleFunc("GET /v1/state", s.handleExportState)
	s.router.HandleFunc("PUT /v1/state", s.handleImportState)
}

// Start starts the background engine work and the HTTP server
func (s *Server) Start() error {
	s.engine.Start()
	slog.Info("starting mentor daemon",
		"addr", s.server.Addr,
		"backend", s.cfg.Storage.Backend,
		"player", s.cfg.Engine.PlayerID,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")

	s.engine.Close()

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			slog.Warn("failed to close event queue", "error", err)
		}
	}
	if s.leaderboard != nil {
		s.leaderboard.Close()
	}
	if s.sqliteDB != nil {
		if err := s.sqliteDB.Close(); err != nil {
			slog.Warn("failed to close database", "error", err)
		}
	}

	return s.server.Shutdown(ctx)
}

// Handler implementations

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":             "running",
		"version":            Version,
		"player_id":          s.cfg.Engine.PlayerID,
		"storage":            s.cfg.Storage.Backend,
		"adaptation_enabled": s.engine.AdaptationEnabled(),
		"events_connected":   s.events != nil && s.events.IsConnected(),
	})
}

type gameRequest struct {
	Outcome         string  `json:"outcome"`
	Mode            string  `json:"mode"`
	GameLengthSec   float64 `json:"game_length_seconds"`
	MoveAccuracyPct float64 `json:"move_accuracy_pct"`
	OpponentRating  int     `json:"opponent_rating,omitempty"`
	CampaignLevel   int     `json:"campaign_level,omitempty"`
	AIResponseMs    int     `json:"ai_response_ms,omitempty"`
}

func (s *Server) handleRecordGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	outcome := domain.Outcome(req.Outcome)
	if !outcome.Valid() {
		s.jsonError(w, http.StatusBadRequest, "unknown outcome", fmt.Errorf("outcome %q", req.Outcome))
		return
	}
	mode := domain.GameMode(req.Mode)
	if mode != domain.ModePvP && mode != domain.ModeCampaign {
		s.jsonError(w, http.StatusBadRequest, "unknown game mode", fmt.Errorf("mode %q", req.Mode))
		return
	}

	result := domain.GameResult{
		Outcome:         outcome,
		Mode:            mode,
		GameLength:      time.Duration(req.GameLengthSec * float64(time.Second)),
		MoveAccuracyPct: req.MoveAccuracyPct,
		OpponentRating:  req.OpponentRating,
		CampaignLevel:   req.CampaignLevel,
		AIResponseTime:  time.Duration(req.AIResponseMs) * time.Millisecond,
	}
	s.engine.RecordGameResult(result)

	s.syncRatings(r.Context())
	s.publishGame(r.Context(), result)

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"difficulty":           s.engine.CurrentDifficulty(),
		"predicted_difficulty": s.engine.PredictedDifficulty(),
		"metrics":              s.engine.Metrics(),
		"strategy":             s.engine.ActiveStrategy().ID,
	})
}

// syncRatings mirrors the requester's records into the external stores.
// Failures are logged; the in-memory records stay authoritative.
func (s *Server) syncRatings(ctx context.Context) {
	pvp := s.engine.PvPRecord()
	campaign := s.engine.CampaignRecord()

	if s.ratingStore != nil {
		if pvp != nil {
			if err := s.ratingStore.SavePvP(pvp); err != nil {
				slog.Warn("failed to save pvp record", "error", err)
			}
		}
		if campaign != nil {
			if err := s.ratingStore.SaveCampaign(campaign); err != nil {
				slog.Warn("failed to save campaign record", "error", err)
			}
		}
	}

	if s.leaderboard != nil {
		if pvp != nil {
			if err := s.leaderboard.SavePvP(ctx, pvp); err != nil {
				slog.Warn("failed to publish pvp record", "error", err)
			}
		}
		if campaign != nil {
			if err := s.leaderboard.SaveCampaign(ctx, campaign); err != nil {
				slog.Warn("failed to publish campaign record", "error", err)
			}
		}
	}
}

func (s *Server) publishGame(ctx context.Context, result domain.GameResult) {
	if s.publisher == nil {
		return
	}
	event := queue.GameEvent{
		PlayerID:   s.cfg.Engine.PlayerID,
		Outcome:    result.Outcome,
		Mode:       result.Mode,
		Difficulty: s.engine.CurrentDifficulty(),
		SentAt:     time.Now().UTC(),
	}
	if err := s.publisher.PublishGame(ctx, event); err != nil {
		slog.Warn("failed to publish game event", "error", err)
	}
}

type moveRequest struct {
	MoveNumber    int       `json:"move_number"`
	MoverInCheck  bool      `json:"mover_in_check"`
	StartedAt     time.Time `json:"started_at"`
	Capture       bool      `json:"capture"`
	CapturedValue int       `json:"captured_value,omitempty"`
	Teleport      bool      `json:"teleport"`
	RangedAttack  bool      `json:"ranged_attack"`
	Castle        bool      `json:"castle"`
}

func (s *Server) handleObserveMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	snapshot := domain.GameSnapshot{
		MoveNumber:   req.MoveNumber,
		MoverInCheck: req.MoverInCheck,
		StartedAt:    req.StartedAt,
	}
	move := domain.MoveDescriptor{
		Capture:       req.Capture,
		CapturedValue: req.CapturedValue,
		Teleport:      req.Teleport,
		RangedAttack:  req.RangedAttack,
		Castle:        req.Castle,
	}

	fb := s.engine.ObserveMove(snapshot, move)
	if fb == nil {
		s.jsonResponse(w, http.StatusOK, map[string]interface{}{"feedback": nil})
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishFeedback(r.Context(), s.cfg.Engine.PlayerID, *fb); err != nil {
			slog.Warn("failed to publish feedback event", "error", err)
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"feedback": fb})
}

func (s *Server) handleGetDifficulty(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"current":            s.engine.CurrentDifficulty(),
		"predicted":          s.engine.PredictedDifficulty(),
		"adaptation_enabled": s.engine.AdaptationEnabled(),
	})
}

func (s *Server) handleListAdjustments(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"adjustments": s.engine.Adjustments(),
	})
}

func (s *Server) handleSetAdaptation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	s.engine.SetAdaptationEnabled(req.Enabled)
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"enabled": req.Enabled})
}

func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"feedback": s.engine.CurrentFeedback(),
	})
}

func (s *Server) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.engine.ActiveStrategy())
}

func (s *Server) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.engine.Metrics())
}

func (s *Server) handleGetRecords(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"pvp":      s.engine.PvPRecord(),
		"campaign": s.engine.CampaignRecord(),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode := domain.GameMode(r.PathValue("mode"))
	if mode != domain.ModePvP && mode != domain.ModeCampaign {
		s.jsonError(w, http.StatusNotFound, "unknown leaderboard mode", fmt.Errorf("mode %q", r.PathValue("mode")))
		return
	}

	// Pull shared records first so the local board reflects other players.
	if s.leaderboard != nil {
		pvp, err := s.leaderboard.ListPvP(r.Context(), rating.MaxLeaderboard)
		if err != nil {
			slog.Warn("failed to fetch shared pvp records", "error", err)
		}
		campaign, err := s.leaderboard.ListCampaign(r.Context(), rating.MaxLeaderboard)
		if err != nil {
			slog.Warn("failed to fetch shared campaign records", "error", err)
		}
		s.engine.MergeRecords(pvp, campaign)
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"mode":    mode,
		"entries": s.engine.Leaderboard(mode),
	})
}

func (s *Server) handleExportState(w http.ResponseWriter, r *http.Request) {
	blob, err := s.engine.ExportState()
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to export state", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		slog.Error("failed to write state blob", "error", err)
	}
}

func (s *Server) handleImportState(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxStateBlob))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}
	if err := s.engine.ImportState(blob); err != nil {
		s.jsonError(w, http.StatusBadRequest, "failed to import state", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"difficulty": s.engine.CurrentDifficulty(),
		"metrics":    s.engine.Metrics(),
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
