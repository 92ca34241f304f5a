package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felixgeelhaar/mentor/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultLocalConfig()
	cfg.Engine.PlayerID = "p1"

	s, err := NewServer(context.Background(), ServerConfig{
		Config:   cfg,
		DataPath: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
}

func TestHandleRecordGame(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/v1/games", map[string]any{
		"outcome":             "win",
		"mode":                "pvp",
		"game_length_seconds": 600,
		"move_accuracy_pct":   70,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Difficulty float64 `json:"difficulty"`
		Strategy   string  `json:"strategy"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Difficulty == 0 {
		t.Error("difficulty missing from response")
	}
	if resp.Strategy == "" {
		t.Error("strategy missing from response")
	}
}

func TestHandleRecordGame_Invalid(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown outcome", map[string]any{"outcome": "crashed", "mode": "pvp"}},
		{"unknown mode", map[string]any{"outcome": "win", "mode": "tournament"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/v1/games", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", rec.Code)
			}
		})
	}
}

func TestHandleObserveMove(t *testing.T) {
	s := newTestServer(t)

	// Move 1 is a milestone and always gets commentary.
	rec := doRequest(s, http.MethodPost, "/v1/moves", map[string]any{
		"move_number": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp struct {
		Feedback *struct {
			Message string `json:"message"`
		} `json:"feedback"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Feedback == nil || resp.Feedback.Message == "" {
		t.Error("move 1 produced no feedback")
	}
}

func TestHandleGetDifficulty(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/v1/difficulty", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp struct {
		Current           float64 `json:"current"`
		Predicted         float64 `json:"predicted"`
		AdaptationEnabled bool    `json:"adaptation_enabled"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Current != 3 {
		t.Errorf("current = %v; want default 3", resp.Current)
	}
	if !resp.AdaptationEnabled {
		t.Error("adaptation_enabled = false; want true")
	}
}

func TestHandleSetAdaptation(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/v1/difficulty/adaptation", map[string]any{"enabled": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if s.engine.AdaptationEnabled() {
		t.Error("adaptation still enabled after PUT")
	}
}

func TestHandleLeaderboard_UnknownMode(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/v1/leaderboard/blitz", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}

func TestHandleLeaderboard(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/v1/games", map[string]any{
		"outcome": "win", "mode": "pvp", "game_length_seconds": 300, "move_accuracy_pct": 60,
	})

	rec := doRequest(s, http.MethodGet, "/v1/leaderboard/pvp", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp struct {
		Entries []struct {
			PlayerID    string `json:"player_id"`
			IsRequester bool   `json:"is_requester"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(resp.Entries) != 1 || !resp.Entries[0].IsRequester {
		t.Errorf("entries = %+v; want the requester's row", resp.Entries)
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/v1/games", map[string]any{
		"outcome": "win", "mode": "pvp", "game_length_seconds": 300, "move_accuracy_pct": 80,
	})

	export := doRequest(s, http.MethodGet, "/v1/state", nil)
	if export.Code != http.StatusOK {
		t.Fatalf("export status = %d; want 200", export.Code)
	}

	// Import into a second daemon instance.
	other := newTestServer(t)
	req := httptest.NewRequest(http.MethodPut, "/v1/state", bytes.NewReader(export.Body.Bytes()))
	rec := httptest.NewRecorder()
	other.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d; want 200: %s", rec.Code, rec.Body.String())
	}

	if got := other.engine.Metrics().GamesPlayed; got != 1 {
		t.Errorf("imported GamesPlayed = %d; want 1", got)
	}
}
