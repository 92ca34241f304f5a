package engine

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
	"github.com/felixgeelhaar/mentor/internal/rating"
	"github.com/felixgeelhaar/mentor/internal/state"
)

// memoryGateway is an in-process persistence gateway for tests
type memoryGateway struct {
	saved    *state.EngineState
	saves    int
	saveErr  error
	loadErr  error
	snapshot *state.EngineState
}

func (g *memoryGateway) SaveState(st *state.EngineState) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saved = st
	g.saves++
	return nil
}

func (g *memoryGateway) LoadState() (*state.EngineState, error) {
	if g.loadErr != nil {
		return nil, g.loadErr
	}
	if g.snapshot == nil {
		return nil, errors.New("nothing saved")
	}
	return g.snapshot, nil
}

func newTestEngine(gw Gateway) *Engine {
	return New(Config{
		PlayerID: "p1",
		Gateway:  gw,
		Rand:     rand.New(rand.NewSource(1)),
	})
}

func win() domain.GameResult {
	return domain.GameResult{
		Outcome:         domain.OutcomeWin,
		Mode:            domain.ModePvP,
		GameLength:      10 * time.Minute,
		MoveAccuracyPct: 70,
	}
}

func loss() domain.GameResult {
	return domain.GameResult{
		Outcome:         domain.OutcomeLoss,
		Mode:            domain.ModePvP,
		GameLength:      10 * time.Minute,
		MoveAccuracyPct: 40,
	}
}

func TestEngine_Defaults(t *testing.T) {
	e := newTestEngine(nil)

	if got := e.CurrentDifficulty(); got != DefaultDifficulty {
		t.Errorf("CurrentDifficulty() = %v; want %v", got, DefaultDifficulty)
	}
	if m := e.Metrics(); m.GamesPlayed != 0 || m.SkillLevel != domain.SkillBeginner || m.ImprovementTrend != domain.TrendStable {
		t.Errorf("fresh metrics = %+v; want zero games, beginner, stable", m)
	}
	if !e.AdaptationEnabled() {
		t.Error("AdaptationEnabled() = false on a fresh engine; want true")
	}
	if e.PvPRecord() != nil {
		t.Error("PvPRecord() before any game != nil")
	}
}

func TestEngine_RecordGameResult(t *testing.T) {
	gw := &memoryGateway{}
	e := newTestEngine(gw)

	e.RecordGameResult(win())

	m := e.Metrics()
	if m.GamesPlayed != 1 {
		t.Errorf("GamesPlayed = %d; want 1", m.GamesPlayed)
	}
	if m.WinRatePct != 100 {
		t.Errorf("WinRatePct = %v; want 100", m.WinRatePct)
	}

	rec := e.PvPRecord()
	if rec == nil {
		t.Fatal("PvPRecord() = nil after a rated game")
	}
	if rec.Rating != 1216 {
		t.Errorf("Rating = %d; want 1216", rec.Rating)
	}

	if gw.saves != 1 {
		t.Errorf("gateway saves = %d; want 1", gw.saves)
	}
}

func TestEngine_RecordGameResult_InvalidOutcomeIgnored(t *testing.T) {
	e := newTestEngine(nil)

	e.RecordGameResult(domain.GameResult{Outcome: "exploded", Mode: domain.ModePvP})

	if m := e.Metrics(); m.GamesPlayed != 0 {
		t.Errorf("GamesPlayed = %d; want 0", m.GamesPlayed)
	}
}

func TestEngine_WinStreakRaisesDifficulty(t *testing.T) {
	e := newTestEngine(nil)

	for i := 0; i < 5; i++ {
		e.RecordGameResult(win())
	}

	if got := e.CurrentDifficulty(); got <= DefaultDifficulty {
		t.Errorf("CurrentDifficulty() after 5 wins = %v; want > %v", got, DefaultDifficulty)
	}
	if adjs := e.Adjustments(); len(adjs) == 0 {
		t.Error("no adjustments logged after a win streak")
	}
}

func TestEngine_AdaptationDisabled(t *testing.T) {
	e := newTestEngine(nil)
	e.SetAdaptationEnabled(false)

	for i := 0; i < 5; i++ {
		e.RecordGameResult(win())
	}

	if got := e.CurrentDifficulty(); got != DefaultDifficulty {
		t.Errorf("CurrentDifficulty() with adaptation off = %v; want %v", got, DefaultDifficulty)
	}
	if len(e.Adjustments()) != 0 {
		t.Error("adjustments logged with adaptation off")
	}
}

func TestEngine_DifficultyStaysInRange(t *testing.T) {
	e := newTestEngine(nil)

	// Arbitrary long mixed sequence must never escape [1, 10].
	for i := 0; i < 200; i++ {
		if i%3 == 0 {
			e.RecordGameResult(loss())
		} else {
			e.RecordGameResult(win())
		}
		d := e.CurrentDifficulty()
		if d < domain.MinDifficulty || d > domain.MaxDifficulty {
			t.Fatalf("difficulty %v escaped range after game %d", d, i)
		}
	}
}

func TestEngine_ObserveMove(t *testing.T) {
	e := newTestEngine(nil)

	fb := e.ObserveMove(domain.GameSnapshot{MoveNumber: 1}, domain.MoveDescriptor{})
	if fb == nil {
		t.Fatal("ObserveMove(move 1) = nil; want feedback")
	}

	recent := e.CurrentFeedback()
	if len(recent) != 1 || recent[0].ID != fb.ID {
		t.Errorf("CurrentFeedback() = %+v; want the emitted entry", recent)
	}
}

func TestEngine_PredictIsIdempotent(t *testing.T) {
	e := newTestEngine(nil)
	for i := 0; i < 12; i++ {
		e.RecordGameResult(win())
	}

	first := e.PredictedDifficulty()
	second := e.PredictedDifficulty()
	if first != second {
		t.Errorf("PredictedDifficulty() = %v then %v; want identical", first, second)
	}
	if e.CurrentDifficulty() != e.CurrentDifficulty() {
		t.Error("CurrentDifficulty() changed between reads")
	}
}

func TestEngine_ExportImport_RoundTrip(t *testing.T) {
	e := newTestEngine(nil)
	for i := 0; i < 7; i++ {
		e.RecordGameResult(win())
	}
	e.RecordGameResult(domain.GameResult{
		Outcome:       domain.OutcomeWin,
		Mode:          domain.ModeCampaign,
		CampaignLevel: 2,
		GameLength:    3 * time.Minute,
	})

	blob, err := e.ExportState()
	if err != nil {
		t.Fatalf("ExportState() error = %v", err)
	}

	fresh := newTestEngine(nil)
	if err := fresh.ImportState(blob); err != nil {
		t.Fatalf("ImportState() error = %v", err)
	}

	if fresh.CurrentDifficulty() != e.CurrentDifficulty() {
		t.Errorf("difficulty = %v; want %v", fresh.CurrentDifficulty(), e.CurrentDifficulty())
	}
	if fresh.Metrics() != e.Metrics() {
		t.Errorf("metrics = %+v; want %+v", fresh.Metrics(), e.Metrics())
	}
	if fresh.ActiveStrategy().ID != e.ActiveStrategy().ID {
		t.Errorf("strategy = %s; want %s", fresh.ActiveStrategy().ID, e.ActiveStrategy().ID)
	}

	got, want := fresh.PvPRecord(), e.PvPRecord()
	if got == nil || got.Rating != want.Rating || got.TotalGames != want.TotalGames {
		t.Errorf("pvp record = %+v; want %+v", got, want)
	}
	if camp := fresh.CampaignRecord(); camp == nil || camp.CurrentLevel != 3 {
		t.Errorf("campaign record = %+v; want level 3", camp)
	}
}

func TestEngine_ImportState_CorruptBlobIgnored(t *testing.T) {
	e := newTestEngine(nil)
	e.RecordGameResult(win())
	before := e.Metrics()

	if err := e.ImportState([]byte("definitely not json")); err != nil {
		t.Fatalf("ImportState(corrupt) error = %v; want nil", err)
	}

	if e.Metrics() != before {
		t.Error("corrupt import mutated engine state")
	}
}

func TestEngine_RestoreFromGateway(t *testing.T) {
	gw := &memoryGateway{}
	e := newTestEngine(gw)
	for i := 0; i < 5; i++ {
		e.RecordGameResult(win())
	}
	wantDifficulty := e.CurrentDifficulty()

	// A new engine over the same gateway picks up where the last left off.
	gw.snapshot = gw.saved
	restored := newTestEngine(gw)

	if got := restored.CurrentDifficulty(); got != wantDifficulty {
		t.Errorf("restored difficulty = %v; want %v", got, wantDifficulty)
	}
	if got := restored.Metrics().GamesPlayed; got != 5 {
		t.Errorf("restored GamesPlayed = %d; want 5", got)
	}
}

func TestEngine_PersistFailureDoesNotPropagate(t *testing.T) {
	gw := &memoryGateway{saveErr: errors.New("disk full")}
	e := newTestEngine(gw)

	// Must not panic or fail; the in-memory state stays authoritative.
	e.RecordGameResult(win())

	if m := e.Metrics(); m.GamesPlayed != 1 {
		t.Errorf("GamesPlayed = %d; want 1", m.GamesPlayed)
	}
}

func TestEngine_Leaderboard(t *testing.T) {
	e := newTestEngine(nil)
	e.RecordGameResult(win())
	e.MergeRecords([]rating.PvPRecord{
		{PlayerID: "rival", Rating: 2000},
	}, nil)

	board := e.Leaderboard(domain.ModePvP)
	if len(board) != 2 {
		t.Fatalf("len(board) = %d; want 2", len(board))
	}
	if board[0].PlayerID != "rival" {
		t.Errorf("top entry = %s; want rival", board[0].PlayerID)
	}
	if !board[1].IsRequester {
		t.Error("requester row not tagged")
	}
}

func TestEngine_CloseTakesFinalSnapshot(t *testing.T) {
	gw := &memoryGateway{}
	e := newTestEngine(gw)
	e.Start()
	e.RecordGameResult(win())
	saves := gw.saves

	e.Close()

	if gw.saves != saves+1 {
		t.Errorf("saves after Close() = %d; want %d", gw.saves, saves+1)
	}
}
