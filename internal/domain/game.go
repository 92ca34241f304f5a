package domain

import (
	"time"
)

// Outcome represents the result of a completed game from the player's perspective
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Valid returns true if the outcome is one of the known values
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
		return true
	}
	return false
}

// GameMode distinguishes rated multiplayer games from campaign progression
type GameMode string

const (
	ModePvP      GameMode = "pvp"
	ModeCampaign GameMode = "campaign"
)

// GamePhase classifies how far a game has progressed
type GamePhase string

const (
	PhaseOpening GamePhase = "opening"
	PhaseMiddle  GamePhase = "middle"
	PhaseEndgame GamePhase = "endgame"
)

// ClassifyPhase maps a move count to the game phase.
// Opening covers the first 20 moves, middlegame through move 40.
func ClassifyPhase(moveNumber int) GamePhase {
	switch {
	case moveNumber < 20:
		return PhaseOpening
	case moveNumber < 40:
		return PhaseMiddle
	default:
		return PhaseEndgame
	}
}

// GameSnapshot is the read-only view of a live game supplied by the game engine
type GameSnapshot struct {
	MoveNumber   int
	MoverInCheck bool
	StartedAt    time.Time
}

// MoveDescriptor describes a single move just made, as reported by the game engine.
// The coaching core never validates moves; it only reads these flags.
type MoveDescriptor struct {
	Capture       bool
	CapturedValue int // relative value of the captured piece, 0 if no capture
	Teleport      bool
	RangedAttack  bool
	Castle        bool
}

// Special returns true for moves that always warrant commentary
func (m MoveDescriptor) Special() bool {
	return (m.Capture && m.CapturedValue >= HighValueCapture) || m.Teleport || m.RangedAttack || m.Castle
}

// HighValueCapture is the piece value at or above which a capture counts as special
const HighValueCapture = 5

// GameResult is the completed-game event consumed by the recorder and rating engine
type GameResult struct {
	Outcome         Outcome
	Mode            GameMode
	GameLength      time.Duration
	MoveAccuracyPct float64
	OpponentRating  int           // rated opponent, PvP only
	CampaignLevel   int           // level just played, campaign only
	AIResponseTime  time.Duration // opponent's recorded move latency
}

// Clamp constrains v to the inclusive range [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt constrains v to the inclusive range [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
