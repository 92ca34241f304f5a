// Package rating maintains Elo-style competitive ratings, campaign scores,
// and ranked leaderboard views.
package rating

import (
	"math"
	"time"

	"github.com/felixgeelhaar/mentor/internal/domain"
)

// Elo parameters
const (
	MinRating     = 800
	MaxRating     = 2800
	InitialRating = 1200
	KFactor       = 32
)

// PvPRecord tracks a player's rated multiplayer results
type PvPRecord struct {
	PlayerID          string        `json:"player_id"`
	DisplayName       string        `json:"display_name,omitempty"`
	TotalWins         int           `json:"total_wins"`
	TotalLosses       int           `json:"total_losses"`
	TotalDraws        int           `json:"total_draws"`
	TotalGames        int           `json:"total_games"`
	WinRatePct        float64       `json:"win_rate_pct"`
	CurrentStreak     int           `json:"current_streak"` // signed, draws reset to 0
	BestStreak        int           `json:"best_streak"`    // longest run of any identical outcome
	AverageGameLength time.Duration `json:"average_game_length"`
	FastestWin        time.Duration `json:"fastest_win"` // zero until the first win
	Rating            int           `json:"rating"`

	// run tracking for best-streak upkeep without replaying history
	LastOutcome domain.Outcome `json:"last_outcome,omitempty"`
	RunLength   int            `json:"run_length,omitempty"`
}

// CampaignRecord tracks a player's single-player campaign progression
type CampaignRecord struct {
	PlayerID            string        `json:"player_id"`
	DisplayName         string        `json:"display_name,omitempty"`
	CurrentLevel        int           `json:"current_level"`
	TotalWins           int           `json:"total_wins"`
	TotalGames          int           `json:"total_games"`
	WinRatePct          float64       `json:"win_rate_pct"`
	HighestLevelReached int           `json:"highest_level_reached"`
	AverageGameTime     time.Duration `json:"average_game_time"`
	BestGameTime        time.Duration `json:"best_game_time"` // zero until the first win
	TotalExperience     int           `json:"total_experience"`
	CampaignScore       int           `json:"campaign_score"`
}

// ExpectedScore is the Elo expectation of beating an opponent at the given rating
func ExpectedScore(rating, opponentRating int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponentRating-rating)/400))
}

// actualScore maps an outcome to its Elo score
func actualScore(outcome domain.Outcome) float64 {
	switch outcome {
	case domain.OutcomeWin:
		return 1
	case domain.OutcomeDraw:
		return 0.5
	default:
		return 0
	}
}

// UpdateElo applies one rated result and returns the clamped new rating
func UpdateElo(rating, opponentRating int, outcome domain.Outcome) int {
	expected := ExpectedScore(rating, opponentRating)
	next := float64(rating) + KFactor*(actualScore(outcome)-expected)
	return domain.ClampInt(int(math.Round(next)), MinRating, MaxRating)
}

// ApplyResult folds a completed PvP game into the record
func (r *PvPRecord) ApplyResult(result domain.GameResult) {
	if r.Rating == 0 {
		r.Rating = InitialRating
	}

	r.TotalGames++
	switch result.Outcome {
	case domain.OutcomeWin:
		r.TotalWins++
		if r.FastestWin == 0 || result.GameLength < r.FastestWin {
			r.FastestWin = result.GameLength
		}
	case domain.OutcomeLoss:
		r.TotalLosses++
	case domain.OutcomeDraw:
		r.TotalDraws++
	}

	r.WinRatePct = float64(r.TotalWins) / float64(r.TotalGames) * 100
	r.AverageGameLength += (result.GameLength - r.AverageGameLength) / time.Duration(r.TotalGames)

	r.applyStreak(result.Outcome)

	opponent := result.OpponentRating
	if opponent == 0 {
		opponent = InitialRating
	}
	r.Rating = UpdateElo(r.Rating, opponent, result.Outcome)
}

// applyStreak maintains the signed current streak and the best run of any
// identical outcome, mirroring the aggregator's walk without storing history.
func (r *PvPRecord) applyStreak(outcome domain.Outcome) {
	if outcome == r.LastOutcome {
		r.RunLength++
	} else {
		r.LastOutcome = outcome
		r.RunLength = 1
	}
	if r.RunLength > r.BestStreak {
		r.BestStreak = r.RunLength
	}

	switch outcome {
	case domain.OutcomeWin:
		if r.CurrentStreak > 0 {
			r.CurrentStreak++
		} else {
			r.CurrentStreak = 1
		}
	case domain.OutcomeLoss:
		if r.CurrentStreak < 0 {
			r.CurrentStreak--
		} else {
			r.CurrentStreak = -1
		}
	case domain.OutcomeDraw:
		r.CurrentStreak = 0
	}
}

// ApplyResult folds a completed campaign game into the record
func (r *CampaignRecord) ApplyResult(result domain.GameResult) {
	level := result.CampaignLevel
	if level <= 0 {
		level = max(r.CurrentLevel, 1)
	}

	r.TotalGames++
	if result.Outcome == domain.OutcomeWin {
		r.TotalWins++
		r.CurrentLevel = level + 1
		r.TotalExperience += level * 100
		if r.BestGameTime == 0 || result.GameLength < r.BestGameTime {
			r.BestGameTime = result.GameLength
		}
	} else {
		r.CurrentLevel = level
		r.TotalExperience += level * 10
	}
	if level > r.HighestLevelReached {
		r.HighestLevelReached = level
	}

	r.WinRatePct = float64(r.TotalWins) / float64(r.TotalGames) * 100
	r.AverageGameTime += (result.GameLength - r.AverageGameTime) / time.Duration(r.TotalGames)

	r.CampaignScore = CampaignScore(*r)
}

// CampaignScore computes the ranked campaign score for a record
func CampaignScore(r CampaignRecord) int {
	score := r.HighestLevelReached*100 + r.TotalWins*50

	if r.TotalGames > 0 {
		score += int(float64(r.TotalWins) / float64(r.TotalGames) * 200)
	}

	if r.BestGameTime > 0 {
		if bonus := 300 - int(r.BestGameTime.Seconds()); bonus > 0 {
			score += bonus
		}
	}

	return score
}
