package rating

import (
	"sort"

	"github.com/felixgeelhaar/mentor/internal/domain"
)

// MaxLeaderboard caps the ranked view at the top 100 entries
const MaxLeaderboard = 100

// RankedEntry is one row of a leaderboard view
type RankedEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name,omitempty"`
	Score       int    `json:"score"` // rating (PvP) or campaign score
	IsRequester bool   `json:"is_requester,omitempty"`
}

// Engine holds one rating record per player per mode
type Engine struct {
	pvp      map[string]*PvPRecord
	campaign map[string]*CampaignRecord
}

// NewEngine creates an engine with no records
func NewEngine() *Engine {
	return &Engine{
		pvp:      make(map[string]*PvPRecord),
		campaign: make(map[string]*CampaignRecord),
	}
}

// Apply folds a completed game into the player's record for its mode
func (e *Engine) Apply(playerID string, result domain.GameResult) {
	switch result.Mode {
	case domain.ModeCampaign:
		rec := e.campaign[playerID]
		if rec == nil {
			rec = &CampaignRecord{PlayerID: playerID}
			e.campaign[playerID] = rec
		}
		rec.ApplyResult(result)
	default:
		rec := e.pvp[playerID]
		if rec == nil {
			rec = &PvPRecord{PlayerID: playerID, Rating: InitialRating}
			e.pvp[playerID] = rec
		}
		rec.ApplyResult(result)
	}
}

// PvP returns the player's PvP record, or nil if they have none
func (e *Engine) PvP(playerID string) *PvPRecord {
	return e.pvp[playerID]
}

// Campaign returns the player's campaign record, or nil if they have none
func (e *Engine) Campaign(playerID string) *CampaignRecord {
	return e.campaign[playerID]
}

// MergePvP inserts externally stored records, keeping existing local ones
func (e *Engine) MergePvP(records []PvPRecord) {
	for i := range records {
		r := records[i]
		if _, ok := e.pvp[r.PlayerID]; !ok && r.PlayerID != "" {
			e.pvp[r.PlayerID] = &r
		}
	}
}

// MergeCampaign inserts externally stored records, keeping existing local ones
func (e *Engine) MergeCampaign(records []CampaignRecord) {
	for i := range records {
		r := records[i]
		if _, ok := e.campaign[r.PlayerID]; !ok && r.PlayerID != "" {
			e.campaign[r.PlayerID] = &r
		}
	}
}

// AllPvP returns every PvP record, unordered
func (e *Engine) AllPvP() []PvPRecord {
	out := make([]PvPRecord, 0, len(e.pvp))
	for _, r := range e.pvp {
		out = append(out, *r)
	}
	return out
}

// AllCampaign returns every campaign record, unordered
func (e *Engine) AllCampaign() []CampaignRecord {
	out := make([]CampaignRecord, 0, len(e.campaign))
	for _, r := range e.campaign {
		out = append(out, *r)
	}
	return out
}

// Leaderboard builds the ranked view for a mode: sort descending by rating
// or campaign score, truncate to the top 100, and tag the requester's row.
// Ties break by player ID so the ordering is deterministic.
func (e *Engine) Leaderboard(mode domain.GameMode, requesterID string) []RankedEntry {
	var entries []RankedEntry

	switch mode {
	case domain.ModeCampaign:
		for _, r := range e.campaign {
			entries = append(entries, RankedEntry{
				PlayerID:    r.PlayerID,
				DisplayName: r.DisplayName,
				Score:       r.CampaignScore,
			})
		}
	default:
		for _, r := range e.pvp {
			entries = append(entries, RankedEntry{
				PlayerID:    r.PlayerID,
				DisplayName: r.DisplayName,
				Score:       r.Rating,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})

	if len(entries) > MaxLeaderboard {
		entries = entries[:MaxLeaderboard]
	}

	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].PlayerID == requesterID {
			entries[i].IsRequester = true
		}
	}

	return entries
}

// Reset removes all records. Only an explicit reset ever deletes them.
func (e *Engine) Reset() {
	e.pvp = make(map[string]*PvPRecord)
	e.campaign = make(map[string]*CampaignRecord)
}
