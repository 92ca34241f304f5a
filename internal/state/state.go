// Package state defines the versionless persistence snapshot for the engine.
// Snapshots are forward-compatible: importing one with missing fields fills
// in defaults instead of failing.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mentor/internal/domain"
	"github.com/felixgeelhaar/mentor/internal/rating"
)

// EngineState is the opaque blob handed to the persistence gateway
type EngineState struct {
	Difficulty        float64                       `json:"difficulty"`
	AdaptationEnabled *bool                         `json:"adaptation_enabled,omitempty"`
	Samples           []domain.PerformanceSample    `json:"samples,omitempty"`
	Adjustments       []domain.DifficultyAdjustment `json:"adjustments,omitempty"`
	ActiveStrategyID  string                        `json:"active_strategy_id,omitempty"`
	Feedback          []domain.MentorFeedback       `json:"feedback,omitempty"`
	PvPRecords        []rating.PvPRecord            `json:"pvp_records,omitempty"`
	CampaignRecords   []rating.CampaignRecord       `json:"campaign_records,omitempty"`
}

// Normalize fills defaults for missing or out-of-range fields. A zero
// difficulty means the field was absent and falls back to fallbackDifficulty.
func (s *EngineState) Normalize(fallbackDifficulty float64) {
	if s.Difficulty == 0 {
		s.Difficulty = fallbackDifficulty
	}
	s.Difficulty = domain.ClampDifficulty(s.Difficulty)

	if s.AdaptationEnabled == nil {
		enabled := true
		s.AdaptationEnabled = &enabled
	}

	for i := range s.Samples {
		s.Samples[i].PerformanceScore = domain.ClampInt(s.Samples[i].PerformanceScore, 0, 100)
		s.Samples[i].MoveAccuracyPct = domain.Clamp(s.Samples[i].MoveAccuracyPct, 0, 100)
		if !s.Samples[i].Outcome.Valid() {
			s.Samples[i].Outcome = domain.OutcomeDraw
		}
	}

	for i := range s.PvPRecords {
		if s.PvPRecords[i].Rating == 0 {
			s.PvPRecords[i].Rating = rating.InitialRating
		}
		s.PvPRecords[i].Rating = domain.ClampInt(s.PvPRecords[i].Rating, rating.MinRating, rating.MaxRating)
	}
}

// Encode serializes the state as JSON
func (s *EngineState) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot blob. Unknown fields are ignored so newer blobs
// load into older engines.
func Decode(blob []byte) (*EngineState, error) {
	var s EngineState
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &s, nil
}
