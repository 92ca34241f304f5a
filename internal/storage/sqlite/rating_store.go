package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mentor/internal/rating"
)

// RatingStore persists per-player rating records for shared leaderboards
type RatingStore struct {
	db *DB
}

// NewRatingStore creates a rating store over an open database
func NewRatingStore(db *DB) *RatingStore {
	return &RatingStore{db: db}
}

// SavePvP upserts a PvP rating record
func (s *RatingStore) SavePvP(rec *rating.PvPRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal pvp record: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO pvp_records (player_id, display_name, record, rating, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(player_id) DO UPDATE SET
			display_name=excluded.display_name,
			record=excluded.record,
			rating=excluded.rating,
			updated_at=excluded.updated_at`,
		rec.PlayerID, rec.DisplayName, string(blob), rec.Rating,
	)
	if err != nil {
		return fmt.Errorf("upsert pvp record: %w", err)
	}

	return nil
}

// SaveCampaign upserts a campaign rating record
func (s *RatingStore) SaveCampaign(rec *rating.CampaignRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal campaign record: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO campaign_records (player_id, display_name, record, campaign_score, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(player_id) DO UPDATE SET
			display_name=excluded.display_name,
			record=excluded.record,
			campaign_score=excluded.campaign_score,
			updated_at=excluded.updated_at`,
		rec.PlayerID, rec.DisplayName, string(blob), rec.CampaignScore,
	)
	if err != nil {
		return fmt.Errorf("upsert campaign record: %w", err)
	}

	return nil
}

// ListPvP returns the stored PvP records ranked by rating, highest first
func (s *RatingStore) ListPvP(limit int) ([]rating.PvPRecord, error) {
	rows, err := s.db.Query(`SELECT record FROM pvp_records ORDER BY rating DESC, player_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pvp records: %w", err)
	}
	defer rows.Close()

	var records []rating.PvPRecord
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan pvp record: %w", err)
		}
		var rec rating.PvPRecord
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal pvp record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListCampaign returns the stored campaign records ranked by score, highest first
func (s *RatingStore) ListCampaign(limit int) ([]rating.CampaignRecord, error) {
	rows, err := s.db.Query(`SELECT record FROM campaign_records ORDER BY campaign_score DESC, player_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query campaign records: %w", err)
	}
	defer rows.Close()

	var records []rating.CampaignRecord
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan campaign record: %w", err)
		}
		var rec rating.CampaignRecord
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal campaign record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
