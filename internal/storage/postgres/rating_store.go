// Package postgres persists rating records in PostgreSQL for daemon
// deployments that share a leaderboard across devices.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/mentor/internal/rating"
)

// schema defines the tables. Applied idempotently on connect.
const schema = `
CREATE TABLE IF NOT EXISTS pvp_records (
	player_id    TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	record       JSONB NOT NULL,
	rating       INTEGER NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_pvp_records_rating ON pvp_records(rating DESC);

CREATE TABLE IF NOT EXISTS campaign_records (
	player_id      TEXT PRIMARY KEY,
	display_name   TEXT NOT NULL DEFAULT '',
	record         JSONB NOT NULL,
	campaign_score INTEGER NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_campaign_records_score ON campaign_records(campaign_score DESC);
`

// RatingStore persists rating records in PostgreSQL
type RatingStore struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool and ensures the schema exists
func Connect(ctx context.Context, databaseURL string) (*RatingStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &RatingStore{pool: pool}, nil
}

// Close releases the connection pool
func (s *RatingStore) Close() {
	s.pool.Close()
}

// SavePvP upserts a PvP rating record
func (s *RatingStore) SavePvP(ctx context.Context, rec *rating.PvPRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal pvp record: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO pvp_records (player_id, display_name, record, rating, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (player_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			record = EXCLUDED.record,
			rating = EXCLUDED.rating,
			updated_at = EXCLUDED.updated_at`,
		rec.PlayerID, rec.DisplayName, blob, rec.Rating,
	)
	if err != nil {
		return fmt.Errorf("upsert pvp record: %w", err)
	}

	return nil
}

// SaveCampaign upserts a campaign rating record
func (s *RatingStore) SaveCampaign(ctx context.Context, rec *rating.CampaignRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal campaign record: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO campaign_records (player_id, display_name, record, campaign_score, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (player_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			record = EXCLUDED.record,
			campaign_score = EXCLUDED.campaign_score,
			updated_at = EXCLUDED.updated_at`,
		rec.PlayerID, rec.DisplayName, blob, rec.CampaignScore,
	)
	if err != nil {
		return fmt.Errorf("upsert campaign record: %w", err)
	}

	return nil
}

// ListPvP returns stored PvP records ranked by rating, highest first
func (s *RatingStore) ListPvP(ctx context.Context, limit int) ([]rating.PvPRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM pvp_records ORDER BY rating DESC, player_id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pvp records: %w", err)
	}
	defer rows.Close()

	var records []rating.PvPRecord
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan pvp record: %w", err)
		}
		var rec rating.PvPRecord
		if err := json.Unmarshal(blob, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal pvp record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListCampaign returns stored campaign records ranked by score, highest first
func (s *RatingStore) ListCampaign(ctx context.Context, limit int) ([]rating.CampaignRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM campaign_records ORDER BY campaign_score DESC, player_id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query campaign records: %w", err)
	}
	defer rows.Close()

	var records []rating.CampaignRecord
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan campaign record: %w", err)
		}
		var rec rating.CampaignRecord
		if err := json.Unmarshal(blob, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal campaign record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
