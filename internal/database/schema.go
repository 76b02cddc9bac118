package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the promotions table. Every statement is idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS promotions (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL CHECK (btrim(name) <> ''),
		date DATE NOT NULL,
		sent_gifts INTEGER NOT NULL CHECK (sent_gifts >= 1),
		days_to_take_gift INTEGER NOT NULL CHECK (days_to_take_gift >= 2),
		days_to_receive_gift INTEGER NOT NULL CHECK (days_to_receive_gift >= 2),
		description TEXT NOT NULL DEFAULT '',
		card_numbers TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_promotions_name ON promotions(lower(name));
	CREATE INDEX IF NOT EXISTS idx_promotions_date ON promotions(date);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info().Msg("database schema applied")
	return nil
}
