package repository

import (
	"context"
	"errors"
	"fmt"

	"promo-admin/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// promotionRepository implements the PromotionRepository interface using PostgreSQL.
type promotionRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(db DBTX, logger zerolog.Logger) PromotionRepository {
	return &promotionRepository{
		db:     db,
		logger: logger.With().Str("repository", "promotion").Logger(),
	}
}

// List retrieves one page of promotions, optionally filtered by a
// case-insensitive substring of name or description.
func (r *promotionRepository) List(ctx context.Context, filter ListFilter) ([]model.Promotion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM promotions
		WHERE $1 = ''
		   OR strpos(lower(name), lower($1)) > 0
		   OR strpos(lower(description), lower($1)) > 0
		ORDER BY %s
		LIMIT $2 OFFSET $3
	`, promotionColumns, orderBy(filter.Sort, filter.Desc))

	rows, err := r.db.Query(ctx, query, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("sort", filter.Sort).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query promotions")
		return nil, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	promotions := []model.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan promotion row")
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions = append(promotions, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating promotion rows")
		return nil, fmt.Errorf("error iterating promotions: %w", err)
	}

	return promotions, nil
}

// GetByID retrieves a single promotion by its ID.
func (r *promotionRepository) GetByID(ctx context.Context, id int64) (*model.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`

	p, err := scanPromotion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("promotion_id", id).Msg("promotion not found")
			return nil, model.ErrPromotionNotFound
		}
		r.logger.Error().Err(err).Int64("promotion_id", id).Msg("failed to query promotion")
		return nil, fmt.Errorf("failed to query promotion: %w", err)
	}

	return &p, nil
}

// Create inserts p and returns the stored row.
func (r *promotionRepository) Create(ctx context.Context, p model.Promotion) (*model.Promotion, error) {
	query := `
		INSERT INTO promotions (name, date, sent_gifts, days_to_take_gift, days_to_receive_gift, description, card_numbers)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + promotionColumns

	created, err := scanPromotion(r.db.QueryRow(ctx, query,
		p.Name,
		p.Date.Time,
		p.SentGifts,
		p.DaysToTakeGift,
		p.DaysToReceiveGift,
		p.Description,
		p.CardNumbers,
	))
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert promotion")
		return nil, fmt.Errorf("failed to insert promotion: %w", err)
	}

	r.logger.Info().Int64("promotion_id", created.ID).Msg("promotion created")

	return &created, nil
}

// Update replaces the promotion with p's ID.
func (r *promotionRepository) Update(ctx context.Context, p model.Promotion) (*model.Promotion, error) {
	query := `
		UPDATE promotions
		SET name = $2,
		    date = $3,
		    sent_gifts = $4,
		    days_to_take_gift = $5,
		    days_to_receive_gift = $6,
		    description = $7,
		    card_numbers = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + promotionColumns

	updated, err := scanPromotion(r.db.QueryRow(ctx, query,
		p.ID,
		p.Name,
		p.Date.Time,
		p.SentGifts,
		p.DaysToTakeGift,
		p.DaysToReceiveGift,
		p.Description,
		p.CardNumbers,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("promotion_id", p.ID).Msg("promotion to update not found")
			return nil, model.ErrPromotionNotFound
		}
		r.logger.Error().Err(err).Int64("promotion_id", p.ID).Msg("failed to update promotion")
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	r.logger.Info().Int64("promotion_id", updated.ID).Msg("promotion updated")

	return &updated, nil
}

// Delete removes the promotion with the given ID.
func (r *promotionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("promotion_id", id).Msg("failed to delete promotion")
		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("promotion_id", id).Msg("promotion to delete not found")
		return model.ErrPromotionNotFound
	}

	r.logger.Info().Int64("promotion_id", id).Msg("promotion deleted")

	return nil
}
