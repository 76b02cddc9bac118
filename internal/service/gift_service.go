package service

import (
	"context"

	"promo-admin/internal/gift"
	"promo-admin/internal/model"

	"github.com/rs/zerolog"
)

// giftService implements GiftService over an in-memory catalog.
type giftService struct {
	catalog *gift.Catalog
	logger  zerolog.Logger
}

// NewGiftService creates a new gift service.
func NewGiftService(catalog *gift.Catalog, logger zerolog.Logger) GiftService {
	return &giftService{
		catalog: catalog,
		logger:  logger.With().Str("service", "gift").Logger(),
	}
}

// List returns every gift in the catalog.
func (s *giftService) List(ctx context.Context) ([]model.Gift, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gifts := s.catalog.List()
	s.logger.Debug().Int("count", len(gifts)).Msg("listed gifts")
	return gifts, nil
}
