package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"promo-admin/internal/model"
	"promo-admin/internal/repository"

	"github.com/rs/zerolog"
)

// promotionService implements PromotionService.
type promotionService struct {
	repo   repository.PromotionRepository
	logger zerolog.Logger
}

// NewPromotionService creates a new promotion service.
func NewPromotionService(repo repository.PromotionRepository, logger zerolog.Logger) PromotionService {
	return &promotionService{
		repo:   repo,
		logger: logger.With().Str("service", "promotion").Logger(),
	}
}

// Filter normalizes q into a repository filter. Missing or out-of-range
// paging values fall back to defaults; an unknown sort key or order is an
// error.
func Filter(q ListQuery) (repository.ListFilter, error) {
	sort := q.Sort
	if sort == "" {
		sort = model.SortByName
	}
	switch sort {
	case model.SortByName, model.SortByDate, model.SortBySentGifts, model.SortByID:
	default:
		return repository.ListFilter{}, model.NewDomainError(model.ErrCodeInvalidQuery,
			fmt.Sprintf("unknown sort field %q", q.Sort))
	}

	var desc bool
	switch strings.ToLower(q.Order) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return repository.ListFilter{}, model.NewDomainError(model.ErrCodeInvalidQuery,
			fmt.Sprintf("unknown sort order %q", q.Order))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page-1 > math.MaxInt/limit {
		return repository.ListFilter{}, model.NewDomainError(model.ErrCodeInvalidQuery,
			fmt.Sprintf("page %d is out of range", q.Page))
	}

	return repository.ListFilter{
		Sort:   sort,
		Desc:   desc,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: strings.TrimSpace(q.Search),
	}, nil
}

// List retrieves one page of promotions.
func (s *promotionService) List(ctx context.Context, q ListQuery) ([]model.Promotion, error) {
	filter, err := Filter(q)
	if err != nil {
		s.logger.Warn().Err(err).Msg("invalid list query")
		return nil, err
	}

	promotions, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("sort", filter.Sort).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to list promotions")
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}

	s.logger.Debug().
		Int("count", len(promotions)).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Str("search", filter.Search).
		Msg("retrieved promotions")

	return promotions, nil
}

// GetByID retrieves a single promotion by ID.
func (s *promotionService) GetByID(ctx context.Context, id int64) (*model.Promotion, error) {
	if id <= 0 {
		return nil, model.ErrInvalidPromotionID
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "get", id)
	}
	return p, nil
}

// Create validates and stores a new promotion.
func (s *promotionService) Create(ctx context.Context, p model.Promotion) (*model.Promotion, error) {
	p.ID = 0
	if err := p.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("rejected invalid promotion")
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, s.wrap(err, "create", 0)
	}
	return created, nil
}

// Update validates and replaces the promotion with the given ID. An ID in
// the body must match.
func (s *promotionService) Update(ctx context.Context, id int64, p model.Promotion) (*model.Promotion, error) {
	if id <= 0 {
		return nil, model.ErrInvalidPromotionID
	}
	if p.ID != 0 && p.ID != id {
		s.logger.Warn().Int64("path_id", id).Int64("body_id", p.ID).Msg("promotion ID mismatch")
		return nil, model.NewDomainError(model.ErrCodeInvalidPromotionID,
			fmt.Sprintf("body ID %d does not match promotion %d", p.ID, id))
	}
	p.ID = id

	if err := p.Validate(); err != nil {
		s.logger.Warn().Err(err).Int64("promotion_id", id).Msg("rejected invalid promotion")
		return nil, err
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, s.wrap(err, "update", id)
	}
	return updated, nil
}

// Delete removes the promotion with the given ID.
func (s *promotionService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrInvalidPromotionID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrap(err, "delete", id)
	}
	return nil
}

// wrap passes domain errors through and wraps anything else.
func (s *promotionService) wrap(err error, op string, id int64) error {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		s.logger.Debug().
			Str("op", op).
			Str("code", domainErr.Code).
			Int64("promotion_id", id).
			Msg("promotion operation rejected")
		return err
	}
	s.logger.Error().Err(err).Str("op", op).Int64("promotion_id", id).Msg("promotion operation failed")
	return fmt.Errorf("failed to %s promotion: %w", op, err)
}
