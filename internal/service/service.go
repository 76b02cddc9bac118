package service

import (
	"context"

	"promo-admin/internal/model"
)

// Pagination limits of the list endpoint.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery is a list request as received from the API. Page is one-based.
type ListQuery struct {
	Sort   string
	Order  string
	Page   int
	Limit  int
	Search string
}

// PromotionService defines operations for promotion management.
type PromotionService interface {
	// List retrieves one page of promotions.
	List(ctx context.Context, q ListQuery) ([]model.Promotion, error)

	// GetByID retrieves a single promotion by ID.
	GetByID(ctx context.Context, id int64) (*model.Promotion, error)

	// Create validates and stores a new promotion. Any ID in p is ignored.
	Create(ctx context.Context, p model.Promotion) (*model.Promotion, error)

	// Update validates and replaces the promotion with the given ID.
	Update(ctx context.Context, id int64, p model.Promotion) (*model.Promotion, error)

	// Delete removes the promotion with the given ID.
	Delete(ctx context.Context, id int64) error
}

// GiftService defines read-only access to the gift catalog.
type GiftService interface {
	// List returns every gift in the catalog.
	List(ctx context.Context) ([]model.Gift, error)
}
