package repository

import (
	"context"

	"promo-admin/internal/model"
)

// ListFilter selects one page of promotions. Sort must be one of the
// model.Sort* columns; the service layer normalizes the rest.
type ListFilter struct {
	Sort   string
	Desc   bool
	Limit  int
	Offset int
	Search string
}

// PromotionRepository defines the interface for promotion data access operations.
type PromotionRepository interface {
	// List retrieves one page of promotions.
	List(ctx context.Context, filter ListFilter) ([]model.Promotion, error)

	// GetByID retrieves a single promotion by its ID.
	// Returns model.ErrPromotionNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*model.Promotion, error)

	// Create inserts p and returns it with its assigned ID.
	Create(ctx context.Context, p model.Promotion) (*model.Promotion, error)

	// Update replaces every field of the promotion with p's ID.
	Update(ctx context.Context, p model.Promotion) (*model.Promotion, error)

	// Delete removes the promotion with the given ID.
	Delete(ctx context.Context, id int64) error
}
