package gift

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"promo-admin/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Catalog is an immutable, in-memory set of gifts.
type Catalog struct {
	gifts []model.Gift
	byID  map[int64]int
}

// NewCatalog builds a catalog from gifts. A later gift replaces an earlier
// one with the same ID.
func NewCatalog(gifts []model.Gift) *Catalog {
	byID := make(map[int64]model.Gift, len(gifts))
	for _, g := range gifts {
		byID[g.ID] = g
	}

	c := &Catalog{
		gifts: make([]model.Gift, 0, len(byID)),
		byID:  make(map[int64]int, len(byID)),
	}
	for _, g := range byID {
		c.gifts = append(c.gifts, g)
	}
	slices.SortFunc(c.gifts, func(a, b model.Gift) int {
		if n := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for i, g := range c.gifts {
		c.byID[g.ID] = i
	}
	return c
}

// LoadCatalog loads every file concurrently and merges them in the order
// given, so later files override earlier ones.
func LoadCatalog(ctx context.Context, files []string, loader Loader, logger zerolog.Logger) (*Catalog, error) {
	logger = logger.With().Str("component", "gift-catalog").Logger()
	logger.Info().Int("file_count", len(files)).Msg("loading gift catalog")

	results := make([][]model.Gift, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			gifts, err := loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load gift file %s: %w", path, err)
			}
			results[i] = gifts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("failed to load gift catalog")
		return nil, err
	}

	c := NewCatalog(slices.Concat(results...))

	logger.Info().Int("total_gifts", c.Size()).Msg("gift catalog loaded")

	return c, nil
}

// List returns every gift ordered by name.
func (c *Catalog) List() []model.Gift {
	return slices.Clone(c.gifts)
}

// Get returns the gift with the given ID.
func (c *Catalog) Get(id int64) (model.Gift, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Gift{}, false
	}
	return c.gifts[i], true
}

// Size returns the number of distinct gifts.
func (c *Catalog) Size() int {
	return len(c.gifts)
}
