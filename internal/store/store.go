package store

import (
	"slices"

	"promo-admin/internal/model"
)

// Snapshot is a copy of the store state, safe to hand to a renderer.
type Snapshot struct {
	Loading bool
	Items   []model.Promotion
	Error   string
}

// HasError reports whether an error message is set.
func (s Snapshot) HasError() bool {
	return s.Error != ""
}

// PromotionStore holds the last fetched page of promotions. Items keep the
// order the server returned them in; the store never re-sorts or pages.
//
// PromotionStore is not safe for concurrent use; its owner serialises access.
type PromotionStore struct {
	loading bool
	items   []model.Promotion
	err     string
}

// New returns an empty store.
func New() *PromotionStore {
	return &PromotionStore{}
}

// BeginFetch marks a fetch as in flight and clears the error.
func (s *PromotionStore) BeginFetch() {
	s.loading = true
	s.err = ""
}

// FetchSucceeded replaces the items with the fetched page.
func (s *PromotionStore) FetchSucceeded(items []model.Promotion) {
	s.loading = false
	s.items = slices.Clone(items)
}

// FetchFailed records the failure. Items are kept so the previous page is
// still available once the error is cleared by the next fetch.
func (s *PromotionStore) FetchFailed(message string) {
	s.loading = false
	s.err = message
}

// CreateSucceeded appends the created promotion. It may not belong on the
// current page; the next fetch reconciles ordering and paging.
func (s *PromotionStore) CreateSucceeded(p model.Promotion) {
	s.items = append(s.items, p)
}

// UpdateSucceeded replaces the promotion with the same ID in place.
// Unknown IDs are ignored.
func (s *PromotionStore) UpdateSucceeded(p model.Promotion) {
	i := s.indexOf(p.ID)
	if i < 0 {
		return
	}
	s.items[i] = p
}

// DeleteSucceeded removes the promotion with the given ID, if present.
func (s *PromotionStore) DeleteSucceeded(id int64) {
	s.items = slices.DeleteFunc(s.items, func(p model.Promotion) bool {
		return p.ID == id
	})
}

// MutationFailed records a failed create, update or delete in the same
// error slot fetch failures use. Loading and items are left alone.
func (s *PromotionStore) MutationFailed(message string) {
	s.err = message
}

// Find returns the promotion with the given ID.
func (s *PromotionStore) Find(id int64) (model.Promotion, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Promotion{}, false
	}
	return s.items[i], true
}

// Snapshot copies the current state.
func (s *PromotionStore) Snapshot() Snapshot {
	return Snapshot{
		Loading: s.loading,
		Items:   slices.Clone(s.items),
		Error:   s.err,
	}
}

func (s *PromotionStore) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(p model.Promotion) bool {
		return p.ID == id
	})
}
