// Package query holds the list query parameters of the promotions table.
//
// Params is an immutable value: every setter returns a new value and none
// of them perform I/O. The caller decides when a change triggers a fetch.
package query

import (
	"fmt"
	"net/url"
	"strconv"

	"promo-admin/internal/model"
)

// Sortable columns.
const (
	ColumnName      = model.SortByName
	ColumnDate      = model.SortByDate
	ColumnSentGifts = model.SortBySentGifts
)

// Order is a sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Asc {
		return Desc
	}
	return Asc
}

// DefaultPageSize is the number of rows per page when none is configured.
const DefaultPageSize = 10

// Params are the current list query parameters. Page is zero-based.
type Params struct {
	SortColumn string
	SortOrder  Order
	Page       int
	PageSize   int
	Search     string
}

// Default returns the initial parameters of the promotions table.
func Default() Params {
	return Params{
		SortColumn: ColumnName,
		SortOrder:  Asc,
		Page:       0,
		PageSize:   DefaultPageSize,
	}
}

// SetSort flips the order when column is already the sort column,
// otherwise sorts ascending by column. The page is left untouched.
func (p Params) SetSort(column string) Params {
	if p.SortColumn == column {
		p.SortOrder = p.SortOrder.Flip()
		return p
	}
	p.SortColumn = column
	p.SortOrder = Asc
	return p
}

// SetPage moves to the zero-based page n.
func (p Params) SetPage(n int) Params {
	p.Page = n
	return p
}

// SetPageSize changes the page size and returns to the first page.
func (p Params) SetPageSize(n int) Params {
	p.PageSize = n
	p.Page = 0
	return p
}

// SetSearch changes the search text and returns to the first page.
func (p Params) SetSearch(text string) Params {
	p.Search = text
	p.Page = 0
	return p
}

// Validate reports parameters the API would reject.
func (p Params) Validate() error {
	if !IsSortable(p.SortColumn) {
		return fmt.Errorf("unknown sort column: %q", p.SortColumn)
	}
	if p.SortOrder != Asc && p.SortOrder != Desc {
		return fmt.Errorf("unknown sort order: %q", p.SortOrder)
	}
	if p.Page < 0 {
		return fmt.Errorf("page must not be negative: %d", p.Page)
	}
	if p.PageSize <= 0 {
		return fmt.Errorf("page size must be positive: %d", p.PageSize)
	}
	return nil
}

// Values renders the parameters as the list endpoint's query string.
// The API counts pages from one, so page is shifted by one here.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("sort", p.SortColumn)
	v.Set("order", string(p.SortOrder))
	v.Set("page", strconv.Itoa(p.Page+1))
	v.Set("limit", strconv.Itoa(p.PageSize))
	v.Set("search", p.Search)
	return v
}

// IsSortable reports whether column can be sorted on.
func IsSortable(column string) bool {
	switch column {
	case ColumnName, ColumnDate, ColumnSentGifts:
		return true
	}
	return false
}
