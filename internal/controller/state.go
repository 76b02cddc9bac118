package controller

import (
	"fmt"
	"strings"

	"promo-admin/internal/model"
	"promo-admin/internal/query"
)

// ResponsePolicy decides which fetch response may update the store when
// several fetches overlap.
type ResponsePolicy int

const (
	// LatestIssued applies a response only if its fetch is the most recently
	// issued one. Late responses of superseded fetches are dropped.
	LatestIssued ResponsePolicy = iota
	// LastArrived applies every response in arrival order, so a slow older
	// fetch can overwrite a newer one.
	LastArrived
)

func (p ResponsePolicy) String() string {
	switch p {
	case LatestIssued:
		return "latest-issued"
	case LastArrived:
		return "last-arrived"
	default:
		return fmt.Sprintf("ResponsePolicy(%d)", int(p))
	}
}

// ParseResponsePolicy parses "latest-issued" or "last-arrived".
func ParseResponsePolicy(s string) (ResponsePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latest-issued", "":
		return LatestIssued, nil
	case "last-arrived":
		return LastArrived, nil
	default:
		return LatestIssued, fmt.Errorf("unknown response policy: %q (must be latest-issued or last-arrived)", s)
	}
}

// FormMode is the state of the create/edit dialog.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

func (m FormMode) String() string {
	switch m {
	case FormClosed:
		return "closed"
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	default:
		return fmt.Sprintf("FormMode(%d)", int(m))
	}
}

// FormState is the dialog state. Promotion is the promotion being edited in
// FormEdit and the zero draft in FormCreate.
type FormState struct {
	Mode      FormMode
	Promotion model.Promotion
}

// IsOpen reports whether the dialog is showing.
func (f FormState) IsOpen() bool {
	return f.Mode != FormClosed
}

// ActionKind identifies a staged mutation.
type ActionKind int

const (
	ActionCreate ActionKind = iota
	ActionUpdate
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// StagedAction is a mutation waiting for the user to confirm it.
type StagedAction struct {
	Kind ActionKind
	// ID is the target of an update or delete.
	ID int64
	// Promotion is the payload of a create or update.
	Promotion model.Promotion
	// Gift is the gift selected in the form, if any. It is not sent to the
	// API because promotions carry no gift reference.
	Gift *model.Gift

	fromForm bool
}

// Display is what the table area shows.
type Display int

const (
	DisplayTable Display = iota
	DisplayLoading
	DisplayError
)

func (d Display) String() string {
	switch d {
	case DisplayTable:
		return "table"
	case DisplayLoading:
		return "loading"
	case DisplayError:
		return "error"
	default:
		return fmt.Sprintf("Display(%d)", int(d))
	}
}

// View is everything a presenter needs to draw the promotions page.
type View struct {
	// Seq grows with every view taken. OnChange callbacks can run
	// concurrently, so a presenter should skip a view whose Seq is below
	// one it has already drawn.
	Seq uint64

	Params      query.Params
	SearchInput string
	Display     Display
	Loading     bool
	Error       string
	Rows        []model.Promotion

	Form        FormState
	Staged      *StagedAction
	ConfirmOpen bool

	Gifts        []model.Gift
	GiftsLoading bool
	GiftsError   string
}
