// Package controller keeps the promotions page state in step with the
// remote promotions API.
//
// Every change to the list query issues exactly one fetch. Create, update
// and delete are staged first and only sent once the user confirms. All
// state lives behind one mutex; remote calls and search commits run on
// their own goroutines and re-enter through it.
package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"promo-admin/internal/debounce"
	"promo-admin/internal/model"
	"promo-admin/internal/query"
	"promo-admin/internal/store"

	"github.com/rs/zerolog"
)

// API is the remote promotions store.
type API interface {
	ListPromotions(ctx context.Context, params query.Params) ([]model.Promotion, error)
	CreatePromotion(ctx context.Context, p model.Promotion) (*model.Promotion, error)
	UpdatePromotion(ctx context.Context, id int64, p model.Promotion) (*model.Promotion, error)
	DeletePromotion(ctx context.Context, id int64) (int64, error)
	ListGifts(ctx context.Context) ([]model.Gift, error)
}

// Controller errors.
var (
	ErrFormOpen         = errors.New("promotion form is already open")
	ErrFormClosed       = errors.New("promotion form is not open")
	ErrNothingStaged    = errors.New("no action awaiting confirmation")
	ErrInvalidID        = errors.New("promotion ID must be a positive integer")
	ErrInvalidPage      = errors.New("page must not be negative")
	ErrInvalidPageSize  = errors.New("page size must be positive")
	ErrUnknownSortField = errors.New("unknown sort column")
)

// Options configures a Controller.
type Options struct {
	// InitialParams defaults to query.Default().
	InitialParams query.Params
	// SearchDelay defaults to debounce.DefaultDelay.
	SearchDelay    time.Duration
	ResponsePolicy ResponsePolicy
	// OnChange, if set, receives the view after every state change. It is
	// called without the controller lock held, possibly from several
	// goroutines.
	OnChange func(View)
	// Clock drives the search debouncer; nil means the wall clock.
	Clock debounce.Clock
}

// Controller owns the promotion store and the list query.
type Controller struct {
	api      API
	logger   zerolog.Logger
	policy   ResponsePolicy
	onChange func(View)

	search   *debounce.Debouncer
	inflight sync.WaitGroup

	mu          sync.Mutex
	ctx         context.Context
	params      query.Params
	searchInput string
	store       *store.PromotionStore
	fetchSeq    uint64
	form        FormState
	staged      *StagedAction
	gifts       []model.Gift
	giftsSeq    uint64
	giftsBusy   bool
	giftsErr    string
	viewSeq     uint64
}

// New creates a controller. Nothing is fetched until Start.
func New(api API, logger zerolog.Logger, opts Options) *Controller {
	params := opts.InitialParams
	if params == (query.Params{}) {
		params = query.Default()
	}

	c := &Controller{
		api:      api,
		logger:   logger.With().Str("component", "promotions-controller").Logger(),
		policy:   opts.ResponsePolicy,
		onChange: opts.OnChange,
		ctx:      context.Background(),
		params:   params,
		store:    store.New(),
	}

	debounceOpts := []debounce.Option{debounce.WithLogger(logger)}
	if opts.Clock != nil {
		debounceOpts = append(debounceOpts, debounce.WithClock(opts.Clock))
	}
	c.search = debounce.New(opts.SearchDelay, c.commitSearch, debounceOpts...)

	return c
}

// Start issues the initial fetch. Remote calls made by the controller use
// ctx; they are not cancelled when a newer fetch supersedes them.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.fetchLocked()
	c.mu.Unlock()
	c.notify()
}

// Refresh re-fetches the current page.
func (c *Controller) Refresh() {
	c.mu.Lock()
	c.fetchLocked()
	c.mu.Unlock()
	c.notify()
}

// Sort sorts by column, flipping the order if it is already the sort column.
func (c *Controller) Sort(column string) error {
	if !query.IsSortable(column) {
		return fmt.Errorf("%w: %q", ErrUnknownSortField, column)
	}
	c.updateParams(func(p query.Params) query.Params { return p.SetSort(column) })
	return nil
}

// SetPage moves to the zero-based page n.
func (c *Controller) SetPage(n int) error {
	if n < 0 {
		return ErrInvalidPage
	}
	c.updateParams(func(p query.Params) query.Params { return p.SetPage(n) })
	return nil
}

// SetPageSize changes the number of rows per page and returns to page 0.
func (c *Controller) SetPageSize(n int) error {
	if n <= 0 {
		return ErrInvalidPageSize
	}
	c.updateParams(func(p query.Params) query.Params { return p.SetPageSize(n) })
	return nil
}

// Search records raw search input. The query only changes once input has
// been quiet for the search delay.
func (c *Controller) Search(text string) {
	c.mu.Lock()
	c.searchInput = text
	c.mu.Unlock()

	c.search.Submit(text)
	c.notify()
}

func (c *Controller) commitSearch(text string) {
	c.updateParams(func(p query.Params) query.Params { return p.SetSearch(text) })
}

func (c *Controller) updateParams(change func(query.Params) query.Params) {
	c.mu.Lock()
	c.params = change(c.params)
	c.fetchLocked()
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) fetchLocked() {
	c.fetchSeq++
	seq := c.fetchSeq
	params := c.params
	ctx := c.ctx

	c.store.BeginFetch()
	c.logger.Debug().
		Uint64("seq", seq).
		Str("sort", params.SortColumn).
		Str("order", string(params.SortOrder)).
		Int("page", params.Page).
		Int("page_size", params.PageSize).
		Str("search", params.Search).
		Msg("fetching promotions")

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		items, err := c.api.ListPromotions(ctx, params)
		c.applyFetch(seq, items, err)
	}()
}

func (c *Controller) applyFetch(seq uint64, items []model.Promotion, err error) {
	c.mu.Lock()
	if c.policy == LatestIssued && seq != c.fetchSeq {
		c.logger.Debug().
			Uint64("seq", seq).
			Uint64("latest", c.fetchSeq).
			Msg("discarding response of superseded fetch")
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.logger.Warn().Err(err).Uint64("seq", seq).Msg("failed to fetch promotions")
		c.store.FetchFailed(err.Error())
	} else {
		c.logger.Debug().Uint64("seq", seq).Int("count", len(items)).Msg("promotions fetched")
		c.store.FetchSucceeded(items)
	}
	c.mu.Unlock()
	c.notify()
}

// OpenCreate opens the form with an empty draft.
func (c *Controller) OpenCreate() error {
	return c.openForm(FormState{Mode: FormCreate})
}

// OpenEdit opens the form for an existing promotion.
func (c *Controller) OpenEdit(p model.Promotion) error {
	if p.ID <= 0 {
		return ErrInvalidID
	}
	return c.openForm(FormState{Mode: FormEdit, Promotion: p})
}

func (c *Controller) openForm(state FormState) error {
	c.mu.Lock()
	if c.form.IsOpen() {
		c.mu.Unlock()
		return ErrFormOpen
	}
	c.form = state
	c.loadGiftsLocked()
	c.mu.Unlock()
	c.notify()
	return nil
}

// CancelForm closes the form. A staged create or update that came from the
// form is dropped with it.
func (c *Controller) CancelForm() {
	c.mu.Lock()
	c.form = FormState{}
	if c.staged != nil && c.staged.fromForm {
		c.staged = nil
	}
	c.mu.Unlock()
	c.notify()
}

// SubmitForm validates draft and stages a create (new promotion) or an
// update (promotion being edited). The form stays open until the action is
// confirmed.
func (c *Controller) SubmitForm(draft model.Promotion, gift *model.Gift) error {
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.notify()
	}()

	var action StagedAction
	switch c.form.Mode {
	case FormCreate:
		draft.ID = 0
		action = StagedAction{Kind: ActionCreate, Promotion: draft}
	case FormEdit:
		draft.ID = c.form.Promotion.ID
		action = StagedAction{Kind: ActionUpdate, ID: draft.ID, Promotion: draft}
	default:
		return ErrFormClosed
	}

	if err := draft.Validate(); err != nil {
		return err
	}

	if gift != nil {
		g := *gift
		action.Gift = &g
	}
	action.fromForm = true
	c.stageLocked(action)
	return nil
}

// RequestDelete stages deletion of the promotion with the given ID.
func (c *Controller) RequestDelete(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	c.mu.Lock()
	c.stageLocked(StagedAction{Kind: ActionDelete, ID: id})
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Controller) stageLocked(action StagedAction) {
	if c.staged != nil {
		c.logger.Debug().
			Str("replaced", c.staged.Kind.String()).
			Int64("replaced_id", c.staged.ID).
			Str("action", action.Kind.String()).
			Msg("replacing unconfirmed action")
	}
	c.staged = &action
}

// Staged returns the action awaiting confirmation.
func (c *Controller) Staged() (StagedAction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.staged == nil {
		return StagedAction{}, false
	}
	return *c.staged, true
}

// Confirm sends the staged action to the API and clears the prompt. A
// confirmed form action also closes the form.
func (c *Controller) Confirm() error {
	c.mu.Lock()
	if c.staged == nil {
		c.mu.Unlock()
		return ErrNothingStaged
	}
	action := *c.staged
	c.staged = nil
	if action.fromForm {
		c.form = FormState{}
	}
	ctx := c.ctx

	c.logger.Info().
		Str("action", action.Kind.String()).
		Int64("promotion_id", action.ID).
		Msg("action confirmed")

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.execute(ctx, action)
	}()
	c.mu.Unlock()
	c.notify()
	return nil
}

// Reject drops the staged action without side effects.
func (c *Controller) Reject() {
	c.mu.Lock()
	c.staged = nil
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) execute(ctx context.Context, action StagedAction) {
	if action.Gift != nil {
		c.logger.Info().
			Int64("gift_id", action.Gift.ID).
			Str("gift", action.Gift.Name).
			Str("action", action.Kind.String()).
			Msg("gift selection is not persisted with the promotion")
	}

	var (
		result *model.Promotion
		id     int64
		err    error
	)
	switch action.Kind {
	case ActionCreate:
		result, err = c.api.CreatePromotion(ctx, action.Promotion)
	case ActionUpdate:
		result, err = c.api.UpdatePromotion(ctx, action.ID, action.Promotion)
	case ActionDelete:
		id, err = c.api.DeletePromotion(ctx, action.ID)
	}

	c.mu.Lock()
	switch {
	case err != nil:
		c.logger.Error().
			Err(err).
			Str("action", action.Kind.String()).
			Int64("promotion_id", action.ID).
			Msg("promotion mutation failed")
		c.store.MutationFailed(err.Error())
	case action.Kind == ActionCreate:
		c.store.CreateSucceeded(*result)
	case action.Kind == ActionUpdate:
		c.store.UpdateSucceeded(*result)
	case action.Kind == ActionDelete:
		c.store.DeleteSucceeded(id)
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) loadGiftsLocked() {
	c.giftsSeq++
	seq := c.giftsSeq
	ctx := c.ctx
	c.giftsBusy = true
	c.giftsErr = ""

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		gifts, err := c.api.ListGifts(ctx)

		c.mu.Lock()
		if seq == c.giftsSeq {
			c.giftsBusy = false
			if err != nil {
				c.logger.Warn().Err(err).Msg("failed to load gifts")
				c.giftsErr = err.Error()
			} else {
				c.gifts = gifts
			}
		}
		c.mu.Unlock()
		c.notify()
	}()
}

// Gift returns the loaded gift with the given ID.
func (c *Controller) Gift(id int64) (model.Gift, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.gifts, func(g model.Gift) bool { return g.ID == id })
	if i < 0 {
		return model.Gift{}, false
	}
	return c.gifts[i], true
}

// View derives the renderable page state. Loading takes priority over an
// error, and an error hides the rows even though they are kept.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	snap := c.store.Snapshot()
	c.viewSeq++

	v := View{
		Seq:          c.viewSeq,
		Params:       c.params,
		SearchInput:  c.searchInput,
		Loading:      snap.Loading,
		Error:        snap.Error,
		Rows:         snap.Items,
		Form:         c.form,
		ConfirmOpen:  c.staged != nil,
		Gifts:        slices.Clone(c.gifts),
		GiftsLoading: c.giftsBusy,
		GiftsError:   c.giftsErr,
	}
	if c.staged != nil {
		staged := *c.staged
		v.Staged = &staged
	}

	switch {
	case snap.Loading:
		v.Display = DisplayLoading
	case snap.HasError():
		v.Display = DisplayError
	default:
		v.Display = DisplayTable
	}
	return v
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.View())
}

// Wait blocks until every issued remote call has been applied.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Close cancels a pending search commit. In-flight calls still complete.
func (c *Controller) Close() {
	c.search.Close()
}
