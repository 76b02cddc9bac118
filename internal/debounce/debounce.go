// Package debounce turns a burst of search-text changes into a single
// committed value once input has been quiet for a fixed delay.
package debounce

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDelay is the quiescence window used by the promotions search box.
const DefaultDelay = 500 * time.Millisecond

// Timer is a pending callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The real clock is backed by time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(d *Debouncer) {
		d.clock = c
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Debouncer) {
		d.logger = logger.With().Str("component", "search-debouncer").Logger()
	}
}

// Debouncer holds at most one pending value and one timer. Each Submit
// bumps the generation; a timer only commits if its generation is still
// current, so a timer that fired while being replaced is ignored.
type Debouncer struct {
	delay  time.Duration
	clock  Clock
	commit func(string)
	logger zerolog.Logger

	mu         sync.Mutex
	pending    string
	hasPending bool
	timer      Timer
	generation uint64
	closed     bool

	// serialises commit callbacks and orders them against Close
	emitMu sync.Mutex
}

// New creates a debouncer that calls commit with the latest submitted text
// after delay has elapsed without another Submit.
func New(delay time.Duration, commit func(string), opts ...Option) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer{
		delay:  delay,
		clock:  realClock{},
		commit: commit,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit records text as the pending value and restarts the timer.
func (d *Debouncer) Submit(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = text
	d.hasPending = true
	d.generation++
	gen := d.generation
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })

	d.logger.Debug().
		Str("text", text).
		Uint64("generation", gen).
		Msg("search input pending")
}

// Pending returns the value waiting to be committed, if any.
func (d *Debouncer) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.hasPending
}

// Cancel drops the pending value without committing it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Close cancels any pending value. Later submits are ignored. If a commit
// is running, Close waits for it; no commit starts after Close returns.
// Close must not be called from the commit callback.
func (d *Debouncer) Close() {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.closed = true
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = ""
	d.hasPending = false
	d.generation++
}

func (d *Debouncer) fire(gen uint64) {
	// emitMu is taken first so Close cannot land between the check and
	// the commit.
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if d.closed || gen != d.generation || !d.hasPending {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.pending = ""
	d.hasPending = false
	d.timer = nil
	d.mu.Unlock()

	d.logger.Debug().Str("text", value).Msg("search input committed")
	d.commit(value)
}
