package bhandar

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// DefaultReapInterval is how often a Reaper sweeps when no interval is set.
const DefaultReapInterval = 10 * time.Second

// Sweepable is the part of a Store a Reaper needs.
type Sweepable interface {
	Expired(now time.Time) []Expiry
	DeleteIfExpiresAt(key string, expiresAt time.Time) bool
}

// Reaper periodically removes expired entries so their memory is reclaimed
// without waiting for a read. Lookups never depend on it.
type Reaper struct {
	store    Sweepable
	clock    clock.Clock
	interval time.Duration
	observe  func(removed int)
}

// ReaperOption configures a Reaper.
type ReaperOption func(*Reaper)

// WithInterval sets the sweep interval.
func WithInterval(d time.Duration) ReaperOption {
	return func(r *Reaper) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithReaperClock overrides the clock driving the ticker and the sweep cutoff.
func WithReaperClock(c clock.Clock) ReaperOption {
	return func(r *Reaper) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithObserver registers fn to be called after every sweep with the number
// of entries removed.
func WithObserver(fn func(removed int)) ReaperOption {
	return func(r *Reaper) {
		r.observe = fn
	}
}

// NewReaper returns a Reaper for store. When store exposes its clock, the
// reaper shares it.
func NewReaper(store Sweepable, opts ...ReaperOption) *Reaper {
	r := &Reaper{
		store:    store,
		clock:    clock.New(),
		interval: DefaultReapInterval,
	}
	if c, ok := store.(interface{ Clock() clock.Clock }); ok {
		r.clock = c.Clock()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interval returns the sweep interval.
func (r *Reaper) Interval() time.Duration {
	return r.interval
}

// Run sweeps on every tick until ctx is done.
func (r *Reaper) Run(ctx context.Context) error {
	ticker := r.clock.Ticker(r.interval)
	defer ticker.Stop()

	zerolog.Ctx(ctx).Debug().Dur("interval", r.interval).Msg("bhandar: reaper started")
	for {
		select {
		case <-ctx.Done():
			zerolog.Ctx(ctx).Debug().Msg("bhandar: reaper stopped")
			return nil
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep removes every entry that has expired by now and returns how many
// were removed. A failure on one entry is logged and the scan moves on.
func (r *Reaper) Sweep(ctx context.Context) int {
	log := zerolog.Ctx(ctx)

	due, err := r.expired(r.clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("bhandar: reaper scan failed")
		return 0
	}

	removed := 0
	for _, e := range due {
		deleted, err := r.reap(e)
		if err != nil {
			log.Warn().Err(err).Str("key", e.Key).Msg("bhandar: skipping entry")
			continue
		}
		if deleted {
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Int("due", len(due)).Msg("bhandar: reaped expired entries")
	}
	if r.observe != nil {
		r.observe(removed)
	}
	return removed
}

func (r *Reaper) expired(now time.Time) (due []Expiry, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("bhandar: listing expired entries: %v", p)
		}
	}()
	return r.store.Expired(now), nil
}

func (r *Reaper) reap(e Expiry) (deleted bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("bhandar: reaping %q: %v", e.Key, p)
		}
	}()
	return r.store.DeleteIfExpiresAt(e.Key, e.ExpiresAt), nil
}
