package bhandar

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaperSweep(t *testing.T) {
	s, mock := newMockStore(t)
	require.NoError(t, s.SetString("short", "1", time.Second))
	require.NoError(t, s.SetString("long", "2", time.Hour))

	var observed []int
	r := NewReaper(s, WithObserver(func(n int) { observed = append(observed, n) }))
	assert.Equal(t, DefaultReapInterval, r.Interval())

	assert.Equal(t, 0, r.Sweep(context.Background()))
	mock.Add(time.Second)
	assert.Equal(t, 1, r.Sweep(context.Background()))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []int{0, 1}, observed)
}

// flakyStore fails on one key and counts the deletes that went through.
type flakyStore struct {
	due     []Expiry
	bad     string
	deleted []string
}

func (f *flakyStore) Expired(time.Time) []Expiry { return f.due }

func (f *flakyStore) DeleteIfExpiresAt(key string, _ time.Time) bool {
	if key == f.bad {
		panic("disk on fire")
	}
	f.deleted = append(f.deleted, key)
	return true
}

func TestReaperSkipsFailingEntry(t *testing.T) {
	f := &flakyStore{
		due: []Expiry{{Key: "a"}, {Key: "boom"}, {Key: "c"}},
		bad: "boom",
	}
	r := NewReaper(f, WithReaperClock(clock.NewMock()))

	var removed int
	require.NotPanics(t, func() { removed = r.Sweep(context.Background()) })
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"a", "c"}, f.deleted)
}

type brokenStore struct{ *flakyStore }

func (brokenStore) Expired(time.Time) []Expiry { panic("scan failed") }

func TestReaperSurvivesFailingScan(t *testing.T) {
	r := NewReaper(brokenStore{&flakyStore{}})
	assert.NotPanics(t, func() { assert.Equal(t, 0, r.Sweep(context.Background())) })
}

func TestReaperRun(t *testing.T) {
	s, mock := newMockStore(t)
	require.NoError(t, s.SetString("k", "v", time.Second))

	var sweeps atomic.Int32
	r := NewReaper(s,
		WithInterval(5*time.Second),
		WithObserver(func(int) { sweeps.Add(1) }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// the ticker may not exist yet on the first advances
	require.Eventually(t, func() bool {
		mock.Add(5 * time.Second)
		return sweeps.Load() > 0
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, s.Len())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
