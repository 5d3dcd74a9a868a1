package bhandar

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, opts ...Option) (*Store, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	return NewStore(append([]Option{WithClock(mock)}, opts...)...), mock
}

func TestSetGetBytes(t *testing.T) {
	s, _ := newMockStore(t)
	val := []byte("dababy")

	require.NoError(t, s.Set("k1", val, time.Second))

	got, status := s.Get("k1")
	require.Equal(t, Found, status)
	assert.Equal(t, val, got)

	// the store keeps its own copy
	val[0] = 'X'
	got[1] = 'Y'
	again, _ := s.Get("k1")
	assert.Equal(t, "dababy", string(again))
}

func TestGetNeverSet(t *testing.T) {
	s, _ := newMockStore(t)

	for _, k := range []string{"missing", "a", strings.Repeat("z", DefaultMaxKeyLen)} {
		v, status := s.Get(k)
		assert.Equal(t, NotFound, status, k)
		assert.Nil(t, v)
	}

	_, err := s.GetBytes("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetZeroTTL(t *testing.T) {
	s, _ := newMockStore(t)

	require.NoError(t, s.SetString("k", "v", 0))
	_, status := s.Get("k")
	assert.Equal(t, NotFound, status)
	assert.Equal(t, 0, s.Len())

	// a zero ttl also discards a previous, still live, entry
	require.NoError(t, s.SetString("k", "old", time.Hour))
	require.NoError(t, s.SetString("k", "new", 0))
	_, status = s.Get("k")
	assert.Equal(t, NotFound, status)
}

func TestSetValidation(t *testing.T) {
	s, _ := newMockStore(t, WithMaxKeyLen(4), WithMaxValueLen(3))

	tests := []struct {
		name  string
		key   string
		value string
		ttl   time.Duration
		field string
	}{
		{"empty key", "", "v", time.Second, "key"},
		{"long key", "abcde", "v", time.Second, "key"},
		{"long value", "k", "abcd", time.Second, "value"},
		{"negative ttl", "k", "v", -time.Second, "ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetString(tt.key, tt.value, tt.ttl)
			require.ErrorIs(t, err, ErrInvalid)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestOverwriteReplacesValueAndTTL(t *testing.T) {
	s, mock := newMockStore(t)

	require.NoError(t, s.SetString("k", "v1", 10*time.Second))
	require.NoError(t, s.SetString("k", "v2", 60*time.Second))

	got, err := s.GetString("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	ttl, status := s.TTL("k")
	require.Equal(t, Found, status)
	assert.Equal(t, 60*time.Second, ttl)

	// the first ttl no longer applies
	mock.Add(30 * time.Second)
	got, err = s.GetString("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	// a shorter second ttl wins too
	require.NoError(t, s.SetString("k", "v3", time.Second))
	mock.Add(time.Second)
	_, status = s.Get("k")
	assert.Equal(t, Expired, status)
}

func TestTTLExpiryOnAccess(t *testing.T) {
	s, mock := newMockStore(t)

	require.NoError(t, s.SetString("e", "deez", 30*time.Millisecond))
	mock.Add(29 * time.Millisecond)
	_, status := s.Get("e")
	require.Equal(t, Found, status)

	// expiry is inclusive: now == expiresAt is already expired
	mock.Add(time.Millisecond)
	_, status = s.Get("e")
	assert.Equal(t, Expired, status)

	// access after expiry also deletes
	assert.Equal(t, 0, s.Len())
}

func TestExpirationIsMonotonic(t *testing.T) {
	s, mock := newMockStore(t)

	require.NoError(t, s.SetString("k", "v", time.Second))
	mock.Add(time.Second)
	_, status := s.Get("k")
	require.Equal(t, Expired, status)

	for range 5 {
		mock.Add(time.Minute)
		_, status = s.Get("k")
		assert.NotEqual(t, Found, status)
	}

	require.NoError(t, s.SetString("k", "again", time.Second))
	got, err := s.GetString("k")
	require.NoError(t, err)
	assert.Equal(t, "again", got)
}

func TestEndToEndNameAlice(t *testing.T) {
	s, mock := newMockStore(t)

	ttl, err := ParseTTL("60s")
	require.NoError(t, err)
	require.NoError(t, s.SetString("name", "Alice", ttl))

	mock.Add(59 * time.Second)
	got, err := s.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	mock.Add(2 * time.Second)
	_, err = s.GetString("name")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTTLRemaining(t *testing.T) {
	s, mock := newMockStore(t)

	_, status := s.TTL("nope")
	assert.Equal(t, NotFound, status)

	require.NoError(t, s.SetString("k", "v", time.Minute))
	mock.Add(15 * time.Second)

	ttl, status := s.TTL("k")
	require.Equal(t, Found, status)
	assert.Equal(t, 45*time.Second, ttl)

	mock.Add(45 * time.Second)
	_, status = s.TTL("k")
	assert.Equal(t, Expired, status)
}

func TestDelete(t *testing.T) {
	s, _ := newMockStore(t)

	require.NoError(t, s.SetString("d", "x", time.Second))
	assert.True(t, s.Delete("d"))

	_, err := s.GetString("d")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting again reports false
	assert.False(t, s.Delete("d"))
}

func TestDeleteIfExpiresAtSparesRefreshedEntry(t *testing.T) {
	s, mock := newMockStore(t)

	require.NoError(t, s.SetString("k", "old", time.Second))
	mock.Add(time.Second)

	due := s.Expired(mock.Now())
	require.Len(t, due, 1)

	// refreshed between the scan and the delete
	require.NoError(t, s.SetString("k", "new", time.Minute))
	assert.False(t, s.DeleteIfExpiresAt(due[0].Key, due[0].ExpiresAt))

	got, err := s.GetString("k")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestEntriesAndLen(t *testing.T) {
	s, mock := newMockStore(t)
	require.NoError(t, s.SetString("b", "BB", time.Minute))
	require.NoError(t, s.SetString("a", "A", time.Minute))
	require.NoError(t, s.SetString("c", "gone", time.Second))
	mock.Add(time.Second)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	ents := s.Entries()
	require.Len(t, ents, 2)
	assert.Equal(t, EntryInfo{Key: "a", Size: 1, ExpiresAt: time.Unix(60, 0)}, ents[0])
	assert.Equal(t, 2, ents[1].Size)
	assert.Equal(t, "Store(len=3)", s.String())
}

func TestShardsRoundedToPowerOfTwo(t *testing.T) {
	s := NewStore(WithShards(5))
	assert.Len(t, s.shards, 8)
	assert.Equal(t, uint64(7), s.mask)

	s = NewStore(WithShards(1))
	require.NoError(t, s.SetString("only", "one", time.Second))
	assert.Equal(t, 1, s.Len())
}

func TestSubscribe(t *testing.T) {
	s, mock := newMockStore(t)
	events, cancel := s.Subscribe(8)
	assert.Equal(t, 1, s.Subscribers())

	require.NoError(t, s.SetString("a", "1", time.Second))
	require.True(t, s.Delete("a"))
	require.NoError(t, s.SetString("b", "2", time.Second))
	mock.Add(time.Second)
	_, status := s.Get("b")
	require.Equal(t, Expired, status)

	assert.Equal(t, Event{Key: "a", Op: OpSet}, <-events)
	assert.Equal(t, Event{Key: "a", Op: OpDelete}, <-events)
	assert.Equal(t, Event{Key: "b", Op: OpSet}, <-events)
	assert.Equal(t, Event{Key: "b", Op: OpExpire}, <-events)

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, 0, s.Subscribers())
}

func TestSubscribeDropsWhenFull(t *testing.T) {
	s, _ := newMockStore(t)
	events, cancel := s.Subscribe(1)
	defer cancel()

	require.NoError(t, s.SetString("a", "1", time.Second))
	require.NoError(t, s.SetString("b", "1", time.Second))

	assert.Equal(t, "a", (<-events).Key)
	assert.Empty(t, events)
}

func TestSubscribeOrdersEventsPerKey(t *testing.T) {
	for range 20 {
		s, _ := newMockStore(t)
		events, cancel := s.Subscribe(1024)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 200 {
				_ = s.SetString("k", "v", time.Minute)
			}
		}()
		go func() {
			defer wg.Done()
			for range 200 {
				s.Delete("k")
			}
		}()
		wg.Wait()
		cancel()

		var last Event
		for ev := range events {
			last = ev
		}
		_, status := s.Get("k")
		if status == Found {
			require.Equal(t, OpSet, last.Op)
		} else {
			require.Equal(t, OpDelete, last.Op)
		}
	}
}

func TestConcurrentSetsNeverTear(t *testing.T) {
	s := NewStore()
	const writers = 16
	const rounds = 200

	// each writer pairs its value with a distinct ttl, so a torn entry would
	// show a value whose remaining ttl belongs to another writer
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := fmt.Sprintf("writer-%02d", w)
			for range rounds {
				assert.NoError(t, s.SetString("k", v, time.Duration(w+1)*time.Hour))
			}
		}()
	}

	done := make(chan struct{})
	var readers sync.WaitGroup
	readers.Add(1)
	go func() {
		defer readers.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if v, err := s.GetString("k"); err == nil {
				assert.True(t, strings.HasPrefix(v, "writer-"), v)
			}
		}
	}()

	wg.Wait()
	close(done)
	readers.Wait()

	got, err := s.GetString("k")
	require.NoError(t, err)
	var w int
	_, err = fmt.Sscanf(got, "writer-%02d", &w)
	require.NoError(t, err)
	assert.True(t, w >= 0 && w < writers)

	s.shardFor("k").mutex.RLock()
	entry := s.shardFor("k").index["k"]
	s.shardFor("k").mutex.RUnlock()
	assert.Equal(t, got, string(entry.value))
	remaining := time.Until(entry.expiresAt)
	assert.InDelta(t, float64(time.Duration(w+1)*time.Hour), float64(remaining), float64(time.Minute))
}
