// Package bhandar provides an in-memory key/value store whose entries expire
// after a TTL, together with a background reaper that reclaims them.
//
// Expiration is enforced lazily on every read, so an expired entry is never
// returned even if the reaper has not run yet.
package bhandar

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/zeebo/xxh3"
)

// NewStore returns a pointer to an empty Store.
func NewStore(opts ...Option) *Store {
	o := options{
		clock:       clock.New(),
		shards:      DefaultShards,
		maxKeyLen:   DefaultMaxKeyLen,
		maxValueLen: DefaultMaxValueLen,
	}
	for _, opt := range opts {
		opt(&o)
	}

	n := nextPowerOfTwo(o.shards)
	s := &Store{
		clock:       o.clock,
		shards:      make([]*shard, n),
		mask:        uint64(n - 1),
		maxKeyLen:   o.maxKeyLen,
		maxValueLen: o.maxValueLen,
	}
	for i := range s.shards {
		s.shards[i] = &shard{index: map[string]cacheEntry{}}
	}

	return s
}

func (s *Store) shardFor(key string) *shard {
	return s.shards[xxh3.HashString(key)&s.mask]
}

// Clock returns the time source used for expiration.
func (s *Store) Clock() clock.Clock {
	return s.clock
}

// ValidateKey reports whether key may be stored.
func (s *Store) ValidateKey(key string) error {
	if key == "" {
		return invalid("key", "required")
	}
	if len(key) > s.maxKeyLen {
		return invalid("key", "longer than %d bytes", s.maxKeyLen)
	}
	return nil
}

// ValidateValue reports whether a value of n bytes may be stored.
func (s *Store) ValidateValue(n int) error {
	if n > s.maxValueLen {
		return invalid("value", "longer than %d bytes", s.maxValueLen)
	}
	return nil
}

// Set stores a copy of value under key until ttl has elapsed, replacing any
// previous entry together with its remaining TTL. A zero ttl expires the
// entry immediately: the previous entry is dropped and nothing is stored.
func (s *Store) Set(key string, value []byte, ttl time.Duration) error {
	if err := s.ValidateKey(key); err != nil {
		return err
	}
	if err := s.ValidateValue(len(value)); err != nil {
		return err
	}
	if ttl < 0 {
		return invalid("ttl", "must not be negative")
	}

	sh := s.shardFor(key)
	if ttl == 0 {
		sh.mutex.Lock()
		if _, existed := sh.index[key]; existed {
			delete(sh.index, key)
			s.feed.publish(Event{Key: key, Op: OpDelete})
		}
		sh.mutex.Unlock()
		return nil
	}

	entry := cacheEntry{
		value:     bytes.Clone(value),
		expiresAt: s.clock.Now().Add(ttl),
	}

	sh.mutex.Lock()
	sh.index[key] = entry
	s.feed.publish(Event{Key: key, Op: OpSet})
	sh.mutex.Unlock()
	return nil
}

// SetString stores a string value under key.
func (s *Store) SetString(key, value string, ttl time.Duration) error {
	return s.Set(key, []byte(value), ttl)
}

func (s *Store) lookup(key string) (cacheEntry, time.Time, Status) {
	now := s.clock.Now()
	sh := s.shardFor(key)

	sh.mutex.RLock()
	entry, ok := sh.index[key]
	sh.mutex.RUnlock()

	if !ok {
		return cacheEntry{}, now, NotFound
	}

	if !now.Before(entry.expiresAt) {
		s.DeleteIfExpiresAt(key, entry.expiresAt)
		return cacheEntry{}, now, Expired
	}

	return entry, now, Found
}

// Get returns a copy of the value stored under key. The value is only
// meaningful when the status is Found.
func (s *Store) Get(key string) ([]byte, Status) {
	value, _, status := s.Lookup(key)
	return value, status
}

// Lookup is like Get and also returns the instant the entry expires.
func (s *Store) Lookup(key string) ([]byte, time.Time, Status) {
	entry, _, status := s.lookup(key)
	if status != Found {
		return nil, time.Time{}, status
	}
	return bytes.Clone(entry.value), entry.expiresAt, Found
}

// GetBytes is like Get but folds NotFound and Expired into ErrNotFound.
func (s *Store) GetBytes(key string) ([]byte, error) {
	value, status := s.Get(key)
	if status != Found {
		return nil, ErrNotFound
	}
	return value, nil
}

// GetString returns the value stored under key as a string.
func (s *Store) GetString(key string) (string, error) {
	value, err := s.GetBytes(key)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// TTL returns the time left before the entry under key expires.
func (s *Store) TTL(key string) (time.Duration, Status) {
	entry, now, status := s.lookup(key)
	if status != Found {
		return 0, status
	}
	return entry.expiresAt.Sub(now), Found
}

// Delete removes the entry for the given key, if present.
// It reports whether an entry existed.
func (s *Store) Delete(key string) bool {
	sh := s.shardFor(key)

	sh.mutex.Lock()
	defer sh.mutex.Unlock()

	_, existed := sh.index[key]
	if existed {
		delete(sh.index, key)
		s.feed.publish(Event{Key: key, Op: OpDelete})
	}
	return existed
}

// DeleteIfExpiresAt removes the entry for key only while it still carries
// the given expiration. An entry refreshed by a concurrent Set is left alone.
func (s *Store) DeleteIfExpiresAt(key string, expiresAt time.Time) bool {
	sh := s.shardFor(key)

	sh.mutex.Lock()
	defer sh.mutex.Unlock()

	entry, ok := sh.index[key]
	deleted := ok && entry.expiresAt.Equal(expiresAt)
	if deleted {
		delete(sh.index, key)
		s.feed.publish(Event{Key: key, Op: OpExpire})
	}
	return deleted
}

// Expired returns the entries whose expiration is at or before now.
func (s *Store) Expired(now time.Time) []Expiry {
	var out []Expiry
	for _, sh := range s.shards {
		sh.mutex.RLock()
		for k, v := range sh.index {
			if !now.Before(v.expiresAt) {
				out = append(out, Expiry{Key: k, ExpiresAt: v.expiresAt})
			}
		}
		sh.mutex.RUnlock()
	}
	return out
}

// Entries returns a snapshot of the live entries, sorted by key.
func (s *Store) Entries() []EntryInfo {
	now := s.clock.Now()

	info := []EntryInfo{}
	for _, sh := range s.shards {
		sh.mutex.RLock()
		for k, v := range sh.index {
			if now.Before(v.expiresAt) {
				info = append(info, EntryInfo{Key: k, Size: len(v.value), ExpiresAt: v.expiresAt})
			}
		}
		sh.mutex.RUnlock()
	}

	slices.SortFunc(info, func(a, b EntryInfo) int { return strings.Compare(a.Key, b.Key) })
	return info
}

// Keys returns the sorted keys of the live entries.
func (s *Store) Keys() []string {
	ents := s.Entries()
	keys := make([]string, len(ents))
	for i, e := range ents {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries physically held, including expired
// entries that have not been reclaimed yet.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mutex.RLock()
		n += len(sh.index)
		sh.mutex.RUnlock()
	}
	return n
}

// Subscribe registers a change feed with the given buffer size. Delivery is
// best-effort: events are dropped while the buffer is full. Events for one
// key arrive in the order the writes were applied. The returned function
// unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	return s.feed.subscribe(buffer)
}

// Subscribers returns the number of active change feeds.
func (s *Store) Subscribers() int {
	return s.feed.len()
}

// String returns a summary string in the format `Store(len={int})`.
// It implements the fmt.Stringer interface.
func (s *Store) String() string {
	return fmt.Sprintf("Store(len=%d)", s.Len())
}
