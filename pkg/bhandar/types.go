package bhandar

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Store is an in-memory key/value store where every entry carries a TTL.
// It is safe for concurrent use by multiple goroutines. Keys are spread over
// independently locked shards, so operations on unrelated keys rarely contend.
type Store struct {
	clock       clock.Clock
	shards      []*shard
	mask        uint64
	maxKeyLen   int
	maxValueLen int

	feed feed
}

type shard struct {
	mutex sync.RWMutex
	index map[string]cacheEntry
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// Status is the outcome of a lookup.
type Status int

const (
	NotFound Status = iota
	Found
	// Expired is reported when an entry was present but its TTL had elapsed.
	// Callers outside the store should treat it exactly like NotFound.
	Expired
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Expired:
		return "expired"
	default:
		return "not_found"
	}
}

// EntryInfo describes a live entry for introspection.
type EntryInfo struct {
	Key       string
	Size      int
	ExpiresAt time.Time
}

// Expiry identifies one stored entry by its key and its expiration instant.
type Expiry struct {
	Key       string
	ExpiresAt time.Time
}

// Op is the kind of change carried by an Event.
type Op string

const (
	OpSet    Op = "set"
	OpDelete Op = "delete"
	OpExpire Op = "expire"
)

// Event is published to subscribers whenever a key changes.
type Event struct {
	Key string
	Op  Op
}
