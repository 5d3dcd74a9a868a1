package bhandar

import "github.com/benbjohnson/clock"

const (
	DefaultShards      = 32
	DefaultMaxKeyLen   = 256
	DefaultMaxValueLen = 1 << 20
)

type options struct {
	clock       clock.Clock
	shards      int
	maxKeyLen   int
	maxValueLen int
}

// Option configures a Store.
type Option func(*options)

// WithClock replaces the wall clock, typically with clock.NewMock() in tests.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithShards sets the number of independently locked shards. It is rounded
// up to a power of two.
func WithShards(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shards = n
		}
	}
}

// WithMaxKeyLen bounds key length in bytes.
func WithMaxKeyLen(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxKeyLen = n
		}
	}
}

// WithMaxValueLen bounds value length in bytes.
func WithMaxValueLen(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxValueLen = n
		}
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
