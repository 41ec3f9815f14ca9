package cache

import (
	"fmt"
	"time"
)

// Option defines a functional option for configuring Cache.
type Option func(*Options) error

// Options contains optional configuration for the cache.
type Options struct {
	// maxEntries bounds the number of cached revisions, zero means unbounded.
	maxEntries int

	// ttl is the time-to-live for cached entries, zero means entries never expire.
	ttl time.Duration

	// now is the clock used for FetchedAt and expiry.
	now func() time.Time
}

func NewOptions(opts ...Option) (Options, error) {
	// Default options.
	o := Options{
		maxEntries: DefaultMaxEntries(),
		ttl:        0,
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}

	return o, nil
}

// WithMaxEntries bounds the cache size, the oldest fetched entry is evicted first.
// Zero disables the bound.
func WithMaxEntries(n int) Option {
	return func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("max entries cannot be negative, got %d", n)
		}
		o.maxEntries = n
		return nil
	}
}

// WithTTL sets the cache entry time-to-live, zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) error {
		if ttl < 0 {
			return fmt.Errorf("TTL cannot be negative, got %v", ttl)
		}
		o.ttl = ttl
		return nil
	}
}

// WithClock overrides the clock, intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Options) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// DefaultMaxEntries returns the default bound on cached revisions.
func DefaultMaxEntries() int {
	return 1000
}
