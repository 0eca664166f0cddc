package symgen

import (
	"math/rand"
	"time"
)

const (
	// defaultBackfillAttempts bounds the small-symbol backfill loop per requested symbol.
	defaultBackfillAttempts = 64

	realtimeWeightHigh   = 2
	realtimeWeightMedium = 3
	realtimeWeightLow    = 5

	// drift continuation grows sizes by at most this factor per day
	maxDrift = 0.02
)

type config struct {
	rng              *rand.Rand
	backfillAttempts int
	correlated       bool
}

// Option configures a Generator.
type Option func(*config)

// WithSeed makes the generator deterministic.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses the given random source.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// WithMaxBackfillAttempts bounds the small-symbol backfill loop to n attempts per
// requested symbol. Non-positive values restore the default.
func WithMaxBackfillAttempts(n int) Option {
	return func(c *config) {
		if n <= 0 {
			n = defaultBackfillAttempts
		}
		c.backfillAttempts = n
	}
}

// WithCorrelatedAccess biases access counts by realtime class
// (High: 50-100, Medium: 20-80, Low: 0-50).
func WithCorrelatedAccess(enabled bool) Option {
	return func(c *config) {
		c.correlated = enabled
	}
}

func newConfig(opts ...Option) config {
	c := config{
		backfillAttempts: defaultBackfillAttempts,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}
