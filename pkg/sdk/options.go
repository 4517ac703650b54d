package propmatch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "", "valkey" or "redis"
	addrs    []string
	password string
	cacheTTL time.Duration

	maxCacheEntries int
	weights         *Weights
	now             func() time.Time

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey shares the score cache through a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis shares the score cache through a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCacheTTL sets the expiry of shared cache entries. Default: 24h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithMaxCacheEntries bounds the in-process cache. Default: 100000.
func WithMaxCacheEntries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxCacheEntries = n
	})
}

// WithWeights overrides the sub-score weights. They must sum to 1.0.
func WithWeights(w Weights) Option {
	return optionFunc(func(c *clientConfig) {
		c.weights = &w
	})
}

// WithClock fixes the reference time used for freshness and recency.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.now = now
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
