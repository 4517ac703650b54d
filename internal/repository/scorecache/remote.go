package scorecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/propmatch/internal/db"
	"github.com/kailas-cloud/propmatch/internal/domain/score"
)

// DefaultKeyPrefix namespaces score entries in a shared Redis/Valkey.
const DefaultKeyPrefix = "propmatch:score:"

const delBatchSize = 500

// store is the consumer interface for the remote cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Remote shares cached results between replicas through a key-value store.
// Store failures degrade to cache misses.
type Remote struct {
	store  store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRemote creates a store-backed cache. An empty prefix selects DefaultKeyPrefix.
func NewRemote(s store, prefix string, ttl time.Duration, logger *zap.Logger) *Remote {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Remote{store: s, prefix: prefix, ttl: ttl, logger: logger}
}

// Get returns the cached result for key.
func (r *Remote) Get(ctx context.Context, key string) (score.Result, bool) {
	data, err := r.store.Get(ctx, r.prefix+key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			r.logger.Warn("Failed to get cached score", zap.String("key", key), zap.Error(err))
		}
		return score.Result{}, false
	}

	var res score.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.logger.Warn("Failed to parse cached score", zap.String("key", key), zap.Error(err))
		return score.Result{}, false
	}
	return res, true
}

// Put stores res under key.
func (r *Remote) Put(ctx context.Context, key string, res score.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		r.logger.Warn("Failed to encode score", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.store.SetWithTTL(ctx, r.prefix+key, data, r.ttl); err != nil {
		r.logger.Warn("Failed to cache score", zap.String("key", key), zap.Error(err))
	}
}

// Clear deletes every key under the prefix.
func (r *Remote) Clear(ctx context.Context) error {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return fmt.Errorf("scan score keys: %w", err)
	}
	for start := 0; start < len(keys); start += delBatchSize {
		end := min(start+delBatchSize, len(keys))
		if err := r.store.Del(ctx, keys[start:end]...); err != nil {
			return fmt.Errorf("delete %d score keys: %w", end-start, err)
		}
	}
	return nil
}
