// Package recommend owns the loaded property/POI snapshot and orchestrates
// filter, score, rank and justify.
package recommend

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/propmatch/internal/domain"
	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	"github.com/kailas-cloud/propmatch/internal/domain/profile"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
	"github.com/kailas-cloud/propmatch/internal/domain/recommendation"
	"github.com/kailas-cloud/propmatch/internal/domain/score"
	"github.com/kailas-cloud/propmatch/internal/metrics"
	"github.com/kailas-cloud/propmatch/internal/repository/scorecache"
	"github.com/kailas-cloud/propmatch/internal/repository/spatial"
	"github.com/kailas-cloud/propmatch/internal/usecase/candidate"
	"github.com/kailas-cloud/propmatch/internal/usecase/scoring"
)

// Defaults for Config fields left zero.
const (
	DefaultLimit           = 10
	DefaultMaxLimit        = 100
	DefaultSummaryRadiusKm = 2.0
)

// Config configures an Engine.
type Config struct {
	Scoring           scoring.Config
	DateLayout        string
	RecencyWindowDays int
	SummaryRadiusKm   float64
	DefaultLimit      int
	MaxLimit          int
}

func (c *Config) applyDefaults() {
	if c.DateLayout == "" {
		c.DateLayout = property.DefaultDateLayout
	}
	if c.RecencyWindowDays <= 0 {
		c.RecencyWindowDays = candidate.DefaultRecencyWindowDays
	}
	if c.SummaryRadiusKm <= 0 {
		c.SummaryRadiusKm = DefaultSummaryRadiusKm
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = DefaultMaxLimit
	}
}

// snapshot is replaced wholesale on reload and never mutated afterwards.
type snapshot struct {
	props []*property.Property
	byID  map[string]*property.Property
	index *spatial.Index
}

// Engine is safe for concurrent use. Reads share a read lock; reloads take the
// write lock, swap the snapshot and clear the cache before releasing it.
type Engine struct {
	cfg    Config
	scorer *scoring.Scorer
	filter *candidate.Filter
	cache  Cache
	logger *zap.Logger
	now    func() time.Time

	mu   sync.RWMutex
	snap snapshot

	group singleflight.Group

	calls         atomic.Int64
	cacheHits     atomic.Int64
	scoringNanos  atomic.Int64
	distanceCalls atomic.Int64
}

// New creates an engine with an empty snapshot. cache may be nil (in-process
// cache). now may be nil (time.Now).
func New(cfg Config, cache Cache, logger *zap.Logger, now func() time.Time) (*Engine, error) {
	cfg.applyDefaults()
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidWeights, err)
	}
	if cache == nil {
		cache = scorecache.NewMemory(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:    cfg,
		scorer: scoring.New(cfg.Scoring, now),
		filter: candidate.New(cfg.RecencyWindowDays, now),
		cache:  cache,
		logger: logger,
		now:    now,
		snap:   snapshot{byID: map[string]*property.Property{}},
	}, nil
}

// LoadProperties normalizes copies of props, replaces the property collection
// and clears the score cache. Duplicate IDs keep the last record.
func (e *Engine) LoadProperties(ctx context.Context, props []property.Property) error {
	list := make([]*property.Property, 0, len(props))
	byID := make(map[string]*property.Property, len(props))
	for i := range props {
		p := props[i]
		p.Normalize(e.cfg.DateLayout)
		if prev, dup := byID[p.ID]; dup && p.ID != "" {
			*prev = p
			continue
		}
		list = append(list, &p)
		if p.ID != "" {
			byID[p.ID] = list[len(list)-1]
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap.props = list
	e.snap.byID = byID
	metrics.SnapshotSize.WithLabelValues("properties").Set(float64(len(list)))
	return e.clearLocked(ctx, "properties")
}

// LoadPOIs rebuilds the spatial index and clears the score cache, since the
// services and location sub-scores depend on the directory.
func (e *Engine) LoadPOIs(ctx context.Context, pois []poi.ServicePOI) error {
	normalized := make([]poi.ServicePOI, len(pois))
	for i := range pois {
		normalized[i] = pois[i]
		normalized[i].Normalize()
	}
	index := spatial.Build(normalized)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap.index = index
	metrics.SnapshotSize.WithLabelValues("pois").Set(float64(index.Len()))
	if index.Dropped() > 0 {
		e.logger.Info("POIs without coordinates skipped", zap.Int("dropped", index.Dropped()))
	}
	return e.clearLocked(ctx, "pois")
}

func (e *Engine) clearLocked(ctx context.Context, kind string) error {
	if err := e.cache.Clear(ctx); err != nil {
		metrics.ReloadsTotal.WithLabelValues(kind, "cache_error").Inc()
		return fmt.Errorf("clear score cache: %w", err)
	}
	metrics.ReloadsTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}

// Filter runs the soft candidate filter over the loaded properties.
func (e *Engine) Filter(ctx context.Context, pr *profile.Profile) candidate.Result {
	pr = normalized(pr)
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.filter.Apply(ctx, pr, e.snap.props)
}

// Score computes the compatibility of an arbitrary property against the loaded directory.
// The property is normalized on a copy, the same way loaded properties are.
func (e *Engine) Score(ctx context.Context, pr *profile.Profile, p *property.Property) score.Result {
	pr = normalized(pr)
	var cp property.Property
	if p != nil {
		cp = *p
		cp.Amenities = slices.Clone(p.Amenities)
	}
	cp.Normalize(e.cfg.DateLayout)
	p = &cp
	start := time.Now()
	defer func() { metrics.ScoringDuration.WithLabelValues("score").Observe(time.Since(start).Seconds()) }()

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scoreLocked(ctx, pr, p, geo.NewMemo())
}

// ScoreByID scores a loaded property. It fails with ErrNotLoaded before the
// first property load.
func (e *Engine) ScoreByID(ctx context.Context, pr *profile.Profile, id string) (score.Result, error) {
	pr = normalized(pr)
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.snap.props) == 0 {
		return score.Result{}, domain.ErrNotLoaded
	}
	p, ok := e.snap.byID[id]
	if !ok {
		return score.Result{}, fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, id)
	}
	return e.scoreLocked(ctx, pr, p, geo.NewMemo()), nil
}

// Recommend filters, scores, ranks and justifies. limit <= 0 selects the default
// limit; minScore is a fraction in [0,1] of the maximum total score.
func (e *Engine) Recommend(
	ctx context.Context, pr *profile.Profile, limit int, minScore float64,
) []recommendation.Recommendation {
	pr = normalized(pr)
	start := time.Now()
	defer func() { metrics.ScoringDuration.WithLabelValues("recommend").Observe(time.Since(start).Seconds()) }()

	limit = e.clampLimit(limit)
	threshold := score.Clamp01(minScore) * 100

	if pr.IsEmpty() {
		metrics.RecommendationsTotal.WithLabelValues("empty").Inc()
		return []recommendation.Recommendation{}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	filtered := e.filter.Apply(ctx, pr, e.snap.props)
	for _, c := range filtered.Relaxed {
		metrics.CriteriaRelaxedTotal.WithLabelValues(c).Inc()
	}

	type ranked struct {
		p    *property.Property
		r    score.Result
		memo *geo.Memo
	}
	kept := make([]ranked, 0, len(filtered.Candidates))
	for _, p := range filtered.Candidates {
		memo := geo.NewMemo()
		r := e.scoreLocked(ctx, pr, p, memo)
		if r.Total >= threshold {
			kept = append(kept, ranked{p: p, r: r, memo: memo})
		}
	}

	slices.SortStableFunc(kept, func(a, b ranked) int {
		switch {
		case a.r.Total > b.r.Total:
			return -1
		case a.r.Total < b.r.Total:
			return 1
		}
		return 0
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]recommendation.Recommendation, len(kept))
	for i, k := range kept {
		services := e.summarizeLocked(pr, k.p, k.memo)
		out[i] = recommendation.Recommendation{
			Property:       *k.p,
			TotalScore:     k.r.Total,
			Breakdown:      k.r,
			Justification:  e.justify(pr, k.p, services, filtered.Relaxed),
			NearbyServices: services,
		}
	}

	outcome := "ok"
	if len(out) == 0 {
		outcome = "empty"
	}
	metrics.RecommendationsTotal.WithLabelValues(outcome).Inc()
	logger := e.logger.With(zap.Int("candidates", len(filtered.Candidates)), zap.Int("returned", len(out)))
	logger.Debug("recommendation pass", zap.Strings("relaxed", filtered.Relaxed), zap.Duration("took", time.Since(start)))
	return out
}

// Nearby exposes the spatial index. An empty category list means every category.
func (e *Engine) Nearby(center geo.Point, categories []poi.Category, radiusKm float64) []poi.Hit {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.index.Nearby(nil, center, categories, radiusKm)
}

// scoreLocked must be called with the read lock held.
func (e *Engine) scoreLocked(ctx context.Context, pr *profile.Profile, p *property.Property, memo *geo.Memo) score.Result {
	start := time.Now()
	e.calls.Add(1)
	defer func() { e.scoringNanos.Add(int64(time.Since(start))) }()

	key := scorecache.Key(pr, p, e.now())
	if r, ok := e.cache.Get(ctx, key); ok {
		e.cacheHits.Add(1)
		return r
	}

	v, _, _ := e.group.Do(key, func() (any, error) {
		before := memo.Computed()
		r := e.scorer.Score(pr, p, e.snap.index, memo)
		e.distanceCalls.Add(int64(memo.Computed() - before))
		e.cache.Put(ctx, key, r)
		return r, nil
	})
	return v.(score.Result)
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	return min(limit, e.cfg.MaxLimit)
}

// normalized returns a normalized copy so callers' profiles are never mutated.
func normalized(pr *profile.Profile) *profile.Profile {
	if pr == nil {
		return &profile.Profile{}
	}
	cp := *pr
	cp.Needs = slices.Clone(pr.Needs)
	cp.Normalize()
	return &cp
}
