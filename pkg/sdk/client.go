package propmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/propmatch/internal/db/redis"
	"github.com/kailas-cloud/propmatch/internal/domain/geo"
	"github.com/kailas-cloud/propmatch/internal/repository/feed"
	"github.com/kailas-cloud/propmatch/internal/repository/scorecache"
	healthuc "github.com/kailas-cloud/propmatch/internal/usecase/health"
	"github.com/kailas-cloud/propmatch/internal/usecase/recommend"
	"github.com/kailas-cloud/propmatch/internal/usecase/scoring"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 24 * time.Hour
)

// Client is the propmatch SDK entry point. It is safe for concurrent use.
type Client struct {
	store  *dbRedis.Store
	engine *recommend.Engine
	health *healthuc.Service
	obs    *observer
}

// New creates a Client with an empty snapshot. When a shared cache is
// configured, ctx bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var (
		cache  recommend.Cache
		pinger healthuc.CachePinger
		store  *dbRedis.Store
	)
	if cfg.driver != "" {
		store, err = createStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		ttl := cfg.cacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		cache = scorecache.NewRemote(store, scorecache.DefaultKeyPrefix, ttl, zap.NewNop())
		pinger = store
	} else {
		cache = scorecache.NewMemory(cfg.maxCacheEntries)
	}

	sc := scoring.DefaultConfig()
	if cfg.weights != nil {
		sc.Weights = *cfg.weights
	}
	engine, err := recommend.New(recommend.Config{Scoring: sc}, cache, zap.NewNop(), cfg.now)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("propmatch: %w", err)
	}

	return &Client{
		store:  store,
		engine: engine,
		health: healthuc.New(engine, pinger),
		obs:    obs,
	}, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (*dbRedis.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
	default:
		return nil, fmt.Errorf("propmatch: unknown driver %q", cfg.driver)
	}
	if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
		return nil, errors.New("propmatch: cache address required")
	}

	s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
	if err != nil {
		return nil, fmt.Errorf("propmatch: create %s store: %w", cfg.driver, err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("propmatch: %s not ready: %w", cfg.driver, err)
	}
	return s, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Load replaces the snapshot. Either slice may be nil to keep that part
// unchanged. Every load clears the score cache.
func (c *Client) Load(ctx context.Context, props []Property, pois []POI) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("load", start, err) }()

	if props != nil {
		if err = c.engine.LoadProperties(ctx, props); err != nil {
			return fmt.Errorf("load properties: %w", err)
		}
	}
	if pois != nil {
		if err = c.engine.LoadPOIs(ctx, pois); err != nil {
			return fmt.Errorf("load pois: %w", err)
		}
	}
	return nil
}

// LoadFiles reads JSON feeds from disk and replaces the snapshot.
// An empty poisPath loads an empty directory.
func (c *Client) LoadFiles(ctx context.Context, propertiesPath, poisPath string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("load_files", start, err) }()

	src := feed.Files{PropertiesPath: propertiesPath, POIsPath: poisPath}
	return recommend.NewReloader(c.engine, src, zap.NewNop()).Reload(ctx)
}

// Recommend returns up to limit ranked recommendations. limit <= 0 selects the
// default of 10; minScore is a fraction in [0,1] of the maximum total score.
func (c *Client) Recommend(ctx context.Context, pr *Profile, limit int, minScore float64) (_ []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	if err = validate(pr); err != nil {
		return nil, err
	}
	if minScore < 0 || minScore > 1 {
		return nil, fmt.Errorf("%w: min score %.2f outside [0,1]", ErrInvalidProfile, minScore)
	}

	recs := c.engine.Recommend(ctx, pr, limit, minScore)
	c.obs.returned(len(recs))
	return recs, nil
}

// Score computes the compatibility breakdown of one loaded property.
func (c *Client) Score(ctx context.Context, pr *Profile, propertyID string) (_ Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("score", start, err) }()

	if err = validate(pr); err != nil {
		return Result{}, err
	}
	return c.engine.ScoreByID(ctx, pr, propertyID)
}

// Nearby returns POIs within radiusKm of (lat, lng), nearest first.
// No categories means every category.
func (c *Client) Nearby(lat, lng, radiusKm float64, categories ...Category) (_ []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("nearby", start, err) }()

	if !geo.ValidateCoordinates(lat, lng) {
		return nil, fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinates, lat, lng)
	}
	return c.engine.Nearby(geo.Point{Lat: lat, Lng: lng}, categories, radiusKm), nil
}

// Diagnostics returns cumulative engine counters.
func (c *Client) Diagnostics() Diagnostics {
	return c.engine.Diagnostics()
}

// HealthStatus represents the aggregated engine health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"empty"/"error"
}

// Health reports whether a snapshot is loaded and the shared cache answers.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

func validate(pr *Profile) error {
	if pr == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	return pr.Validate()
}
