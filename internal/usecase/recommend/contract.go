package recommend

import (
	"context"

	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
	"github.com/kailas-cloud/propmatch/internal/domain/score"
)

// Cache memoizes compatibility results. Keys come from scorecache.Key.
type Cache interface {
	Get(ctx context.Context, key string) (score.Result, bool)
	Put(ctx context.Context, key string, r score.Result)
	Clear(ctx context.Context) error
}

// Source supplies fresh property and POI snapshots.
type Source interface {
	Properties(ctx context.Context) ([]property.Property, error)
	POIs(ctx context.Context) ([]poi.ServicePOI, error)
}
