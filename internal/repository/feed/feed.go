// Package feed reads the property and POI snapshots produced by the ingestion pipeline.
package feed

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/propmatch/internal/domain/poi"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
)

// ReadProperties decodes a JSON array of listings. Records are returned raw;
// the engine normalizes them on load.
func ReadProperties(path string) ([]property.Property, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read properties file: %w", err)
	}
	return DecodeProperties(b)
}

// DecodeProperties decodes a JSON array of listings.
func DecodeProperties(b []byte) ([]property.Property, error) {
	var dtos []propertyDTO
	if err := json.Unmarshal(b, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal properties: %w", err)
	}
	out := make([]property.Property, len(dtos))
	for i := range dtos {
		out[i] = dtos[i].toDomain()
	}
	return out, nil
}

// ReadPOIs decodes a JSON array of points of interest.
func ReadPOIs(path string) ([]poi.ServicePOI, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pois file: %w", err)
	}
	return DecodePOIs(b)
}

// DecodePOIs decodes a JSON array of points of interest.
func DecodePOIs(b []byte) ([]poi.ServicePOI, error) {
	var pois []poi.ServicePOI
	if err := json.Unmarshal(b, &pois); err != nil {
		return nil, fmt.Errorf("unmarshal pois: %w", err)
	}
	return pois, nil
}

// Files reads both snapshots from local JSON files on every call.
type Files struct {
	PropertiesPath string
	POIsPath       string
}

// Properties implements recommend.Source.
func (f Files) Properties(ctx context.Context) ([]property.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadProperties(f.PropertiesPath)
}

// POIs implements recommend.Source. An empty path yields an empty directory.
func (f Files) POIs(ctx context.Context) ([]poi.ServicePOI, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.POIsPath == "" {
		return nil, nil
	}
	return ReadPOIs(f.POIsPath)
}
