package domain

import "errors"

var (
	// ErrInvalidProfile signals a structurally invalid investor profile.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrUnknownCategory signals a need token or category outside the service taxonomy.
	ErrUnknownCategory = errors.New("unknown service category")
	// ErrPropertyNotFound signals a property id absent from the loaded snapshot.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrNotLoaded signals that no property snapshot has been loaded yet.
	ErrNotLoaded = errors.New("snapshot not loaded")
	// ErrInvalidWeights signals scoring weights that do not sum to 1.0.
	ErrInvalidWeights = errors.New("invalid scoring weights")
	// ErrInvalidCoordinates signals a latitude/longitude outside the valid range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
