package propmatch

import "github.com/kailas-cloud/propmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidProfile     = domain.ErrInvalidProfile
	ErrUnknownCategory    = domain.ErrUnknownCategory
	ErrPropertyNotFound   = domain.ErrPropertyNotFound
	ErrNotLoaded          = domain.ErrNotLoaded
	ErrInvalidWeights     = domain.ErrInvalidWeights
	ErrInvalidCoordinates = domain.ErrInvalidCoordinates
)
