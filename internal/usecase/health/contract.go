package health

import "context"

// CachePinger checks the shared score cache store. Absent for the in-process cache.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// SnapshotChecker reports whether the engine has data to recommend from.
type SnapshotChecker interface {
	Loaded() bool
}
