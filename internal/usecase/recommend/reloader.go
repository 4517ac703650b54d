package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/propmatch/internal/metrics"
)

// Reloader refreshes the engine snapshot from a Source.
type Reloader struct {
	engine *Engine
	source Source
	logger *zap.Logger

	mu       sync.Mutex
	lastOK   *time.Time
	lastErr  error
	attempts int
}

// NewReloader creates a Reloader.
func NewReloader(engine *Engine, source Source, logger *zap.Logger) *Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reloader{engine: engine, source: source, logger: logger}
}

// Reload reads both feeds, then swaps them into the engine. A feed that fails
// to read leaves the corresponding part of the snapshot untouched.
func (r *Reloader) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	start := time.Now()

	var errs []error

	props, err := r.source.Properties(ctx)
	if err != nil {
		metrics.ReloadsTotal.WithLabelValues("properties", "read_error").Inc()
		errs = append(errs, fmt.Errorf("read properties: %w", err))
	} else if err := r.engine.LoadProperties(ctx, props); err != nil {
		errs = append(errs, fmt.Errorf("load properties: %w", err))
	}

	pois, err := r.source.POIs(ctx)
	if err != nil {
		metrics.ReloadsTotal.WithLabelValues("pois", "read_error").Inc()
		errs = append(errs, fmt.Errorf("read pois: %w", err))
	} else if err := r.engine.LoadPOIs(ctx, pois); err != nil {
		errs = append(errs, fmt.Errorf("load pois: %w", err))
	}

	r.lastErr = errors.Join(errs...)
	if r.lastErr != nil {
		return r.lastErr
	}
	now := r.engine.now()
	r.lastOK = &now

	d := r.engine.Diagnostics()
	r.logger.Info("Snapshot reloaded",
		zap.Int("properties", d.Properties),
		zap.Int("pois", d.POIs),
		zap.Int("pois_dropped", d.POIsDropped),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Run reloads every interval until ctx is done. Failures are logged and the
// previous snapshot keeps serving.
func (r *Reloader) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Reload(ctx); err != nil {
				r.logger.Warn("Snapshot reload failed", zap.Error(err))
			}
		}
	}
}

// ReloadStatus describes the most recent reload.
type ReloadStatus struct {
	Attempts    int        `json:"attempts"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// Status returns the outcome of the most recent reload.
func (r *Reloader) Status() ReloadStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := ReloadStatus{Attempts: r.attempts, LastSuccess: r.lastOK}
	if r.lastErr != nil {
		st.LastError = r.lastErr.Error()
	}
	return st
}
