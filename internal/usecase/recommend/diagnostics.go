package recommend

import "time"

// Diagnostics are cumulative engine counters since start.
type Diagnostics struct {
	Calls         int64         `json:"calls"`
	CacheHits     int64         `json:"cache_hits"`
	HitRatio      float64       `json:"hit_ratio"`
	TotalTime     time.Duration `json:"total_time_ns"`
	DistanceCalls int64         `json:"distance_calls"`
	Properties    int           `json:"properties"`
	POIs          int           `json:"pois"`
	POIsDropped   int           `json:"pois_dropped"`
}

// Diagnostics returns a point-in-time view of the engine counters.
func (e *Engine) Diagnostics() Diagnostics {
	d := Diagnostics{
		Calls:         e.calls.Load(),
		CacheHits:     e.cacheHits.Load(),
		TotalTime:     time.Duration(e.scoringNanos.Load()),
		DistanceCalls: e.distanceCalls.Load(),
	}
	if d.Calls > 0 {
		d.HitRatio = float64(d.CacheHits) / float64(d.Calls)
	}

	e.mu.RLock()
	d.Properties = len(e.snap.props)
	d.POIs = e.snap.index.Len()
	d.POIsDropped = e.snap.index.Dropped()
	e.mu.RUnlock()
	return d
}

// Loaded reports whether a property collection is available.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.snap.props) > 0
}
