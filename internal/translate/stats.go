package translate

import (
	"sync"
	"time"
)

// Counters are the raw per-scope counters. TotalDuration accumulates engine
// call time for successes only, so cache hits and failures never skew the
// average latency.
type Counters struct {
	Total         int64         `json:"total"`
	Success       int64         `json:"success"`
	Fail          int64         `json:"fail"`
	CacheHit      int64         `json:"cache_hit"`
	TotalDuration time.Duration `json:"total_duration_ns"`
}

// Metrics extends Counters with the derived rates.
type Metrics struct {
	Counters
	AvgLatency time.Duration `json:"avg_latency_ns"`
	HitRate    float64       `json:"hit_rate"`
	FailRate   float64       `json:"fail_rate"`
}

func (c Counters) metrics() Metrics {
	m := Metrics{Counters: c}
	if c.Success > 0 {
		m.AvgLatency = c.TotalDuration / time.Duration(c.Success)
	}
	if c.Total > 0 {
		m.HitRate = float64(c.CacheHit) / float64(c.Total)
		m.FailRate = float64(c.Fail) / float64(c.Total)
	}
	return m
}

// Stats collects global and per-engine translation counters. All methods are
// safe for concurrent use; Snapshot reads may trail in-flight records.
type Stats struct {
	mu      sync.Mutex
	global  Counters
	engines map[string]*Counters
}

// NewStats returns an empty collector.
func NewStats() *Stats {
	return &Stats{engines: make(map[string]*Counters)}
}

func (s *Stats) engine(name string) *Counters {
	c, ok := s.engines[name]
	if !ok {
		c = &Counters{}
		s.engines[name] = c
	}
	return c
}

// RecordSuccess counts a completed engine call.
func (s *Stats) RecordSuccess(engine string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range []*Counters{&s.global, s.engine(engine)} {
		c.Total++
		c.Success++
		c.TotalDuration += d
	}
}

// RecordFailure counts a failed engine call.
func (s *Stats) RecordFailure(engine string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range []*Counters{&s.global, s.engine(engine)} {
		c.Total++
		c.Fail++
	}
}

// RecordCacheHit counts a request resolved from cache without an engine call.
func (s *Stats) RecordCacheHit(engine string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range []*Counters{&s.global, s.engine(engine)} {
		c.Total++
		c.CacheHit++
	}
}

// Snapshot is a point-in-time view of the collected metrics.
type Snapshot struct {
	Global  Metrics            `json:"global"`
	Engines map[string]Metrics `json:"engines"`
}

// Snapshot derives the rates and returns a copy of the current state.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Global:  s.global.metrics(),
		Engines: make(map[string]Metrics, len(s.engines)),
	}
	for name, c := range s.engines {
		snap.Engines[name] = c.metrics()
	}
	return snap
}
