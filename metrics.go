package innerhits

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement this interface to integrate with monitoring
// systems like Prometheus.
type MetricsCollector interface {
	// RecordResolve is called after each join scope resolution.
	// kind names the strategy ("nested" or "parent_child"), empty
	// reports the no-scope sentinel, err is nil if successful.
	RecordResolve(kind string, empty bool, duration time.Duration, err error)

	// RecordRank is called after each bounded ranking. matches is
	// the number of docs the collector was offered.
	RecordRank(matches int, duration time.Duration, err error)

	// RecordEvaluate is called after each per-hit evaluation of the
	// whole registry tree.
	RecordEvaluate(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordResolve(string, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordRank(int, time.Duration, error)             {}
func (NoopMetricsCollector) RecordEvaluate(time.Duration, error)              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ResolveCount       atomic.Int64
	ResolveEmpty       atomic.Int64
	ResolveErrors      atomic.Int64
	RankCount          atomic.Int64
	RankMatches        atomic.Int64
	RankErrors         atomic.Int64
	RankTotalNanos     atomic.Int64
	EvaluateCount      atomic.Int64
	EvaluateErrors     atomic.Int64
	EvaluateTotalNanos atomic.Int64
}

// RecordResolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResolve(kind string, empty bool, duration time.Duration, err error) {
	b.ResolveCount.Add(1)
	if empty {
		b.ResolveEmpty.Add(1)
	}
	if err != nil {
		b.ResolveErrors.Add(1)
	}
}

// RecordRank implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRank(matches int, duration time.Duration, err error) {
	b.RankCount.Add(1)
	b.RankMatches.Add(int64(matches))
	b.RankTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RankErrors.Add(1)
	}
}

// RecordEvaluate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluate(duration time.Duration, err error) {
	b.EvaluateCount.Add(1)
	b.EvaluateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EvaluateErrors.Add(1)
	}
}
