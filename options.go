package innerhits

import (
	"runtime"
)

// DefaultMaxDepth bounds the nesting depth of a registry tree.
// Depth is a configuration property, not an engine limit; the bound
// exists to fail loudly on pathological definitions instead of
// exhausting the stack.
const DefaultMaxDepth = 16

type options struct {
	logger      *Logger
	metrics     MetricsCollector
	maxDepth    int
	concurrency int
}

func defaultOptions() options {
	return options{
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
		maxDepth:    DefaultMaxDepth,
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// Option configures Evaluator constructor behavior.
type Option func(*options)

// WithLogger configures structured logging. If nil is passed, logging
// stays disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector configures metrics collection. If nil is
// passed, collection stays disabled.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithMaxDepth overrides the accepted registry nesting depth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithConcurrency bounds the worker fan-out of EvaluateAll.
// Evaluation of a single hit always stays sequential.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
