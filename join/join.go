package join

import (
	"github.com/hupe1980/innerhits/model"
	"github.com/hupe1980/innerhits/postings"
	"github.com/hupe1980/innerhits/segment"
)

// Strategy computes the per-hit join scope: the doc IDs eligible for
// ranking for one anchor hit. A strategy is selected at configuration
// time and never switched per call.
type Strategy interface {
	// Resolve returns the scope as a lazy iterator. A nil iterator
	// with a nil error is the "no scope" sentinel: zero eligible
	// join targets, no ranking required.
	Resolve(snap *segment.Snapshot, hit model.Hit) (postings.Iterator, error)

	// Kind names the strategy for logs and metrics.
	Kind() string
}
