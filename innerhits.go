package innerhits

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/innerhits/model"
	"github.com/hupe1980/innerhits/searcher"
	"github.com/hupe1980/innerhits/segment"
)

// Hits is the ranked result of one named definition for one anchor hit.
type Hits struct {
	// Total counts every match considered, not just the returned slice.
	Total int
	// Hits is the [from, from+size) slice of the ranking.
	Hits []InnerHit
}

// InnerHit is one ranked document, optionally carrying the results of
// nested definitions evaluated against it.
type InnerHit struct {
	Doc      model.DocID
	Score    float32
	SortKeys []float64
	// Inner holds nested inner-hits results, nil for leaf definitions.
	Inner map[string]*Hits
}

// Evaluator resolves a registry of inner-hits definitions against one
// segment snapshot. It is stateless per hit: evaluating the same hit
// twice against the same snapshot yields identical results, and a
// single Evaluator is safe for concurrent use.
type Evaluator struct {
	snap *segment.Snapshot
	reg  *Registry
	opts options
}

// New creates an Evaluator for the given snapshot and registry.
func New(snap *segment.Snapshot, reg *Registry, optFns ...Option) (*Evaluator, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	if reg.Depth() > o.maxDepth {
		return nil, &ErrInvalidDefinition{
			Reason: fmt.Sprintf("nesting depth %d exceeds limit %d", reg.Depth(), o.maxDepth),
		}
	}

	return &Evaluator{
		snap: snap,
		reg:  reg,
		opts: o,
	}, nil
}

// Evaluate resolves every definition of the registry for one anchor
// hit, in insertion order, and returns the named result tree. A
// failure in any definition aborts the whole tree (fail-fast, no
// partial result).
func (e *Evaluator) Evaluate(ctx context.Context, hit model.Hit) (map[string]*Hits, error) {
	start := time.Now()

	out, err := e.evaluate(ctx, e.reg, hit)
	err = translateError(err)

	dur := time.Since(start)
	e.opts.metrics.RecordEvaluate(dur, err)
	e.opts.logger.WithSegment(e.snap.Identity()).LogEvaluate(ctx, hit, e.reg.Len(), dur, err)

	if err != nil {
		return nil, err
	}
	return out, nil
}

// EvaluateAll evaluates many anchor hits with bounded worker fan-out.
// Results are returned in hit order; the first failure cancels the
// remaining work.
func (e *Evaluator) EvaluateAll(ctx context.Context, hits []model.Hit) ([]map[string]*Hits, error) {
	out := make([]map[string]*Hits, len(hits))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.concurrency)

	for i, hit := range hits {
		i, hit := i, hit
		g.Go(func() error {
			res, err := e.Evaluate(ctx, hit)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Evaluator) evaluate(ctx context.Context, reg *Registry, hit model.Hit) (map[string]*Hits, error) {
	out := make(map[string]*Hits, len(reg.defs))
	for i, def := range reg.defs {
		hits, err := e.evaluateDefinition(ctx, def, reg.children[i], hit)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", def.Name, err)
		}
		out[def.Name] = hits
	}
	return out, nil
}

func (e *Evaluator) evaluateDefinition(ctx context.Context, def *Definition, children *Registry, hit model.Hit) (*Hits, error) {
	logger := e.opts.logger.WithDefinition(def.Name)

	start := time.Now()
	scope, err := def.Strategy.Resolve(e.snap, hit)
	e.opts.metrics.RecordResolve(def.Strategy.Kind(), scope == nil, time.Since(start), err)
	logger.LogResolve(ctx, def.Strategy.Kind(), hit, scope == nil, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	td, err := searcher.Search(ctx, e.snap, def.Query, scope, searcher.Options{
		From:        def.From,
		Size:        def.Size,
		Sort:        def.Sort,
		TrackScores: def.TrackScores,
	})
	if err != nil {
		e.opts.metrics.RecordRank(0, time.Since(start), err)
		logger.LogRank(ctx, hit, 0, 0, time.Since(start), err)
		return nil, err
	}
	e.opts.metrics.RecordRank(td.TotalHits, time.Since(start), nil)
	logger.LogRank(ctx, hit, td.TotalHits, len(td.ScoreDocs), time.Since(start), nil)

	hits := &Hits{
		Total: td.TotalHits,
		Hits:  make([]InnerHit, len(td.ScoreDocs)),
	}
	for i, sd := range td.ScoreDocs {
		ih := InnerHit{Doc: sd.Doc, Score: sd.Score, SortKeys: sd.SortKeys}

		if children != nil {
			childHit, err := e.snap.HitAt(sd.Doc)
			if err != nil {
				return nil, err
			}
			inner, err := e.evaluate(ctx, children, childHit)
			if err != nil {
				return nil, err
			}
			ih.Inner = inner
		}

		hits.Hits[i] = ih
	}

	return hits, nil
}
