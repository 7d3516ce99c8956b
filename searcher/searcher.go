package searcher

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/innerhits/model"
	"github.com/hupe1980/innerhits/postings"
	"github.com/hupe1980/innerhits/query"
	"github.com/hupe1980/innerhits/segment"
)

// checkCancelEvery bounds how many matches are collected between
// context checks.
const checkCancelEvery = 1024

// SortField orders a ranking by a numeric doc-values column.
type SortField struct {
	Field string
	Desc  bool
}

// Options configures one bounded ranking.
type Options struct {
	// From is the offset into the full ranking.
	From int
	// Size is the number of results to return.
	Size int
	// Sort, when non-empty, replaces score ordering with the given
	// comparator sequence.
	Sort []SortField
	// TrackScores records relevance scores alongside sort keys.
	// Without a sort it has no effect; scores are always present.
	TrackScores bool
}

// Search ranks the sub-query restricted to the join scope and returns
// the [from, from+size) slice of the ranking. At most from+size entries
// are retained while collecting; large scopes are pruned, not sorted.
//
// A nil scope is the empty-scope sentinel: the result is empty and the
// query is never executed. Size 0 likewise short-circuits.
func Search(ctx context.Context, snap *segment.Snapshot, q query.Query, scope postings.Iterator, opts Options) (*model.TopDocs, error) {
	if opts.From < 0 || opts.Size < 0 {
		return nil, fmt.Errorf("searcher: negative from (%d) or size (%d)", opts.From, opts.Size)
	}

	td := &model.TopDocs{}
	if scope == nil || opts.Size == 0 {
		return td, nil
	}

	scorer, err := q.Scorer(snap)
	if err != nil {
		return nil, err
	}
	it := postings.NewConjunction(scorer, scope)

	worse := scoreWorse
	var columns [][]float64
	if len(opts.Sort) > 0 {
		worse = sortKeysWorse(opts.Sort)
		columns = make([][]float64, len(opts.Sort))
		for i, f := range opts.Sort {
			columns[i] = snap.NumericDocValues(f.Field)
		}
	}

	topN := opts.From + opts.Size
	h := newTopNHeap(topN, worse)

	for doc := it.Next(); doc != model.NoMoreDocs; doc = it.Next() {
		if td.TotalHits%checkCancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		td.TotalHits++

		sd := model.ScoreDoc{Doc: doc}
		if len(opts.Sort) > 0 {
			keys := make([]float64, len(opts.Sort))
			for i, col := range columns {
				if col != nil {
					keys[i] = col[doc]
				}
			}
			sd.SortKeys = keys
			if opts.TrackScores {
				sd.Score = scorer.Score()
			} else {
				sd.Score = float32(math.NaN())
			}
		} else {
			sd.Score = scorer.Score()
		}

		h.pushBounded(sd, topN)
	}

	ranked := h.drain()
	if opts.From >= len(ranked) {
		return td, nil
	}
	end := opts.From + opts.Size
	if end > len(ranked) {
		end = len(ranked)
	}
	td.ScoreDocs = ranked[opts.From:end]
	return td, nil
}
