package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/innerhits/postings"
	"github.com/hupe1980/innerhits/segment"
)

// Scorer iterates the matching doc IDs of a query within one segment
// and reports the relevance score of the current doc.
type Scorer interface {
	postings.Iterator

	// Score returns the relevance score of the doc most recently
	// returned by Next or Advance.
	Score() float32
}

// Query produces a Scorer against a segment snapshot. Queries are
// immutable; a fresh Scorer is created per execution.
type Query interface {
	Scorer(snap *segment.Snapshot) (Scorer, error)
	String() string
}

type constScorer struct {
	postings.Iterator
	score float32
}

func (s *constScorer) Score() float32 { return s.score }

// MatchAll matches every document in the segment with score 1.
type MatchAll struct{}

// Scorer implements Query.
func (MatchAll) Scorer(snap *segment.Snapshot) (Scorer, error) {
	return &constScorer{Iterator: postings.All(snap.Size()), score: 1}, nil
}

func (MatchAll) String() string { return "*:*" }

// Term matches documents whose field contains the exact term.
// Matches score a flat inverse-document-frequency weight, so rarer
// terms rank higher under the default score order.
type Term struct {
	Field string
	Term  string
}

// Scorer implements Query.
func (q Term) Scorer(snap *segment.Snapshot) (Scorer, error) {
	pl := snap.PostingsBitmap(q.Field, q.Term)
	if pl == nil {
		return &constScorer{Iterator: postings.Empty()}, nil
	}
	idf := float32(1 + math.Log(float64(snap.Size())/float64(pl.GetCardinality()+1)))
	return &constScorer{Iterator: postings.FromBitmap(pl), score: idf}, nil
}

func (q Term) String() string { return q.Field + ":" + q.Term }

// And matches documents matching all sub-queries; scores are summed.
type And []Query

// NewAnd builds a conjunction query.
func NewAnd(subs ...Query) And { return And(subs) }

type andScorer struct {
	postings.Iterator
	subs []Scorer
}

func (s *andScorer) Score() float32 {
	var sum float32
	for _, sub := range s.subs {
		sum += sub.Score()
	}
	return sum
}

// Scorer implements Query.
func (q And) Scorer(snap *segment.Snapshot) (Scorer, error) {
	if len(q) == 0 {
		return nil, fmt.Errorf("query: empty conjunction")
	}
	subs := make([]Scorer, len(q))
	its := make([]postings.Iterator, len(q))
	for i, sub := range q {
		s, err := sub.Scorer(snap)
		if err != nil {
			return nil, err
		}
		subs[i] = s
		its[i] = s
	}
	return &andScorer{
		Iterator: postings.NewConjunction(its...),
		subs:     subs,
	}, nil
}

func (q And) String() string {
	parts := make([]string, len(q))
	for i, sub := range q {
		parts[i] = sub.String()
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}
