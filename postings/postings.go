package postings

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/innerhits/model"
)

// Iterator produces a monotonically increasing, finite sequence of
// segment-local doc IDs. It is forward-only and not restartable once
// exhausted.
//
// Advance moves to the first doc ID >= target and is the sole
// navigation primitive; calling it with a target at or before the
// current position is a no-op that returns the current doc ID.
type Iterator interface {
	// Next returns the next doc ID, or model.NoMoreDocs when exhausted.
	Next() model.DocID

	// Advance returns the first doc ID >= target, or model.NoMoreDocs
	// when no such doc exists.
	Advance(target model.DocID) model.DocID

	// Cost is an upper bound on the number of doc IDs the iterator
	// may still yield.
	Cost() int64
}

// Empty returns an iterator that yields nothing.
func Empty() Iterator {
	return emptyIterator{}
}

type emptyIterator struct{}

func (emptyIterator) Next() model.DocID               { return model.NoMoreDocs }
func (emptyIterator) Advance(model.DocID) model.DocID { return model.NoMoreDocs }
func (emptyIterator) Cost() int64                     { return 0 }

type sliceIterator struct {
	docs []model.DocID
	cur  int64 // last returned doc, -1 before the first call
	idx  int
}

// FromSlice returns an iterator over a sorted, duplicate-free doc-ID slice.
func FromSlice(docs []model.DocID) Iterator {
	return &sliceIterator{docs: docs, cur: -1}
}

func (it *sliceIterator) Next() model.DocID {
	if it.idx >= len(it.docs) {
		it.cur = int64(model.NoMoreDocs)
		return model.NoMoreDocs
	}
	doc := it.docs[it.idx]
	it.idx++
	it.cur = int64(doc)
	return doc
}

func (it *sliceIterator) Advance(target model.DocID) model.DocID {
	if it.cur >= int64(target) && it.cur >= 0 {
		return model.DocID(it.cur)
	}
	it.idx += sort.Search(len(it.docs)-it.idx, func(i int) bool {
		return it.docs[it.idx+i] >= target
	})
	return it.Next()
}

func (it *sliceIterator) Cost() int64 {
	return int64(len(it.docs))
}

type bitmapIterator struct {
	it   roaring.IntPeekable
	cost int64
	cur  int64
	done bool
}

// FromBitmap returns an iterator over the set bits of a roaring bitmap.
// The bitmap must not be mutated while the iterator is live.
func FromBitmap(rb *roaring.Bitmap) Iterator {
	return &bitmapIterator{
		it:   rb.Iterator(),
		cost: int64(rb.GetCardinality()),
		cur:  -1,
	}
}

func (it *bitmapIterator) Next() model.DocID {
	if it.done || !it.it.HasNext() {
		it.done = true
		return model.NoMoreDocs
	}
	doc := model.DocID(it.it.Next())
	it.cur = int64(doc)
	return doc
}

func (it *bitmapIterator) Advance(target model.DocID) model.DocID {
	if it.done {
		return model.NoMoreDocs
	}
	if it.cur >= int64(target) && it.cur >= 0 {
		return model.DocID(it.cur)
	}
	it.it.AdvanceIfNeeded(uint32(target))
	return it.Next()
}

func (it *bitmapIterator) Cost() int64 {
	return it.cost
}

type allIterator struct {
	size uint32
	cur  int64
}

// All returns an iterator over every doc ID in [0, size).
func All(size uint32) Iterator {
	return &allIterator{size: size, cur: -1}
}

func (it *allIterator) Next() model.DocID {
	return it.Advance(model.DocID(it.cur + 1))
}

func (it *allIterator) Advance(target model.DocID) model.DocID {
	if it.cur >= int64(target) && it.cur >= 0 {
		return model.DocID(it.cur)
	}
	if uint32(target) >= it.size || target == model.NoMoreDocs {
		it.cur = int64(model.NoMoreDocs)
		return model.NoMoreDocs
	}
	it.cur = int64(target)
	return target
}

func (it *allIterator) Cost() int64 {
	return int64(it.size)
}

type conjunction struct {
	lead Iterator
	rest []Iterator
}

// NewConjunction intersects the given iterators via leapfrog advancing.
// The cheapest iterator drives, so the cost of iteration is bounded by
// the sparsest leg.
func NewConjunction(its ...Iterator) Iterator {
	switch len(its) {
	case 0:
		return Empty()
	case 1:
		return its[0]
	}
	lead := its[0]
	for _, it := range its[1:] {
		if it.Cost() < lead.Cost() {
			lead = it
		}
	}
	rest := make([]Iterator, 0, len(its)-1)
	for _, it := range its {
		if it != lead {
			rest = append(rest, it)
		}
	}
	return &conjunction{lead: lead, rest: rest}
}

func (c *conjunction) Next() model.DocID {
	return c.align(c.lead.Next())
}

func (c *conjunction) Advance(target model.DocID) model.DocID {
	return c.align(c.lead.Advance(target))
}

// align advances all legs until they agree on one doc ID.
func (c *conjunction) align(doc model.DocID) model.DocID {
	for doc != model.NoMoreDocs {
		agreed := true
		for _, it := range c.rest {
			next := it.Advance(doc)
			if next != doc {
				doc = c.lead.Advance(next)
				agreed = false
				break
			}
		}
		if agreed {
			return doc
		}
	}
	return model.NoMoreDocs
}

func (c *conjunction) Cost() int64 {
	return c.lead.Cost()
}

// Collect drains the iterator into a slice. Intended for tests and
// diagnostics; production paths iterate lazily.
func Collect(it Iterator) []model.DocID {
	var docs []model.DocID
	for doc := it.Next(); doc != model.NoMoreDocs; doc = it.Next() {
		docs = append(docs, doc)
	}
	return docs
}
