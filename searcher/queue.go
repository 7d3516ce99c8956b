package searcher

import (
	"github.com/hupe1980/innerhits/model"
)

// topNHeap is a bounded collector keeping the best N entries seen so
// far. The worst retained entry sits at the top, so a full heap accepts
// a new entry by replacing the top in O(log N).
// Value-based storage, no pointer indirection.
type topNHeap struct {
	worse func(a, b model.ScoreDoc) bool
	items []model.ScoreDoc
}

func newTopNHeap(capacity int, worse func(a, b model.ScoreDoc) bool) *topNHeap {
	// Allocate lazily beyond a small bound; large from+size requests
	// often match far fewer docs.
	alloc := capacity
	if alloc > 64 {
		alloc = 64
	}
	return &topNHeap{
		worse: worse,
		items: make([]model.ScoreDoc, 0, alloc),
	}
}

// pushBounded inserts an entry into a heap bounded at capacity.
// If the heap is full and the entry is worse than the current worst,
// it is skipped; otherwise it replaces the worst.
func (h *topNHeap) pushBounded(item model.ScoreDoc, capacity int) {
	if len(h.items) < capacity {
		h.items = append(h.items, item)
		h.siftUp(len(h.items) - 1)
		return
	}
	if h.worse(h.items[0], item) {
		h.items[0] = item
		h.siftDown(0)
	}
}

// drain empties the heap and returns the entries best-first.
func (h *topNHeap) drain() []model.ScoreDoc {
	out := make([]model.ScoreDoc, len(h.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = h.pop()
	}
	return out
}

// pop removes and returns the worst entry.
func (h *topNHeap) pop() model.ScoreDoc {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

// less reports whether the element at index i should sort before the
// element at index j, i.e. i is worse than j.
func (h *topNHeap) less(i, j int) bool {
	return h.worse(h.items[i], h.items[j])
}

func (h *topNHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *topNHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *topNHeap) siftDown(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && h.less(right, left) {
			child = right
		}
		if !h.less(child, i) {
			break
		}
		h.swap(i, child)
		i = child
	}
}

// scoreWorse orders by descending score, ties broken by ascending doc
// order so rankings are stable.
func scoreWorse(a, b model.ScoreDoc) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Doc > b.Doc
}

// sortKeysWorse builds the comparator for a sort-field sequence.
// Keys are compared in order; ties fall through to ascending doc order.
func sortKeysWorse(fields []SortField) func(a, b model.ScoreDoc) bool {
	return func(a, b model.ScoreDoc) bool {
		for i, f := range fields {
			av, bv := a.SortKeys[i], b.SortKeys[i]
			if av == bv {
				continue
			}
			if f.Desc {
				return av < bv
			}
			return av > bv
		}
		return a.Doc > b.Doc
	}
}
