package join

import (
	"github.com/hupe1980/innerhits/internal/bitset"
	"github.com/hupe1980/innerhits/model"
	"github.com/hupe1980/innerhits/postings"
	"github.com/hupe1980/innerhits/segment"
)

// Nested is the structural containment strategy. The children of a
// container are stored immediately before it in doc-ID order, so the
// scope is the contiguous window between the nearest preceding
// container and the anchor itself, intersected with the child type
// predicate.
type Nested struct {
	// ParentType optionally names the container level to join under.
	// Empty means the segment's root container mask.
	ParentType string
	// ChildType is the type predicate the scope is intersected with.
	ChildType string
}

// NewNested creates a containment strategy under the root container mask.
func NewNested(childType string) *Nested {
	return &Nested{ChildType: childType}
}

// NewNestedWithParent creates a containment strategy under a named
// container level.
func NewNestedWithParent(parentType, childType string) *Nested {
	return &Nested{ParentType: parentType, ChildType: childType}
}

// Kind implements Strategy.
func (n *Nested) Kind() string { return "nested" }

// Resolve implements Strategy.
func (n *Nested) Resolve(snap *segment.Snapshot, hit model.Hit) (postings.Iterator, error) {
	// Structural children live in the anchor's own segment, so a
	// foreign segment can be skipped without evaluation.
	if hit.Segment != snap.Identity() {
		return nil, nil
	}

	if uint32(hit.Doc) >= snap.Size() {
		return nil, &ErrDocOutOfRange{Doc: hit.Doc, Size: snap.Size()}
	}

	// Doc 0 has no documents before it, hence no children.
	if hit.Doc == 0 {
		return nil, nil
	}

	var parents *bitset.Fixed
	if n.ParentType == "" {
		parents = snap.ContainerBits()
	} else {
		parents = snap.DenseTypeBits(n.ParentType)
	}
	if parents == nil {
		return nil, nil
	}

	// The first child sits right after the nearest preceding
	// container, or at 0 when none precedes.
	first := model.DocID(parents.PrevSetBit(uint32(hit.Doc)-1) + 1)
	if first == hit.Doc {
		return nil, nil
	}

	children := snap.TypeBitmap(n.ChildType)
	if children == nil {
		return nil, nil
	}

	return &childrenWindow{
		it:     postings.FromBitmap(children),
		first:  first,
		anchor: hit.Doc,
		cur:    -1,
	}, nil
}

// childrenWindow restricts an iterator to [first, anchor). Advance
// targets are clamped to the window, so the scope never yields an ID
// outside it even when the underlying predicate extends further in
// either direction.
type childrenWindow struct {
	it     postings.Iterator
	first  model.DocID
	anchor model.DocID
	cur    int64 // last returned doc; -1 unpositioned, NoMoreDocs exhausted
}

func (w *childrenWindow) Next() model.DocID {
	if w.cur < 0 {
		return w.Advance(w.first)
	}
	if w.cur >= int64(model.NoMoreDocs) {
		return model.NoMoreDocs
	}
	return w.Advance(model.DocID(w.cur) + 1)
}

func (w *childrenWindow) Advance(target model.DocID) model.DocID {
	if w.cur >= int64(model.NoMoreDocs) {
		return model.NoMoreDocs
	}
	if target < w.first {
		target = w.first
	}
	if w.cur >= 0 && target <= model.DocID(w.cur) {
		return model.DocID(w.cur)
	}
	if target >= w.anchor {
		return w.exhaust()
	}
	doc := w.it.Advance(target)
	if doc >= w.anchor {
		return w.exhaust()
	}
	w.cur = int64(doc)
	return doc
}

func (w *childrenWindow) exhaust() model.DocID {
	w.cur = int64(model.NoMoreDocs)
	return model.NoMoreDocs
}

// Cost equals the underlying type predicate's cost; the window adds no
// scan of its own.
func (w *childrenWindow) Cost() int64 {
	return w.it.Cost()
}
