package segment

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/innerhits/internal/bitset"
	"github.com/hupe1980/innerhits/model"
)

// Reserved field names used by referential joins. Documents index their
// own composite key under UidField; child documents additionally index
// their foreign key under ParentField.
const (
	UidField    = "_uid"
	ParentField = "_parent"
)

// Snapshot is the immutable document space of one segment.
//
// It is constructed once (by a Builder or LoadSnapshot), read-only
// thereafter, and safely shared across concurrently evaluating hits.
// A rotated segment gets a fresh Snapshot with a fresh identity token.
type Snapshot struct {
	token     model.SegmentToken
	size      uint32
	container *bitset.Fixed
	types     map[string]*roaring.Bitmap
	inverted  map[string]map[string]*roaring.Bitmap
	uids      []model.Uid
	parents   []model.Uid // empty string = foreign key inactive
	numeric   map[string][]float64

	// Memoized dense views of type predicates, built on first use.
	// Logically immutable: the same input always yields the same bits.
	mu         sync.Mutex
	denseTypes map[string]*bitset.Fixed
}

// Size returns the number of doc IDs in the segment, i.e. identifiers
// are assigned in [0, Size()).
func (s *Snapshot) Size() uint32 {
	return s.size
}

// Identity returns the stable identity token of this snapshot.
func (s *Snapshot) Identity() model.SegmentToken {
	return s.token
}

// ContainerBits returns the bitset marking container (root) documents.
func (s *Snapshot) ContainerBits() *bitset.Fixed {
	return s.container
}

// TypeBitmap returns the doc IDs of the given logical type, or nil when
// the segment holds no documents of that type.
func (s *Snapshot) TypeBitmap(name string) *roaring.Bitmap {
	return s.types[name]
}

// DenseTypeBits returns a dense view of a type predicate, suitable for
// PrevSetBit lookups. The view is memoized per snapshot. Returns nil
// when the type is absent.
func (s *Snapshot) DenseTypeBits(name string) *bitset.Fixed {
	rb := s.types[name]
	if rb == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dense, ok := s.denseTypes[name]; ok {
		return dense
	}
	dense := bitset.New(s.size)
	it := rb.Iterator()
	for it.HasNext() {
		dense.Set(it.Next())
	}
	if s.denseTypes == nil {
		s.denseTypes = make(map[string]*bitset.Fixed)
	}
	s.denseTypes[name] = dense
	return dense
}

// PostingsBitmap returns the doc IDs whose field contains the exact
// term, or nil when no document matches.
func (s *Snapshot) PostingsBitmap(field, term string) *roaring.Bitmap {
	terms := s.inverted[field]
	if terms == nil {
		return nil
	}
	return terms[term]
}

// Uid returns the composite key of a document.
func (s *Snapshot) Uid(doc model.DocID) model.Uid {
	return s.uids[doc]
}

// ParentUid reports whether the document's foreign-key field is active
// and, if so, its value.
func (s *Snapshot) ParentUid(doc model.DocID) (model.Uid, bool) {
	p := s.parents[doc]
	return p, p != ""
}

// NumericDocValues returns the per-document column for a numeric field,
// indexed by doc ID, or nil when the field carries no numeric values.
// Documents without a value hold 0.
func (s *Snapshot) NumericDocValues(field string) []float64 {
	return s.numeric[field]
}

// HitAt materializes the anchor view of a document, for feeding a
// ranked result back into nested inner-hits evaluation.
func (s *Snapshot) HitAt(doc model.DocID) (model.Hit, error) {
	if uint32(doc) >= s.size {
		return model.Hit{}, fmt.Errorf("segment: doc %d out of range [0, %d)", doc, s.size)
	}
	docType, id, ok := s.uids[doc].Split()
	if !ok {
		return model.Hit{}, fmt.Errorf("segment: doc %d has malformed uid %q", doc, s.uids[doc])
	}
	parent, _ := s.ParentUid(doc)
	return model.Hit{
		Segment: s.token,
		Doc:     doc,
		Type:    docType,
		ID:      id,
		Parent:  parent,
	}, nil
}
