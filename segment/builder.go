package segment

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"

	"github.com/hupe1980/innerhits/internal/bitset"
	"github.com/hupe1980/innerhits/model"
)

// ErrMissingType is returned by Build when a document has no type.
var ErrMissingType = errors.New("segment: document type must not be empty")

// Document is the build-time representation of one record.
type Document struct {
	// Type is the logical document type, e.g. "post" or "comment".
	Type string
	// ID identifies the document within its type.
	ID string
	// Parent, when set, is the foreign key to another document's uid.
	Parent model.Uid
	// Fields holds exact-match string terms per field.
	Fields map[string][]string
	// Numeric holds per-field numeric doc values used for sorting.
	Numeric map[string]float64
}

// Builder assembles an immutable Snapshot. Doc IDs are assigned in
// append order; structurally contained children must be appended
// immediately before their container, which AddBlock guarantees.
type Builder struct {
	docs      []Document
	container []model.DocID
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddRoot appends a standalone container document and returns its doc ID.
func (b *Builder) AddRoot(doc Document) model.DocID {
	return b.AddBlock(nil, doc)
}

// AddBlock appends a container document preceded by its structural
// children, in the given order, and returns the container's doc ID.
// Only the container is marked in the container bitset; children of
// deeper levels can be added as blocks of their own before the
// enclosing container.
func (b *Builder) AddBlock(children []Document, root Document) model.DocID {
	b.docs = append(b.docs, children...)
	id := model.DocID(len(b.docs))
	b.docs = append(b.docs, root)
	b.container = append(b.container, id)
	return id
}

// Build freezes the accumulated documents into a Snapshot with a fresh
// identity token.
func (b *Builder) Build() (*Snapshot, error) {
	size := uint32(len(b.docs))
	s := &Snapshot{
		token:     model.SegmentToken(uuid.NewString()),
		size:      size,
		container: bitset.New(size),
		types:     make(map[string]*roaring.Bitmap),
		inverted:  make(map[string]map[string]*roaring.Bitmap),
		uids:      make([]model.Uid, size),
		parents:   make([]model.Uid, size),
		numeric:   make(map[string][]float64),
	}

	for _, id := range b.container {
		s.container.Set(uint32(id))
	}

	for i, doc := range b.docs {
		if doc.Type == "" {
			return nil, ErrMissingType
		}
		id := uint32(i)

		tb := s.types[doc.Type]
		if tb == nil {
			tb = roaring.New()
			s.types[doc.Type] = tb
		}
		tb.Add(id)

		uid := model.MakeUid(doc.Type, doc.ID)
		s.uids[i] = uid
		s.addTerm(UidField, string(uid), id)

		if doc.Parent != "" {
			s.parents[i] = doc.Parent
			s.addTerm(ParentField, string(doc.Parent), id)
		}

		for field, terms := range doc.Fields {
			for _, term := range terms {
				s.addTerm(field, term, id)
			}
		}

		for field, value := range doc.Numeric {
			col := s.numeric[field]
			if col == nil {
				col = make([]float64, size)
				s.numeric[field] = col
			}
			col[i] = value
		}
	}

	return s, nil
}

func (s *Snapshot) addTerm(field, term string, id uint32) {
	terms := s.inverted[field]
	if terms == nil {
		terms = make(map[string]*roaring.Bitmap)
		s.inverted[field] = terms
	}
	pl := terms[term]
	if pl == nil {
		pl = roaring.New()
		terms[term] = pl
	}
	pl.Add(id)
}
