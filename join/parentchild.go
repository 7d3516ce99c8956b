package join

import (
	"github.com/hupe1980/innerhits/model"
	"github.com/hupe1980/innerhits/postings"
	"github.com/hupe1980/innerhits/segment"
)

// ParentChild is the referential strategy: an index-term lookup on an
// explicit foreign-key field, independent of physical adjacency and
// unbounded in match count.
type ParentChild struct {
	// TargetType restricts the scope to one document type.
	TargetType string
}

// NewParentChild creates a referential strategy targeting the given type.
func NewParentChild(targetType string) *ParentChild {
	return &ParentChild{TargetType: targetType}
}

// Kind implements Strategy.
func (p *ParentChild) Kind() string { return "parent_child" }

// Resolve implements Strategy. The join direction is fully determined
// by the anchor's foreign-key activeness: an anchor with an active
// foreign key is a child record and the scope is its single named
// parent; an anchor without one is a root record and the scope is
// every record whose foreign key equals the anchor's own key.
func (p *ParentChild) Resolve(snap *segment.Snapshot, hit model.Hit) (postings.Iterator, error) {
	if hit.Segment != snap.Identity() {
		return nil, &ErrSegmentMismatch{Hit: hit.Segment, Snapshot: snap.Identity()}
	}

	var (
		field string
		term  model.Uid
	)
	if hit.Parent != "" {
		// Child record: look the parent up by its primary key.
		field, term = segment.UidField, hit.Parent
	} else {
		// Root record: collect everything pointing back at us.
		field, term = segment.ParentField, hit.Uid()
	}

	if _, _, ok := term.Split(); !ok {
		return nil, &ErrMalformedUid{Uid: term}
	}

	pl := snap.PostingsBitmap(field, string(term))
	if pl == nil {
		return nil, nil
	}
	types := snap.TypeBitmap(p.TargetType)
	if types == nil {
		return nil, nil
	}

	return postings.NewConjunction(postings.FromBitmap(pl), postings.FromBitmap(types)), nil
}
