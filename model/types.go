package model

import (
	"fmt"
	"strings"
)

// DocID is a dense, segment-local document identifier.
// Identifiers are assigned in [0, size) at segment build time and are
// never reused within a snapshot.
type DocID uint32

// NoMoreDocs is the exhaustion sentinel returned by doc-ID iterators.
const NoMoreDocs DocID = ^DocID(0)

// SegmentToken is the stable identity of one immutable segment snapshot.
// Two snapshots never share a token, even when built from the same data.
type SegmentToken string

// UidSeparator joins the type and id halves of a composite key.
const UidSeparator = "#"

// Uid is the composite primary key of a document, "type#id".
type Uid string

// MakeUid builds the composite key for a typed document id.
func MakeUid(docType, id string) Uid {
	return Uid(docType + UidSeparator + id)
}

// Split returns the type and id halves of the composite key.
// ok is false when the key carries no separator.
func (u Uid) Split() (docType, id string, ok bool) {
	docType, id, ok = strings.Cut(string(u), UidSeparator)
	return
}

// Hit is an anchor document handed in from the top-level search phase.
// Parent carries the value of the foreign-key field when it is active,
// and is empty otherwise.
type Hit struct {
	Segment SegmentToken
	Doc     DocID
	Type    string
	ID      string
	Parent  Uid
}

// Uid returns the composite key of the hit itself.
func (h Hit) Uid() Uid {
	return MakeUid(h.Type, h.ID)
}

// String returns a string representation of the hit.
func (h Hit) String() string {
	return fmt.Sprintf("Hit(%s:%d %s)", h.Segment, h.Doc, h.Uid())
}

// ScoreDoc is one entry of a bounded ranking.
// SortKeys is nil unless the ranking was ordered by a sort spec.
type ScoreDoc struct {
	Doc      DocID
	Score    float32
	SortKeys []float64
}

// TopDocs is the outcome of a bounded top-N ranking.
// ScoreDocs holds the [from, from+size) slice of the full ranking;
// TotalHits counts every match the collector was offered.
type TopDocs struct {
	TotalHits int
	ScoreDocs []ScoreDoc
}
