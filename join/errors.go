package join

import (
	"fmt"

	"github.com/hupe1980/innerhits/model"
)

// ErrMalformedUid indicates a composite key that cannot be resolved to
// a lookup term. This is an invariant violation in whatever produced
// the key, never a user input error.
type ErrMalformedUid struct {
	Uid model.Uid
}

func (e *ErrMalformedUid) Error() string {
	return fmt.Sprintf("join: malformed composite key %q", e.Uid)
}

// ErrDocOutOfRange indicates an anchor doc ID beyond the snapshot's
// document space. Doc IDs are dense in [0, size), so this points at a
// wiring bug in the caller.
type ErrDocOutOfRange struct {
	Doc  model.DocID
	Size uint32
}

func (e *ErrDocOutOfRange) Error() string {
	return fmt.Sprintf("join: anchor doc %d out of range [0, %d)", e.Doc, e.Size)
}

// ErrSegmentMismatch indicates a referential join evaluated against a
// segment other than the anchor's. Joins never cross segment
// boundaries, so this points at a wiring bug in the caller.
type ErrSegmentMismatch struct {
	Hit      model.SegmentToken
	Snapshot model.SegmentToken
}

func (e *ErrSegmentMismatch) Error() string {
	return fmt.Sprintf("join: anchor segment %s does not match snapshot %s", e.Hit, e.Snapshot)
}
