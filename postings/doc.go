// Package postings implements the lazy doc-ID iterator protocol and the
// set algebra built on top of it.
//
// Iterators yield monotonically increasing segment-local doc IDs and
// support seek-forward via Advance(target) as the sole navigation
// primitive. Sources include sorted slices, roaring bitmaps, and the
// full [0, size) range; NewConjunction combines them with leapfrog
// intersection so the sparsest leg bounds the iteration cost.
package postings
