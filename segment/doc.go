// Package segment models the immutable per-segment document space that
// inner-hits resolution runs against.
//
// A Snapshot holds a dense [0, size) doc-ID range, the bitset marking
// container (root) documents, per-type predicate bitmaps, an inverted
// exact-term index used for referential joins, and per-document uid,
// foreign-key and numeric sort columns. Snapshots are built once with
// Builder, never mutated, and safely shared by concurrent readers.
//
// WriteSnapshot and LoadSnapshot persist snapshots in a versioned,
// checksummed binary format with selectable compression (none, s2, lz4).
package segment
