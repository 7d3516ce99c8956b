// Package join implements the two document-join strategies behind
// inner-hits resolution.
//
// Nested exploits the guaranteed physical adjacency of a container and
// its structural children: the scope is the contiguous doc-ID window
// between the nearest preceding container and the anchor. ParentChild
// is a referential foreign-key lookup, an index-term equality match
// that is independent of adjacency.
//
// Both return their scope as a lazy postings.Iterator; a nil iterator
// is the "no scope" sentinel meaning zero eligible join targets.
package join
