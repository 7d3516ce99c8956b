// Package model defines the core identifier and result types shared by
// every package of the inner-hits library.
//
// # Identity Types
//
//   - DocID: dense, segment-local document identifier (uint32)
//   - SegmentToken: stable identity of one immutable segment snapshot
//   - Uid: composite "type#id" primary key used for referential joins
//
// # Result Types
//
//   - Hit: an anchor document from the top-level search phase
//   - ScoreDoc / TopDocs: the bounded ranking produced by the searcher
package model
