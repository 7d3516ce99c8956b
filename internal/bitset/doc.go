// Package bitset provides a dense fixed-size bitset for segment-local
// document identifiers.
//
// Unlike compressed bitmaps, a dense layout gives O(words) PrevSetBit,
// which the containment join needs to locate the nearest preceding
// container document.
//
// Used internally for:
//   - The per-segment container (root document) mask
//   - Dense views of type predicates used as containment parents
package bitset
