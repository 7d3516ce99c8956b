// Package searcher executes a sub-query restricted to a join scope and
// returns a bounded top-N ranking.
//
// The collector retains at most from+size entries in a hand-rolled
// bounded heap; ordering is descending score with ascending doc-order
// tie-break, or a sort-field comparator sequence when one is given.
package searcher
