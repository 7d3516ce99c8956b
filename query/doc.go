// Package query provides the small executable query surface the
// bounded ranker needs: exact term matches, match-all, and
// conjunctions, each compiling to a lazy scored doc-ID iterator
// against one segment snapshot.
package query
