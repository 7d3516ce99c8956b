// Package innerhits resolves per-hit child matches over immutable document
// segments.
//
// A segment is a flat, append-only block of documents numbered by position.
// Two join families locate the documents that belong to an outer hit:
//
//   - Containment joins recover the children stored in the contiguous block
//     directly before their container document, using only positional
//     information and a container bitset.
//   - Referential joins follow an explicit foreign-key field between
//     independently stored documents, in either direction.
//
// Each named Definition pairs a join Strategy with a query and ranking
// options. A Registry groups definitions, and an Evaluator runs them against
// a segment Snapshot:
//
//	snap, _ := builder.Build()
//	reg, _ := innerhits.NewRegistry(&innerhits.Definition{
//	    Name:     "comments",
//	    Query:    query.MatchAll{},
//	    Strategy: join.NewNested("comment"),
//	    Size:     3,
//	})
//	ev, _ := innerhits.New(snap, reg)
//	hits, _ := ev.Evaluate(ctx, outerHit)
//
// Definitions may nest: each ranked child hit can carry its own inner hits,
// produced by re-running the child definitions with the child as the new
// anchor.
//
// Results are bounded: only the requested window (from/size) of ranked
// matches is materialized, while Total reports the full match count.
//
// Errors returned by Evaluate are classified: ErrTransient marks failures
// worth retrying (cancellation, deadline), ErrFatalInternal marks internal
// invariant violations. An empty scope is not an error and yields an empty
// result.
package innerhits
