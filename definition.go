package innerhits

import (
	"github.com/hupe1980/innerhits/join"
	"github.com/hupe1980/innerhits/query"
	"github.com/hupe1980/innerhits/searcher"
)

// Definition configures one named inner-hits resolution. Definitions
// are created at request parse time, immutable during execution, and
// may recursively carry child definitions evaluated once per result.
type Definition struct {
	// Name keys the definition within its owning registry.
	Name string
	// Query is the sub-query ranked within the join scope.
	Query query.Query
	// Strategy is the join variant bound to this definition,
	// selected at configuration time.
	Strategy join.Strategy
	// From is the offset into the ranking.
	From int
	// Size bounds the number of returned results.
	Size int
	// Sort optionally replaces score ordering.
	Sort []searcher.SortField
	// TrackScores records scores alongside sort keys.
	TrackScores bool
	// Children are nested definitions evaluated per result document.
	Children []*Definition
}

// Registry is an ordered, name-keyed set of inner-hits definitions.
// Evaluation walks definitions in insertion order, so sibling result
// ordering is deterministic. The registry owns its definitions; child
// registries form a tree, never a graph.
type Registry struct {
	defs     []*Definition
	children []*Registry // children[i] covers defs[i].Children, nil for leaves
	depth    int         // levels including this one
}

// NewRegistry validates the definition tree and freezes it for
// evaluation. Names must be non-empty and unique per level; every
// definition needs a query and a join strategy; from and size must be
// non-negative (size 0 is a valid empty ranking).
func NewRegistry(defs ...*Definition) (*Registry, error) {
	return newRegistry(defs)
}

func newRegistry(defs []*Definition) (*Registry, error) {
	r := &Registry{
		defs:     defs,
		children: make([]*Registry, len(defs)),
		depth:    1,
	}

	seen := make(map[string]struct{}, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return nil, &ErrInvalidDefinition{Name: def.Name, Reason: "name must not be empty"}
		}
		if _, dup := seen[def.Name]; dup {
			return nil, &ErrInvalidDefinition{Name: def.Name, Reason: "duplicate name"}
		}
		seen[def.Name] = struct{}{}

		if def.Query == nil {
			return nil, &ErrInvalidDefinition{Name: def.Name, Reason: "query must not be nil"}
		}
		if def.Strategy == nil {
			return nil, &ErrInvalidDefinition{Name: def.Name, Reason: "join strategy must not be nil"}
		}
		if def.From < 0 || def.Size < 0 {
			return nil, &ErrInvalidDefinition{Name: def.Name, Reason: "from and size must be non-negative"}
		}

		if len(def.Children) > 0 {
			child, err := newRegistry(def.Children)
			if err != nil {
				return nil, err
			}
			r.children[i] = child
			if child.depth+1 > r.depth {
				r.depth = child.depth + 1
			}
		}
	}

	return r, nil
}

// Len returns the number of definitions at this level.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Depth returns the number of nested levels, including this one.
func (r *Registry) Depth() int {
	return r.depth
}
