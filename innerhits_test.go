package innerhits_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/innerhits"
	"github.com/hupe1980/innerhits/join"
	"github.com/hupe1980/innerhits/model"
	"github.com/hupe1980/innerhits/query"
	"github.com/hupe1980/innerhits/searcher"
	"github.com/hupe1980/innerhits/segment"
)

// buildForumSnapshot lays out a post with three contained comments,
// followed by standalone votes referencing the comments by uid.
//
//	0 comment#1   (block of post#0)
//	1 comment#2
//	2 comment#3
//	3 post#0      container
//	4 vote#v1     parent comment#1
//	5 vote#v2     parent comment#1
//	6 vote#v3     parent comment#2
func buildForumSnapshot(t *testing.T) *segment.Snapshot {
	t.Helper()

	b := segment.NewBuilder()
	b.AddBlock([]segment.Document{
		{Type: "comment", ID: "1", Numeric: map[string]float64{"likes": 2}},
		{Type: "comment", ID: "2", Numeric: map[string]float64{"likes": 7}},
		{Type: "comment", ID: "3", Numeric: map[string]float64{"likes": 5}},
	}, segment.Document{Type: "post", ID: "0"})
	b.AddRoot(segment.Document{Type: "vote", ID: "v1", Parent: model.MakeUid("comment", "1")})
	b.AddRoot(segment.Document{Type: "vote", ID: "v2", Parent: model.MakeUid("comment", "1")})
	b.AddRoot(segment.Document{Type: "vote", ID: "v3", Parent: model.MakeUid("comment", "2")})

	s, err := b.Build()
	require.NoError(t, err)
	return s
}

func anchorAt(t *testing.T, s *segment.Snapshot, doc model.DocID) model.Hit {
	t.Helper()

	hit, err := s.HitAt(doc)
	require.NoError(t, err)
	return hit
}

func TestNewRegistry_Validation(t *testing.T) {
	valid := func() *innerhits.Definition {
		return &innerhits.Definition{
			Name:     "comments",
			Query:    query.MatchAll{},
			Strategy: join.NewNested("comment"),
			Size:     3,
		}
	}

	tests := []struct {
		name   string
		mutate func(d *innerhits.Definition)
	}{
		{"empty name", func(d *innerhits.Definition) { d.Name = "" }},
		{"nil query", func(d *innerhits.Definition) { d.Query = nil }},
		{"nil strategy", func(d *innerhits.Definition) { d.Strategy = nil }},
		{"negative from", func(d *innerhits.Definition) { d.From = -1 }},
		{"negative size", func(d *innerhits.Definition) { d.Size = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := valid()
			tt.mutate(def)

			_, err := innerhits.NewRegistry(def)
			require.Error(t, err)

			var invalid *innerhits.ErrInvalidDefinition
			assert.ErrorAs(t, err, &invalid)
			assert.ErrorIs(t, err, innerhits.ErrFatalInternal)
		})
	}

	t.Run("duplicate name", func(t *testing.T) {
		_, err := innerhits.NewRegistry(valid(), valid())
		require.Error(t, err)
		assert.ErrorIs(t, err, innerhits.ErrFatalInternal)
	})

	t.Run("invalid child rejected", func(t *testing.T) {
		def := valid()
		def.Children = []*innerhits.Definition{{Name: "votes", Size: 1}}

		_, err := innerhits.NewRegistry(def)
		require.Error(t, err)
	})

	t.Run("ok", func(t *testing.T) {
		def := valid()
		def.Children = []*innerhits.Definition{{
			Name:     "votes",
			Query:    query.MatchAll{},
			Strategy: join.NewParentChild("vote"),
			Size:     10,
		}}

		reg, err := innerhits.NewRegistry(def)
		require.NoError(t, err)
		assert.Equal(t, 1, reg.Len())
		assert.Equal(t, 2, reg.Depth())
	})
}

func TestNew_DepthLimit(t *testing.T) {
	leaf := &innerhits.Definition{
		Name:     "level3",
		Query:    query.MatchAll{},
		Strategy: join.NewParentChild("vote"),
		Size:     1,
	}
	mid := &innerhits.Definition{
		Name:     "level2",
		Query:    query.MatchAll{},
		Strategy: join.NewParentChild("vote"),
		Size:     1,
		Children: []*innerhits.Definition{leaf},
	}
	top := &innerhits.Definition{
		Name:     "level1",
		Query:    query.MatchAll{},
		Strategy: join.NewNested("comment"),
		Size:     1,
		Children: []*innerhits.Definition{mid},
	}

	reg, err := innerhits.NewRegistry(top)
	require.NoError(t, err)
	require.Equal(t, 3, reg.Depth())

	snap := buildForumSnapshot(t)

	_, err = innerhits.New(snap, reg, innerhits.WithMaxDepth(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, innerhits.ErrFatalInternal)

	_, err = innerhits.New(snap, reg, innerhits.WithMaxDepth(3))
	require.NoError(t, err)
}

func TestEvaluator_Evaluate_Recursive(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "comments",
		Query:    query.MatchAll{},
		Strategy: join.NewNested("comment"),
		Size:     10,
		Children: []*innerhits.Definition{{
			Name:     "votes",
			Query:    query.MatchAll{},
			Strategy: join.NewParentChild("vote"),
			Size:     10,
		}},
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	out, err := ev.Evaluate(context.Background(), anchorAt(t, snap, 3))
	require.NoError(t, err)
	require.Contains(t, out, "comments")

	comments := out["comments"]
	require.Equal(t, 3, comments.Total)
	require.Len(t, comments.Hits, 3)

	// Equal scores fall back to doc order.
	assert.Equal(t, model.DocID(0), comments.Hits[0].Doc)
	assert.Equal(t, model.DocID(1), comments.Hits[1].Doc)
	assert.Equal(t, model.DocID(2), comments.Hits[2].Doc)

	// comment#1 has two votes, comment#2 one, comment#3 none.
	votes := comments.Hits[0].Inner["votes"]
	require.NotNil(t, votes)
	assert.Equal(t, 2, votes.Total)
	require.Len(t, votes.Hits, 2)
	assert.Equal(t, model.DocID(4), votes.Hits[0].Doc)
	assert.Equal(t, model.DocID(5), votes.Hits[1].Doc)

	votes = comments.Hits[1].Inner["votes"]
	require.NotNil(t, votes)
	assert.Equal(t, 1, votes.Total)

	votes = comments.Hits[2].Inner["votes"]
	require.NotNil(t, votes)
	assert.Equal(t, 0, votes.Total)
	assert.Empty(t, votes.Hits)
}

func TestEvaluator_Evaluate_Sort(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "comments",
		Query:    query.MatchAll{},
		Strategy: join.NewNested("comment"),
		Size:     2,
		Sort:     []searcher.SortField{{Field: "likes", Desc: true}},
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	out, err := ev.Evaluate(context.Background(), anchorAt(t, snap, 3))
	require.NoError(t, err)

	comments := out["comments"]
	require.Equal(t, 3, comments.Total)
	require.Len(t, comments.Hits, 2)

	assert.Equal(t, model.DocID(1), comments.Hits[0].Doc)
	assert.Equal(t, []float64{7}, comments.Hits[0].SortKeys)
	assert.Equal(t, model.DocID(2), comments.Hits[1].Doc)
	assert.Equal(t, []float64{5}, comments.Hits[1].SortKeys)

	// Scores are not tracked under a sort unless asked for.
	assert.True(t, math.IsNaN(float64(comments.Hits[0].Score)))
}

func TestEvaluator_Evaluate_EmptyScope(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "comments",
		Query:    query.MatchAll{},
		Strategy: join.NewNested("comment"),
		Size:     5,
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	// A standalone vote has no contained children; that is an empty
	// result, not a failure.
	out, err := ev.Evaluate(context.Background(), anchorAt(t, snap, 4))
	require.NoError(t, err)

	comments := out["comments"]
	require.NotNil(t, comments)
	assert.Equal(t, 0, comments.Total)
	assert.Empty(t, comments.Hits)
}

func TestEvaluator_Evaluate_Idempotent(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "comments",
		Query:    query.MatchAll{},
		Strategy: join.NewNested("comment"),
		Size:     10,
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	hit := anchorAt(t, snap, 3)
	first, err := ev.Evaluate(context.Background(), hit)
	require.NoError(t, err)
	second, err := ev.Evaluate(context.Background(), hit)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluator_Evaluate_FailFast(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(
		&innerhits.Definition{
			Name:     "comments",
			Query:    query.MatchAll{},
			Strategy: join.NewNested("comment"),
			Size:     10,
		},
		&innerhits.Definition{
			Name:     "votes",
			Query:    query.MatchAll{},
			Strategy: join.NewParentChild("vote"),
			Size:     10,
		},
	)
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	// A stale anchor from another segment generation: the
	// referential definition must fail, and with it the whole tree.
	stale := anchorAt(t, snap, 0)
	stale.Segment = "someone-elses-segment"

	out, err := ev.Evaluate(context.Background(), stale)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, innerhits.ErrFatalInternal)
	assert.ErrorContains(t, err, `definition "votes"`)

	var mismatch *join.ErrSegmentMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestEvaluator_Evaluate_AnchorOutOfRange(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "comments",
		Query:    query.MatchAll{},
		Strategy: join.NewNested("comment"),
		Size:     10,
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	bogus := model.Hit{Segment: snap.Identity(), Doc: 999, Type: "post", ID: "0"}

	out, err := ev.Evaluate(context.Background(), bogus)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, innerhits.ErrFatalInternal)

	var outOfRange *join.ErrDocOutOfRange
	assert.ErrorAs(t, err, &outOfRange)
}

func TestEvaluator_Evaluate_Cancelled(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "comments",
		Query:    query.MatchAll{},
		Strategy: join.NewNested("comment"),
		Size:     10,
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ev.Evaluate(ctx, anchorAt(t, snap, 3))
	require.Error(t, err)
	assert.ErrorIs(t, err, innerhits.ErrTransient)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluator_EvaluateAll(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "votes",
		Query:    query.MatchAll{},
		Strategy: join.NewParentChild("vote"),
		Size:     10,
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg, innerhits.WithConcurrency(2))
	require.NoError(t, err)

	hits := []model.Hit{
		anchorAt(t, snap, 0), // comment#1, two votes
		anchorAt(t, snap, 1), // comment#2, one vote
		anchorAt(t, snap, 2), // comment#3, none
	}

	out, err := ev.EvaluateAll(context.Background(), hits)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, 2, out[0]["votes"].Total)
	assert.Equal(t, 1, out[1]["votes"].Total)
	assert.Equal(t, 0, out[2]["votes"].Total)
}

func TestEvaluator_EvaluateAll_Error(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "votes",
		Query:    query.MatchAll{},
		Strategy: join.NewParentChild("vote"),
		Size:     10,
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	stale := anchorAt(t, snap, 0)
	stale.Segment = "gone"

	out, err := ev.EvaluateAll(context.Background(), []model.Hit{
		anchorAt(t, snap, 1),
		stale,
	})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, innerhits.ErrFatalInternal)
}

func TestEvaluator_Evaluate_Metrics(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "comments",
		Query:    query.MatchAll{},
		Strategy: join.NewNested("comment"),
		Size:     10,
	})
	require.NoError(t, err)

	mc := &innerhits.BasicMetricsCollector{}
	ev, err := innerhits.New(snap, reg, innerhits.WithMetricsCollector(mc))
	require.NoError(t, err)

	_, err = ev.Evaluate(context.Background(), anchorAt(t, snap, 3))
	require.NoError(t, err)

	assert.Equal(t, int64(1), mc.ResolveCount.Load())
	assert.Equal(t, int64(1), mc.RankCount.Load())
	assert.Equal(t, int64(3), mc.RankMatches.Load())
	assert.Equal(t, int64(1), mc.EvaluateCount.Load())
	assert.Equal(t, int64(0), mc.EvaluateErrors.Load())
}

// errorQuery fails scorer construction, exercising the rank error path.
type errorQuery struct{}

func (errorQuery) Scorer(*segment.Snapshot) (query.Scorer, error) {
	return nil, errors.New("boom")
}

func (errorQuery) String() string { return "boom" }

func TestEvaluator_Evaluate_QueryError(t *testing.T) {
	snap := buildForumSnapshot(t)

	reg, err := innerhits.NewRegistry(&innerhits.Definition{
		Name:     "comments",
		Query:    errorQuery{},
		Strategy: join.NewNested("comment"),
		Size:     10,
	})
	require.NoError(t, err)

	ev, err := innerhits.New(snap, reg)
	require.NoError(t, err)

	_, err = ev.Evaluate(context.Background(), anchorAt(t, snap, 3))
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
}
