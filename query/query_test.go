package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/innerhits/model"
	"github.com/hupe1980/innerhits/postings"
	"github.com/hupe1980/innerhits/segment"
)

func buildSnapshot(t *testing.T) *segment.Snapshot {
	t.Helper()

	b := segment.NewBuilder()
	b.AddRoot(segment.Document{Type: "doc", ID: "0", Fields: map[string][]string{"text": {"go", "fast"}}})
	b.AddRoot(segment.Document{Type: "doc", ID: "1", Fields: map[string][]string{"text": {"go"}}})
	b.AddRoot(segment.Document{Type: "doc", ID: "2", Fields: map[string][]string{"text": {"slow"}}})

	s, err := b.Build()
	require.NoError(t, err)
	return s
}

func TestMatchAll(t *testing.T) {
	s := buildSnapshot(t)

	sc, err := MatchAll{}.Scorer(s)
	require.NoError(t, err)

	assert.Equal(t, model.DocID(0), sc.Next())
	assert.Equal(t, float32(1), sc.Score())
	assert.Equal(t, []model.DocID{1, 2}, postings.Collect(sc))
	assert.Equal(t, "*:*", MatchAll{}.String())
}

func TestTerm(t *testing.T) {
	s := buildSnapshot(t)

	sc, err := Term{Field: "text", Term: "go"}.Scorer(s)
	require.NoError(t, err)
	assert.Equal(t, []model.DocID{0, 1}, postings.Collect(sc))

	// A rarer term scores higher.
	rare, err := Term{Field: "text", Term: "slow"}.Scorer(s)
	require.NoError(t, err)
	common, err := Term{Field: "text", Term: "go"}.Scorer(s)
	require.NoError(t, err)
	require.NotEqual(t, model.NoMoreDocs, rare.Next())
	require.NotEqual(t, model.NoMoreDocs, common.Next())
	assert.Greater(t, rare.Score(), common.Score())
}

func TestTerm_Unknown(t *testing.T) {
	s := buildSnapshot(t)

	sc, err := Term{Field: "text", Term: "nope"}.Scorer(s)
	require.NoError(t, err)
	assert.Equal(t, model.NoMoreDocs, sc.Next())
}

func TestAnd(t *testing.T) {
	s := buildSnapshot(t)

	q := NewAnd(Term{Field: "text", Term: "go"}, Term{Field: "text", Term: "fast"})
	sc, err := q.Scorer(s)
	require.NoError(t, err)

	assert.Equal(t, model.DocID(0), sc.Next())
	assert.Positive(t, sc.Score())
	assert.Equal(t, model.NoMoreDocs, sc.Next())
	assert.Equal(t, "(text:go AND text:fast)", q.String())
}

func TestAnd_Empty(t *testing.T) {
	s := buildSnapshot(t)

	_, err := NewAnd().Scorer(s)
	assert.Error(t, err)
}
