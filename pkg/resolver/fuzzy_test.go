package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyKeywordScoring(t *testing.T) {
	candidates := []Candidate{
		{ID: "py0001", Name: "Python Style", Content: "use black for formatting"},
		{ID: "go0001", Name: "Go Error Handling", Content: "wrap errors with context"},
	}

	id, ok, err := FuzzyResolver{}.Resolve(context.Background(), "error handling", candidates)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "go0001", id)
}

func TestFuzzyNameBonusOutweighsContent(t *testing.T) {
	candidates := []Candidate{
		{ID: "sp0001", Name: "Spacing", Content: "tabs tabs tabs everywhere"},
		{ID: "tb0001", Name: "Use Tabs", Content: "short"},
	}

	id, ok, err := FuzzyResolver{}.Resolve(context.Background(), "tabs", candidates)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tb0001", id, "query appearing in the name beats repeated content hits")
}

func TestFuzzyCaseInsensitive(t *testing.T) {
	candidates := []Candidate{
		{ID: "gf0001", Name: "GOFMT Rules", Content: "ALWAYS RUN GOFMT"},
	}

	id, ok, err := FuzzyResolver{}.Resolve(context.Background(), "gofmt rules", candidates)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gf0001", id)
}

func TestFuzzyNoMatch(t *testing.T) {
	candidates := []Candidate{
		{ID: "aa0001", Name: "Indentation", Content: "use tabs"},
	}

	_, ok, err := FuzzyResolver{}.Resolve(context.Background(), "kubernetes", candidates)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFuzzyEmptyCandidates(t *testing.T) {
	_, ok, err := FuzzyResolver{}.Resolve(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFuzzyTieKeepsCandidateOrder(t *testing.T) {
	candidates := []Candidate{
		{ID: "first1", Name: "tabs", Content: ""},
		{ID: "second", Name: "tabs", Content: ""},
	}

	id, ok, err := FuzzyResolver{}.Resolve(context.Background(), "tabs", candidates)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first1", id)
}
