package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondo/internal/models"
	"github.com/ternarybob/respondo/internal/storage/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewCorpusStorage(), arbor.NewLogger())
}

func addDoc(t *testing.T, svc *Service, sourceID, text string) {
	t.Helper()
	err := svc.AddDocument(context.Background(), &models.CorpusDocument{
		SourceID: sourceID,
		Text:     text,
	})
	require.NoError(t, err)
}

func TestNewService_NilLoggerFallsBackToGlobal(t *testing.T) {
	svc := NewService(memory.NewCorpusStorage(), nil)

	addDoc(t, svc, "fallback.txt", "constructed without an injected logger")

	candidates, err := svc.Search(context.Background(), "injected logger", 5)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestSearch_EmptyCorpus(t *testing.T) {
	svc := newTestService(t)

	candidates, err := svc.Search(context.Background(), "anything at all", 5)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSearch_RanksByTermCoverage(t *testing.T) {
	svc := newTestService(t)
	addDoc(t, svc, "capitals.txt", "The capital of Testland is Exampleburg, a city of canals.")
	addDoc(t, svc, "rivers.txt", "The longest river in Testland flows north past the capital region.")
	addDoc(t, svc, "cooking.txt", "Slow roasting brings out flavor in root vegetables.")

	candidates, err := svc.Search(context.Background(), "capital of Testland", 5)
	require.NoError(t, err)
	require.Len(t, candidates, 2, "non-matching document must be excluded")

	assert.Equal(t, "capitals.txt", candidates[0].SourceID)
	assert.Equal(t, "rivers.txt", candidates[1].SourceID)
	assert.Greater(t, candidates[0].RelevanceScore, candidates[1].RelevanceScore)

	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.RelevanceScore, 0.0)
		assert.LessOrEqual(t, c.RelevanceScore, 1.0)
		assert.Equal(t, models.GradeUngraded, c.Grade)
	}
}

func TestSearch_RespectsK(t *testing.T) {
	svc := newTestService(t)
	for _, src := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		addDoc(t, svc, src, "every document mentions widgets somewhere")
	}

	candidates, err := svc.Search(context.Background(), "widgets", 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestSearch_DefaultKWhenNonPositive(t *testing.T) {
	svc := newTestService(t)
	for i := 0; i < 8; i++ {
		addDoc(t, svc, string(rune('a'+i))+".txt", "widgets appear in this text")
	}

	candidates, err := svc.Search(context.Background(), "widgets", 0)
	require.NoError(t, err)
	assert.Len(t, candidates, defaultTopK)
}

func TestSearch_DeterministicTieBreak(t *testing.T) {
	svc := newTestService(t)
	addDoc(t, svc, "b.txt", "widgets widgets")
	addDoc(t, svc, "a.txt", "widgets widgets")

	first, err := svc.Search(context.Background(), "widgets", 5)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "widgets", 5)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, "a.txt", first[0].SourceID, "equal scores break by source ID")
	assert.Equal(t, first[0].SourceID, second[0].SourceID)
	assert.Equal(t, first[1].SourceID, second[1].SourceID)
}

func TestSearch_BlankQuery(t *testing.T) {
	svc := newTestService(t)
	addDoc(t, svc, "a.txt", "some text")

	candidates, err := svc.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestAddDocument_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.Error(t, svc.AddDocument(ctx, nil))
	assert.Error(t, svc.AddDocument(ctx, &models.CorpusDocument{SourceID: "x", Text: "   "}))
}

func TestAddDocument_AssignsIDAndSource(t *testing.T) {
	svc := newTestService(t)

	doc := &models.CorpusDocument{Text: "orphan text"}
	require.NoError(t, svc.AddDocument(context.Background(), doc))

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, doc.ID, doc.SourceID)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestCountAndClear(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	addDoc(t, svc, "a.txt", "alpha")
	addDoc(t, svc, "b.txt", "beta")

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.Clear(ctx))

	count, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestScoreDocument(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  float64
	}{
		{
			name:  "no terms match",
			text:  "nothing relevant here",
			query: "quantum flux",
			want:  0,
		},
		{
			name:  "full coverage single occurrence each",
			text:  "capital of Testland",
			query: "capital Testland",
			want:  0.7 + 0.2*0.3, // coverage 1.0, frequency 2/10
		},
		{
			name:  "half coverage",
			text:  "the capital is large",
			query: "capital Testland",
			want:  0.35 + 0.1*0.3, // coverage 0.5, frequency 1/10
		},
		{
			name:  "frequency saturates",
			text:  "widget widget widget widget widget widget widget widget widget widget widget widget",
			query: "widget",
			want:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreDocument(tt.text, queryTerms(tt.query))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
