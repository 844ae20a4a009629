package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondo/internal/models"
	"github.com/ternarybob/respondo/internal/services/corpus"
	"github.com/ternarybob/respondo/internal/storage/memory"
)

// Exercises the whole pipeline against the real keyword retriever with
// only the model faked.
func TestQuery_EndToEndWithKeywordCorpus(t *testing.T) {
	corpusService := corpus.NewService(memory.NewCorpusStorage(), arbor.NewLogger())
	ctx := context.Background()

	docs := map[string]string{
		"capitals.txt": "The capital of Testland is Exampleburg, founded on the banks of the Example River.",
		"rivers.txt":   "The Example River runs through the capital region of Testland.",
		"cooking.txt":  "Slow roasting brings out the sweetness of root vegetables.",
	}
	for source, text := range docs {
		require.NoError(t, corpusService.AddDocument(ctx, &models.CorpusDocument{
			SourceID: source,
			Text:     text,
		}))
	}

	llm := &fakeLLM{
		gradeResponses:   grades("relevant", "partially_relevant", "not_relevant"),
		generateResponse: "The capital of Testland is Exampleburg. [Source: capitals.txt]",
		verifyResponse:   `{"grounded": true, "confidence": 0.93, "issues": []}`,
	}
	svc := NewService(nil, corpusService, llm, arbor.NewLogger())

	result, err := svc.Query(ctx, "What is the capital of Testland?", 2)
	require.NoError(t, err)

	assert.Equal(t, "The capital of Testland is Exampleburg. [Source: capitals.txt]", result.Answer)
	assert.Equal(t, 1, result.Metrics.RetrievalAttempts)
	assert.Equal(t, 2, result.Metrics.DocsUsedForAnswer)
	assert.True(t, result.Metrics.AnswerGrounded)
	assert.InDelta(t, 0.93, result.Metrics.GroundingConfidence, 1e-9)
	assert.GreaterOrEqual(t, result.Metrics.LatencySeconds, 0.0)

	require.Len(t, result.Sources, 2)
	assert.Equal(t, "capitals.txt", result.Sources[0].Source, "highest scored source graded first")
	assert.Equal(t, string(models.GradeRelevant), result.Sources[0].Grade)
	assert.Equal(t, string(models.GradePartiallyRelevant), result.Sources[1].Grade)

	// All three documents share common words with the question, so all
	// three reach the grader; only the accepted two back the answer.
	assert.Equal(t, 3, llm.gradeCalls)
}

func TestQuery_EndToEndEmptyCorpus(t *testing.T) {
	corpusService := corpus.NewService(memory.NewCorpusStorage(), arbor.NewLogger())
	llm := &fakeLLM{}
	svc := NewService(nil, corpusService, llm, arbor.NewLogger())

	result, err := svc.Query(context.Background(), "What is the capital of Testland?", 2)
	require.NoError(t, err)

	assert.Equal(t, noDocumentsAnswer, result.Answer)
	assert.InDelta(t, 1.0, result.Grounding.Confidence, 1e-9)
	assert.Equal(t, 0, llm.gradeCalls+llm.reformulateCalls+llm.generateCalls+llm.verifyCalls)
}
