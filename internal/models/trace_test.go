package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceStep_MarshalFlattensFields(t *testing.T) {
	step := TraceStep{
		Step: "Attempt 1 - Retrieve",
		Fields: map[string]interface{}{
			"query":          "capital of Testland",
			"docs_retrieved": 5,
		},
	}

	data, err := json.Marshal(step)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "Attempt 1 - Retrieve", decoded["step"])
	assert.Equal(t, "capital of Testland", decoded["query"])
	assert.Equal(t, float64(5), decoded["docs_retrieved"])
}

func TestPipelineTrace_AppendPreservesOrder(t *testing.T) {
	trace := PipelineTrace{}
	trace.Append("Attempt 1 - Retrieve", map[string]interface{}{"docs_retrieved": 3})
	trace.Append("Attempt 1 - Grade", map[string]interface{}{"relevant": 2})
	trace.Append("Generate Answer", nil)

	require.Len(t, trace, 3)
	assert.Equal(t, "Attempt 1 - Retrieve", trace[0].Step)
	assert.Equal(t, "Attempt 1 - Grade", trace[1].Step)
	assert.Equal(t, "Generate Answer", trace[2].Step)
}

func TestQueryResult_JSONContract(t *testing.T) {
	result := QueryResult{
		Answer:   "Exampleburg. [Source: capitals.txt]",
		Question: "What is the capital of Testland?",
		Trace:    PipelineTrace{{Step: "Attempt 1 - Retrieve", Fields: map[string]interface{}{"docs_retrieved": 2}}},
		Sources: []SourceSummary{
			{Source: "capitals.txt", Relevance: 0.76, Grade: "relevant"},
		},
		Grounding: GroundingReport{Grounded: true, Confidence: 0.9, Issues: []string{}},
		Metrics: QueryMetrics{
			RetrievalAttempts:   1,
			DocsUsedForAnswer:   1,
			QueryReformulated:   false,
			AnswerGrounded:      true,
			GroundingConfidence: 0.9,
			LatencySeconds:      1.23,
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{"answer", "question", "pipeline_trace", "sources", "hallucination_check", "metrics"} {
		assert.Contains(t, decoded, key)
	}

	metrics, ok := decoded["metrics"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{
		"retrieval_attempts", "docs_used_for_answer", "query_reformulated",
		"answer_grounded", "grounding_confidence", "latency_seconds",
	} {
		assert.Contains(t, metrics, key)
	}

	check, ok := decoded["hallucination_check"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, check["grounded"])
}
