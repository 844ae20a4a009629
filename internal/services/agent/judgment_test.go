package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced with language", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced with whitespace", "  ```json\n  {\"a\": 1}\n```  ", `{"a": 1}`},
		{"unterminated fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"plain text", "not json at all", "not json at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.input))
		})
	}
}

func TestDecodeRelevanceJudgment(t *testing.T) {
	t.Run("valid verdict", func(t *testing.T) {
		judgment, err := decodeRelevanceJudgment(`{"relevance": "relevant", "reason": "on topic"}`)
		require.NoError(t, err)
		assert.Equal(t, "relevant", judgment.Relevance)
		assert.Equal(t, "on topic", judgment.Reason)
	})

	t.Run("fenced verdict", func(t *testing.T) {
		judgment, err := decodeRelevanceJudgment("```json\n{\"relevance\": \"partially_relevant\", \"reason\": \"some overlap\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "partially_relevant", judgment.Relevance)
	})

	t.Run("missing relevance field", func(t *testing.T) {
		_, err := decodeRelevanceJudgment(`{"reason": "no verdict"}`)
		assert.Error(t, err)
	})

	t.Run("unknown relevance value", func(t *testing.T) {
		_, err := decodeRelevanceJudgment(`{"relevance": "maybe", "reason": "hedge"}`)
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := decodeRelevanceJudgment("The document seems relevant to me.")
		assert.Error(t, err)
	})
}

func TestDecodeGroundednessJudgment(t *testing.T) {
	t.Run("valid verdict", func(t *testing.T) {
		judgment, err := decodeGroundednessJudgment(`{"grounded": true, "confidence": 0.9, "issues": []}`)
		require.NoError(t, err)
		assert.True(t, *judgment.Grounded)
		assert.InDelta(t, 0.9, *judgment.Confidence, 1e-9)
		assert.Empty(t, judgment.Issues)
	})

	t.Run("explicit false grounded is valid", func(t *testing.T) {
		judgment, err := decodeGroundednessJudgment(`{"grounded": false, "confidence": 0.2, "issues": ["unsupported claim"]}`)
		require.NoError(t, err)
		assert.False(t, *judgment.Grounded)
		assert.Equal(t, []string{"unsupported claim"}, judgment.Issues)
	})

	t.Run("missing grounded field", func(t *testing.T) {
		_, err := decodeGroundednessJudgment(`{"confidence": 0.9, "issues": []}`)
		assert.Error(t, err)
	})

	t.Run("missing confidence field", func(t *testing.T) {
		_, err := decodeGroundednessJudgment(`{"grounded": true, "issues": []}`)
		assert.Error(t, err)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		_, err := decodeGroundednessJudgment(`{"grounded": true, "confidence": 1.4, "issues": []}`)
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := decodeGroundednessJudgment("Looks grounded to me.")
		assert.Error(t, err)
	})
}
