package reasoning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent/state"
)

func analyzedState() *state.RequestState {
	st := state.New("req-1", "query")
	st.Analysis = &state.Analysis{
		FinalConclusion: "Provisional conclusion.",
		Confidence:      0.9,
	}
	st.FinalAnswer = "Provisional conclusion."
	st.Mode = state.ModeSuperRAG
	return st
}

func TestFormatterOverwritesProvisionalAnswer(t *testing.T) {
	f := NewFormatter(&stubLLM{response: "  Polished answer with citations [doc.txt].  "}, "test-model", logger.NopLogger{})
	st := analyzedState()

	err := f.Run(context.Background(), st)

	assert.NoError(t, err)
	assert.Equal(t, "Polished answer with citations [doc.txt].", st.FinalAnswer)
	assert.Equal(t, state.ModeSuperRAG, st.Mode)
}

func TestFormatterNoOpWithoutAnalysis(t *testing.T) {
	provider := &stubLLM{response: "should never be called"}
	f := NewFormatter(provider, "test-model", logger.NopLogger{})
	st := state.New("req-1", "query")
	st.FinalAnswer = "answer from an earlier tier"

	err := f.Run(context.Background(), st)

	assert.NoError(t, err)
	assert.Equal(t, "answer from an earlier tier", st.FinalAnswer)
}

func TestFormatterGenerationFailureKeepsProvisionalAnswer(t *testing.T) {
	f := NewFormatter(&stubLLM{generateErr: errors.New("model overloaded")}, "test-model", logger.NopLogger{})
	st := analyzedState()

	err := f.Run(context.Background(), st)

	assert.Error(t, err)
	assert.Equal(t, "Provisional conclusion.", st.FinalAnswer)
}
