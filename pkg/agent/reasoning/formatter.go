package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/llm"
)

const formatPromptTemplate = `You are an Enterprise Answer Generator.

Given:
1. Structured reasoning JSON
2. Evidence citations

Generate a clear, professional final answer for the user.
Include evidence references in brackets.

Structured Reasoning:
%s

Citations:
%s

Produce:
- Final natural language answer
- With inline citations`

// Formatter merges the structured analysis and the citations mapping into one
// polished natural-language answer. It is the last mutator of FinalAnswer on
// the complex path; its output supersedes the analyst's provisional conclusion.
type Formatter struct {
	llm    llm.Provider
	model  string
	logger logger.ILogger
}

func NewFormatter(provider llm.Provider, model string, log logger.ILogger) *Formatter {
	return &Formatter{llm: provider, model: model, logger: log}
}

// Run is a no-op without an analysis. It is a pure transform of the
// (analysis, citations) pair: re-running it overwrites FinalAnswer while the
// mode keeps the same stable label.
func (f *Formatter) Run(ctx context.Context, st *state.RequestState) error {
	if st.Analysis == nil {
		f.logger.Warn("Formatter", "no analysis found for formatting", map[string]interface{}{
			"request_id": st.RequestID,
		})
		return nil
	}

	f.logger.Info("Formatter", "started", map[string]interface{}{
		"request_id": st.RequestID,
		"model":      f.model,
	})

	analysisJson, err := json.MarshalIndent(st.Analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("answer formatting failed: %w", err)
	}
	citationsJson, err := json.MarshalIndent(st.Citations, "", "  ")
	if err != nil {
		return fmt.Errorf("answer formatting failed: %w", err)
	}

	prompt := fmt.Sprintf(formatPromptTemplate, string(analysisJson), string(citationsJson))

	answer, err := f.llm.Generate(ctx, prompt,
		llm.WithModel(f.model),
		llm.WithTemperature(0.2),
	)
	if err != nil {
		return fmt.Errorf("answer formatting failed: %w", err)
	}

	st.FinalAnswer = strings.TrimSpace(answer)
	st.Mode = state.ModeSuperRAG

	f.logger.Info("Formatter", "final answer formatted", map[string]interface{}{
		"request_id": st.RequestID,
	})
	return nil
}
