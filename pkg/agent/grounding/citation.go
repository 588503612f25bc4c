package grounding

import (
	"context"
	"encoding/json"
	"fmt"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/llm"
	"super-rag-be/pkg/utils"
)

const citationPromptTemplate = `You are an Evidence Grounding Agent.

You are given:
1. A structured analysis JSON produced by another AI.
2. Full enterprise documents (in long context).

Your task:
For each key fact and for the final conclusion, identify:
- Document name
- Section / clause / paragraph reference
- Exact text span if possible

Return ONLY valid JSON in this format:

{
  "citations": {
     "derived_facts": {
         "<fact_key>": {
             "document": "...",
             "section": "...",
             "evidence": "..."
         }
     },
     "final_conclusion": {
         "document": "...",
         "section": "...",
         "evidence": "..."
     }
  }
}

Structured Analysis:
%s`

type citationEnvelope struct {
	Citations state.CitationSet `json:"citations"`
}

// Citer grounds each derived fact and the final conclusion in specific
// document/section evidence.
type Citer struct {
	llm    llm.Provider
	model  string
	logger logger.ILogger
}

func NewCiter(provider llm.Provider, model string, log logger.ILogger) *Citer {
	return &Citer{llm: provider, model: model, logger: log}
}

// Run sets st.Citations. Without an analysis there is nothing to ground, so the
// stage is a no-op. On failure the citations stay at their empty default and
// the pipeline proceeds with an ungrounded answer.
func (c *Citer) Run(ctx context.Context, st *state.RequestState) error {
	if st.Analysis == nil {
		c.logger.Warn("Citation", "no analysis found, skipping citation", map[string]interface{}{
			"request_id": st.RequestID,
		})
		return nil
	}

	c.logger.Info("Citation", "started", map[string]interface{}{
		"request_id": st.RequestID,
		"model":      c.model,
	})

	analysisJson, err := json.MarshalIndent(st.Analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("citation grounding failed: %w", err)
	}
	prompt := fmt.Sprintf(citationPromptTemplate, string(analysisJson))

	var raw string
	if st.CacheHandle != "" {
		c.logger.Info("Citation", "using cached long context for grounding", map[string]interface{}{
			"request_id": st.RequestID,
			"cache_id":   st.CacheHandle,
		})
		raw, err = c.llm.Generate(ctx, prompt,
			llm.WithModel(c.model),
			llm.WithTemperature(0.1),
			llm.WithCachedContent(st.CacheHandle),
		)
	} else {
		c.logger.Info("Citation", "using inline long-context fallback for grounding", map[string]interface{}{
			"request_id": st.RequestID,
		})
		fullPrompt := fmt.Sprintf("Context Documents:\n%s\n\n%s", st.InlineContext, prompt)
		raw, err = c.llm.Generate(ctx, fullPrompt,
			llm.WithModel(c.model),
			llm.WithTemperature(0.1),
		)
	}
	if err != nil {
		return fmt.Errorf("citation grounding failed: %w", err)
	}

	var envelope citationEnvelope
	if err := utils.UnmarshalModelJSON(raw, &envelope); err != nil {
		return fmt.Errorf("citation agent returned unparseable citations: %w", err)
	}
	if envelope.Citations.DerivedFacts == nil {
		envelope.Citations.DerivedFacts = map[string]state.Citation{}
	}
	st.Citations = envelope.Citations

	c.logger.Info("Citation", "answer grounded", map[string]interface{}{
		"request_id": st.RequestID,
		"facts":      len(st.Citations.DerivedFacts),
	})
	return nil
}
