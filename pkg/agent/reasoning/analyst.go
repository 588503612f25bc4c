package reasoning

import (
	"context"
	"encoding/json"
	"fmt"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/llm"
	"super-rag-be/pkg/utils"
)

const analysisPromptTemplate = `You are a senior enterprise analyst AI.

You have access to full internal documents.
You must reason strictly from them.

User Entities:
%s

Information to Derive:
%s

Reasoning Plan:
%s

Instructions:
1. Execute the reasoning plan step by step.
2. Join information across documents if needed.
3. Resolve conflicts using policy precedence if any.
4. Do not hallucinate. Use only the provided documents.
5. Return ONLY valid JSON in the following format:

{
  "entities": [],
  "derived_facts": {},
  "analysis": "step-by-step reasoning",
  "final_conclusion": "clear answer to the user",
  "confidence": 0.0
}`

// Analyst performs structured multi-document reasoning against the cached or
// inline long context, guided by the planner's output.
type Analyst struct {
	llm    llm.Provider
	model  string
	logger logger.ILogger
}

func NewAnalyst(provider llm.Provider, model string, log logger.ILogger) *Analyst {
	return &Analyst{llm: provider, model: model, logger: log}
}

// Run sets st.Analysis and a provisional st.FinalAnswer. Its failure is
// returned rather than absorbed because the citation and formatter stages
// structurally depend on the analysis.
func (a *Analyst) Run(ctx context.Context, st *state.RequestState) error {
	a.logger.Info("Analyst", "started", map[string]interface{}{
		"request_id": st.RequestID,
		"model":      a.model,
	})

	prompt := fmt.Sprintf(analysisPromptTemplate,
		jsonList(st.Entities),
		jsonList(st.RequiredAttributes),
		jsonList(st.PlanSteps),
	)

	raw, err := a.generateWithLongContext(ctx, st, prompt)
	if err != nil {
		return fmt.Errorf("analyst reasoning failed: %w", err)
	}

	var analysis state.Analysis
	if err := utils.UnmarshalModelJSON(raw, &analysis); err != nil {
		return fmt.Errorf("analyst returned unparseable analysis: %w", err)
	}

	st.Analysis = &analysis
	st.FinalAnswer = analysis.FinalConclusion
	st.Mode = state.ModeSuperRAG

	a.logger.Info("Analyst", "reasoning completed", map[string]interface{}{
		"request_id": st.RequestID,
		"conclusion": analysis.FinalConclusion,
		"confidence": analysis.Confidence,
	})
	return nil
}

// generateWithLongContext prefers the server-side cache handle and falls back
// to inlining the combined documents into the prompt. Same semantic content,
// different delivery mechanism.
func (a *Analyst) generateWithLongContext(ctx context.Context, st *state.RequestState, prompt string) (string, error) {
	if st.CacheHandle != "" {
		a.logger.Info("Analyst", "using cached long context", map[string]interface{}{
			"request_id": st.RequestID,
			"cache_id":   st.CacheHandle,
		})
		return a.llm.Generate(ctx, prompt,
			llm.WithModel(a.model),
			llm.WithTemperature(0.1),
			llm.WithCachedContent(st.CacheHandle),
		)
	}

	a.logger.Info("Analyst", "using inline long-context fallback", map[string]interface{}{
		"request_id": st.RequestID,
	})
	// The cache carries the system instruction on the cached path; the inline
	// fallback has to supply it on the call itself.
	fullPrompt := fmt.Sprintf("Context Documents:\n%s\n\n%s", st.InlineContext, prompt)
	return a.llm.Generate(ctx, fullPrompt,
		llm.WithModel(a.model),
		llm.WithTemperature(0.1),
		llm.WithSystemInstruction(cacheSystemInstruction),
	)
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	out, _ := json.Marshal(items)
	return string(out)
}
