package planner

import (
	"context"
	"fmt"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/llm"
	"super-rag-be/pkg/utils"
)

const planPrompt = `You are a Query Planning Agent for an Enterprise Super RAG system.

Your job:
Given a user question, produce a structured reasoning plan that will later be
executed by retrieval and analysis agents.

Return ONLY valid JSON with the following fields:

{
  "entities": [list of important entities or concepts],
  "required_attributes": [what needs to be derived or looked up],
  "document_hints": [types or domains of documents likely needed],
  "reasoning_steps": [ordered steps to answer the question]
}

User Question:
%s`

type plan struct {
	Entities           []string `json:"entities"`
	RequiredAttributes []string `json:"required_attributes"`
	DocumentHints      []string `json:"document_hints"`
	ReasoningSteps     []string `json:"reasoning_steps"`
}

// Planner decomposes a COMPLEX query into entities, required attributes and an
// ordered reasoning plan.
type Planner struct {
	llm    llm.Provider
	model  string
	logger logger.ILogger
}

func New(provider llm.Provider, model string, log logger.ILogger) *Planner {
	return &Planner{llm: provider, model: model, logger: log}
}

// Run fills the planning fields. On failure it returns the error and leaves the
// plan empty; downstream stages proceed without a plan rather than aborting.
func (p *Planner) Run(ctx context.Context, st *state.RequestState) error {
	p.logger.Info("Planner", "analyzing query", map[string]interface{}{
		"request_id": st.RequestID,
	})

	raw, err := p.llm.Generate(ctx, fmt.Sprintf(planPrompt, st.Query),
		llm.WithModel(p.model),
		llm.WithTemperature(0.2),
	)
	if err != nil {
		return fmt.Errorf("planner generation failed: %w", err)
	}

	var result plan
	if err := utils.UnmarshalModelJSON(raw, &result); err != nil {
		return fmt.Errorf("planner returned unparseable plan: %w", err)
	}

	st.Entities = result.Entities
	st.RequiredAttributes = result.RequiredAttributes
	st.PlanSteps = result.ReasoningSteps
	st.DocumentHints = result.DocumentHints

	p.logger.Info("Planner", "plan created", map[string]interface{}{
		"request_id":          st.RequestID,
		"entities":            st.Entities,
		"required_attributes": st.RequiredAttributes,
		"document_hints":      st.DocumentHints,
		"steps":               st.PlanSteps,
	})
	return nil
}
