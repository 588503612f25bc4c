package router

import (
	"context"
	"fmt"
	"strings"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/llm"
	"super-rag-be/pkg/utils"
)

// FallbackReason is the routing_reason recorded when the classifier call fails
// and the keyword heuristic decides instead.
const FallbackReason = "Keyword-based fallback detection"

// complexKeywords marks queries that need cross-document reasoning. Presence of
// any keyword routes to COMPLEX_REASONING when the LLM classifier is unavailable.
var complexKeywords = []string{
	"compare", "difference", "policy", "eligibility", "can i",
	"allowed", "not allowed", "across", "between", "combine",
	"rule", "regulation", "clause", "contract", "implication",
}

const classifyPrompt = `You are a routing classifier for an enterprise AI system.

Classify the user query into one of two categories:

1. SIMPLE_LOOKUP:
   - Fact retrieval
   - Single document answers
   - Definitions
   - Straightforward questions

2. COMPLEX_REASONING:
   - Requires combining multiple documents
   - Requires comparison, policy interpretation, joins
   - Requires multi-step reasoning

Return ONLY valid JSON:
{
  "intent": "SIMPLE_LOOKUP" or "COMPLEX_REASONING",
  "reason": "short explanation"
}

User Query:
%s`

type classification struct {
	Intent string `json:"intent"`
	Reason string `json:"reason"`
}

// Router decides whether a query takes the simple-retrieval tier or the full
// agentic reasoning tier.
type Router struct {
	llm    llm.Provider
	model  string
	logger logger.ILogger
}

func New(provider llm.Provider, model string, log logger.ILogger) *Router {
	return &Router{llm: provider, model: model, logger: log}
}

// Run always sets st.Intent. A classifier failure of any kind falls back to the
// keyword heuristic; this stage never reports an error upward.
func (r *Router) Run(ctx context.Context, st *state.RequestState) {
	r.logger.Info("Router", "evaluating query", map[string]interface{}{
		"request_id": st.RequestID,
		"query":      st.Query,
	})

	raw, err := r.llm.Generate(ctx, fmt.Sprintf(classifyPrompt, st.Query),
		llm.WithModel(r.model),
		llm.WithTemperature(0.0),
	)
	if err == nil {
		var result classification
		if parseErr := utils.UnmarshalModelJSON(raw, &result); parseErr != nil {
			err = fmt.Errorf("unparseable classifier output")
		} else {
			switch intent := state.Intent(result.Intent); intent {
			case state.IntentSimpleLookup, state.IntentComplexReasoning:
				st.Intent = intent
				st.RoutingReason = result.Reason

				r.logger.Info("Router", "classifier decision", map[string]interface{}{
					"request_id": st.RequestID,
					"intent":     string(st.Intent),
					"reason":     st.RoutingReason,
				})
				return
			default:
				// Out-of-enum intents are malformed output, not a decision.
				err = fmt.Errorf("classifier returned unknown intent %q", result.Intent)
			}
		}
	}

	r.logger.Warn("Router", "classifier failed, using keyword fallback", map[string]interface{}{
		"request_id": st.RequestID,
		"error":      err.Error(),
	})

	st.Intent = state.IntentSimpleLookup
	st.RoutingReason = FallbackReason

	lowered := strings.ToLower(st.Query)
	for _, keyword := range complexKeywords {
		if strings.Contains(lowered, keyword) {
			st.Intent = state.IntentComplexReasoning
			break
		}
	}

	r.logger.Info("Router", "fallback decision", map[string]interface{}{
		"request_id": st.RequestID,
		"intent":     string(st.Intent),
	})
}
