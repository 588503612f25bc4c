package agent

import (
	"context"
	"fmt"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/pkg/agent/grounding"
	"super-rag-be/pkg/agent/memory"
	"super-rag-be/pkg/agent/planner"
	"super-rag-be/pkg/agent/rag"
	"super-rag-be/pkg/agent/reasoning"
	"super-rag-be/pkg/agent/retrieval"
	"super-rag-be/pkg/agent/router"
	"super-rag-be/pkg/agent/state"
)

// Orchestrator is the central brain of Super RAG. It routes each query through:
//   - Tier 1: semantic memory
//   - Tier 2: simple RAG
//   - Tier 3: agentic long-context pipeline
//
// It is a non-branching sequencer apart from the memory-hit and intent
// decisions: it never retries and never re-routes. Every stage owns its own
// degradation policy; the orchestrator only records stage errors into the state
// and keeps moving forward.
type Orchestrator struct {
	semanticMemory *memory.SemanticMemory
	router         *router.Router
	simpleRAG      *rag.SimpleRAG

	planner   *planner.Planner
	hunter    *retrieval.Hunter
	loader    *reasoning.ContextLoader
	analyst   *reasoning.Analyst
	citer     *grounding.Citer
	formatter *reasoning.Formatter

	logger logger.ILogger
}

func NewOrchestrator(
	semanticMemory *memory.SemanticMemory,
	queryRouter *router.Router,
	simpleRAG *rag.SimpleRAG,
	queryPlanner *planner.Planner,
	hunter *retrieval.Hunter,
	loader *reasoning.ContextLoader,
	analyst *reasoning.Analyst,
	citer *grounding.Citer,
	formatter *reasoning.Formatter,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		semanticMemory: semanticMemory,
		router:         queryRouter,
		simpleRAG:      simpleRAG,
		planner:        queryPlanner,
		hunter:         hunter,
		loader:         loader,
		analyst:        analyst,
		citer:          citer,
		formatter:      formatter,
		logger:         log,
	}
}

// Run drives one request through the tiered pipeline. It always returns the
// state it was given; a panic anywhere below is converted into state.Error and
// a degraded response rather than a crash.
func (o *Orchestrator) Run(ctx context.Context, st *state.RequestState) (out *state.RequestState) {
	out = st
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Orchestrator", "orchestration panicked", map[string]interface{}{
				"request_id": st.RequestID,
				"panic":      fmt.Sprint(r),
			})
			st.RecordError(fmt.Sprintf("orchestration failed: %v", r))
		}
	}()

	o.logger.Info("Orchestrator", "orchestration started", map[string]interface{}{
		"request_id": st.RequestID,
		"query":      st.Query,
	})

	// ---------- Tier 1: Semantic Memory ----------
	o.semanticMemory.Lookup(ctx, st)
	if st.SemanticHit {
		o.logger.Info("Orchestrator", "served from semantic memory (Tier-1)", map[string]interface{}{
			"request_id": st.RequestID,
			"score":      st.SemanticScore,
		})
		return st
	}

	// ---------- Routing ----------
	o.router.Run(ctx, st)

	if st.Intent == state.IntentSimpleLookup {
		// ---------- Tier 2: Simple RAG ----------
		o.logger.Info("Orchestrator", "routing to Simple RAG (Tier-2)", map[string]interface{}{
			"request_id": st.RequestID,
		})
		o.record(st, o.simpleRAG.Run(ctx, st))
	} else {
		// ---------- Tier 3: Super RAG ----------
		o.logger.Info("Orchestrator", "routing to Super RAG agentic pipeline (Tier-3)", map[string]interface{}{
			"request_id": st.RequestID,
		})

		o.record(st, o.planner.Run(ctx, st))
		o.record(st, o.hunter.Run(ctx, st))
		o.loader.Run(ctx, st)
		o.record(st, o.analyst.Run(ctx, st))
		o.record(st, o.citer.Run(ctx, st))
		o.record(st, o.formatter.Run(ctx, st))
	}

	// ---------- Store in Semantic Memory ----------
	o.semanticMemory.Store(ctx, st)

	o.logger.Info("Orchestrator", "orchestration completed", map[string]interface{}{
		"request_id": st.RequestID,
		"mode":       st.Mode,
		"error":      st.Error,
	})
	return st
}

// record absorbs a stage failure into the state. The pipeline continues; stages
// downstream of a failed prerequisite degrade to no-ops on their own.
func (o *Orchestrator) record(st *state.RequestState, err error) {
	if err == nil {
		return
	}
	o.logger.Error("Orchestrator", "stage failed", map[string]interface{}{
		"request_id": st.RequestID,
		"error":      err.Error(),
	})
	st.RecordError(err.Error())
}
