package memory

import (
	"context"

	"super-rag-be/internal/entity"
	"super-rag-be/internal/pkg/logger"
	"super-rag-be/internal/repository/contract"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/embedding"
)

// SemanticMemory is the Tier-1 look-aside cache over past QA pairs, keyed by
// query-embedding similarity. Lookup runs first on every request; Store runs
// last. Neither ever fails the request.
type SemanticMemory struct {
	embedder  embedding.Provider
	pairs     contract.QAMemoryRepository
	threshold float64
	logger    logger.ILogger
}

func New(
	embedder embedding.Provider,
	pairs contract.QAMemoryRepository,
	threshold float64,
	log logger.ILogger,
) *SemanticMemory {
	return &SemanticMemory{
		embedder:  embedder,
		pairs:     pairs,
		threshold: threshold,
		logger:    log,
	}
}

// Lookup declares a hit when the nearest stored query's cosine similarity
// exceeds the threshold, copying the cached answer into the state. Any internal
// error is a miss, never a request failure.
func (m *SemanticMemory) Lookup(ctx context.Context, st *state.RequestState) {
	m.logger.Info("SemanticMemory", "lookup started", map[string]interface{}{
		"request_id": st.RequestID,
		"query":      st.Query,
	})

	vectors, err := m.embedder.Embed(ctx, []string{st.Query}, embedding.TaskSemanticSimilarity)
	if err != nil {
		m.logger.Error("SemanticMemory", "lookup embedding failed", map[string]interface{}{
			"request_id": st.RequestID,
			"error":      err.Error(),
		})
		st.SemanticHit = false
		return
	}

	hits, err := m.pairs.SearchSimilarWithScore(ctx, vectors[0], 1)
	if err != nil {
		m.logger.Error("SemanticMemory", "lookup search failed", map[string]interface{}{
			"request_id": st.RequestID,
			"error":      err.Error(),
		})
		st.SemanticHit = false
		return
	}

	if len(hits) > 0 {
		candidate := hits[0]
		m.logger.Info("SemanticMemory", "candidate found", map[string]interface{}{
			"request_id": st.RequestID,
			"score":      candidate.Similarity,
		})

		if candidate.Similarity > m.threshold {
			st.SemanticHit = true
			st.SemanticScore = candidate.Similarity
			st.FinalAnswer = candidate.Pair.Answer
			st.Mode = state.ModeSemanticMemory

			m.logger.Info("SemanticMemory", "HIT", map[string]interface{}{
				"request_id": st.RequestID,
				"score":      candidate.Similarity,
			})
			return
		}
	}

	m.logger.Info("SemanticMemory", "MISS", map[string]interface{}{
		"request_id": st.RequestID,
	})
	st.SemanticHit = false
}

// Store indexes the ORIGINAL QUERY TEXT as the searchable key with the answer
// and mode as payload, so future similar queries resolve by query-similarity.
// Best-effort: failures are logged and swallowed.
func (m *SemanticMemory) Store(ctx context.Context, st *state.RequestState) {
	if st.FinalAnswer == "" {
		return
	}

	vectors, err := m.embedder.Embed(ctx, []string{st.Query}, embedding.TaskSemanticSimilarity)
	if err != nil {
		m.logger.Error("SemanticMemory", "store embedding failed", map[string]interface{}{
			"request_id": st.RequestID,
			"error":      err.Error(),
		})
		return
	}

	pair := &entity.QAMemory{
		Query:     st.Query,
		Answer:    st.FinalAnswer,
		Mode:      st.Mode,
		Embedding: vectors[0],
	}
	if err := m.pairs.Create(ctx, pair); err != nil {
		m.logger.Error("SemanticMemory", "store failed", map[string]interface{}{
			"request_id": st.RequestID,
			"error":      err.Error(),
		})
		return
	}

	m.logger.Info("SemanticMemory", "stored QA pair", map[string]interface{}{
		"request_id": st.RequestID,
	})
}
