package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/internal/repository/contract"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/embedding"
	"super-rag-be/pkg/llm"
)

// NoHitAnswer is returned when the vector store has nothing relevant.
const NoHitAnswer = "No relevant information found in the knowledge base."

const answerPrompt = `You are a factual enterprise assistant.
Answer strictly based on the provided context.

Context:
%s

Question:
%s

Instructions:
- Be concise and accurate.
- Do not hallucinate.
- If the answer is not in the context, say so.`

// SimpleRAG handles straightforward factual queries with top-k chunk retrieval
// and direct answer synthesis.
type SimpleRAG struct {
	embedder embedding.Provider
	chunks   contract.DocumentChunkRepository
	llm      llm.Provider
	model    string
	topK     int
	logger   logger.ILogger
}

func New(
	embedder embedding.Provider,
	chunks contract.DocumentChunkRepository,
	provider llm.Provider,
	model string,
	topK int,
	log logger.ILogger,
) *SimpleRAG {
	return &SimpleRAG{
		embedder: embedder,
		chunks:   chunks,
		llm:      provider,
		model:    model,
		topK:     topK,
		logger:   log,
	}
}

func (a *SimpleRAG) Run(ctx context.Context, st *state.RequestState) error {
	a.logger.Info("SimpleRAG", "started", map[string]interface{}{
		"request_id": st.RequestID,
	})

	vectors, err := a.embedder.Embed(ctx, []string{st.Query}, embedding.TaskRetrievalQuery)
	if err != nil {
		st.Mode = state.ModeSimpleRAGError
		return fmt.Errorf("simple rag embedding failed: %w", err)
	}

	hits, err := a.chunks.SearchSimilarWithScore(ctx, vectors[0], a.topK)
	if err != nil {
		st.Mode = state.ModeSimpleRAGError
		return fmt.Errorf("simple rag vector search failed: %w", err)
	}

	if len(hits) == 0 {
		a.logger.Warn("SimpleRAG", "no relevant documents found in vector store", map[string]interface{}{
			"request_id": st.RequestID,
		})
		st.FinalAnswer = NoHitAnswer
		st.Sources = []string{}
		st.Mode = state.ModeSimpleRAGNoHit
		return nil
	}

	contextParts := make([]string, 0, len(hits))
	sourceSet := make(map[string]bool)
	for _, hit := range hits {
		contextParts = append(contextParts, hit.Chunk.Content)
		if hit.Chunk.Source != "" {
			sourceSet[hit.Chunk.Source] = true
		}
	}

	sources := make([]string, 0, len(sourceSet))
	for source := range sourceSet {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	prompt := fmt.Sprintf(answerPrompt, strings.Join(contextParts, "\n\n"), st.Query)

	answer, err := a.llm.Generate(ctx, prompt,
		llm.WithModel(a.model),
		llm.WithTemperature(0.1),
	)
	if err != nil {
		st.Mode = state.ModeSimpleRAGError
		return fmt.Errorf("simple rag generation failed: %w", err)
	}

	st.FinalAnswer = strings.TrimSpace(answer)
	st.Sources = sources
	st.Mode = state.ModeSimpleRAG

	a.logger.Info("SimpleRAG", "completed", map[string]interface{}{
		"request_id": st.RequestID,
		"sources":    st.Sources,
	})
	return nil
}
