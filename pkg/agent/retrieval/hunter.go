package retrieval

import (
	"context"
	"errors"
	"fmt"

	"super-rag-be/internal/pkg/logger"
	"super-rag-be/internal/repository/contract"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/docstore"
	"super-rag-be/pkg/embedding"
)

// Hunter finds candidate whole-document sources via chunk-level vector search
// and loads their full text for long-context reasoning.
type Hunter struct {
	embedder embedding.Provider
	chunks   contract.DocumentChunkRepository
	docs     docstore.Store
	topK     int
	logger   logger.ILogger
}

func NewHunter(
	embedder embedding.Provider,
	chunks contract.DocumentChunkRepository,
	docs docstore.Store,
	topK int,
	log logger.ILogger,
) *Hunter {
	return &Hunter{
		embedder: embedder,
		chunks:   chunks,
		docs:     docs,
		topK:     topK,
		logger:   log,
	}
}

// Run populates st.RelevantDocuments. Missing document files are skipped with a
// warning; a failed vector search is fatal to the stage and returned as an error.
func (h *Hunter) Run(ctx context.Context, st *state.RequestState) error {
	h.logger.Info("DocumentHunter", "started", map[string]interface{}{
		"request_id":     st.RequestID,
		"document_hints": st.DocumentHints,
		"entities":       st.Entities,
	})

	vectors, err := h.embedder.Embed(ctx, []string{st.Query}, embedding.TaskRetrievalQuery)
	if err != nil {
		return fmt.Errorf("document retrieval failed: %w", err)
	}

	hits, err := h.chunks.SearchSimilarWithScore(ctx, vectors[0], h.topK)
	if err != nil {
		return fmt.Errorf("document retrieval failed: %w", err)
	}

	// Collect distinct source documents from the chunk hits.
	seen := make(map[string]bool)
	var docNames []string
	for _, hit := range hits {
		if hit.Chunk.Source == "" || seen[hit.Chunk.Source] {
			continue
		}
		seen[hit.Chunk.Source] = true
		docNames = append(docNames, hit.Chunk.Source)
	}

	h.logger.Info("DocumentHunter", "candidate documents from vector search", map[string]interface{}{
		"request_id": st.RequestID,
		"candidates": docNames,
	})

	var fullDocs []state.Document
	for _, docName := range docNames {
		text, err := h.docs.Read(ctx, docName)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				h.logger.Warn("DocumentHunter", "document file not found in store", map[string]interface{}{
					"request_id": st.RequestID,
					"doc_name":   docName,
				})
				continue
			}
			h.logger.Warn("DocumentHunter", "document read failed, skipping", map[string]interface{}{
				"request_id": st.RequestID,
				"doc_name":   docName,
				"error":      err.Error(),
			})
			continue
		}

		fullDocs = append(fullDocs, state.Document{
			DocName:  docName,
			Metadata: map[string]string{"source": docName},
			FullText: text,
		})
	}

	st.RelevantDocuments = fullDocs

	h.logger.Info("DocumentHunter", "retrieved full documents for deep reasoning", map[string]interface{}{
		"request_id": st.RequestID,
		"count":      len(fullDocs),
	})
	return nil
}
