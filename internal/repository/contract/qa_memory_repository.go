package contract

import (
	"context"

	"super-rag-be/internal/entity"
)

// ScoredQAMemory wraps QAMemory with its similarity score
// (0.0 to 1.0, where 1.0 = identical).
type ScoredQAMemory struct {
	Pair       *entity.QAMemory
	Similarity float64
}

type QAMemoryRepository interface {
	Create(ctx context.Context, pair *entity.QAMemory) error
	// SearchSimilarWithScore returns the top-k stored QA pairs ranked by cosine
	// similarity between the query embedding and the stored QUERY embedding.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredQAMemory, error)
}
