package contract

import (
	"context"

	"super-rag-be/internal/entity"
)

// ScoredDocumentChunk wraps DocumentChunk with its similarity score
// (0.0 to 1.0, where 1.0 = identical).
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	// DeleteBySource removes all chunk rows of one source document so a
	// re-ingest replaces rather than duplicates them.
	DeleteBySource(ctx context.Context, source string) error
	// SearchSimilarWithScore returns the top-k chunks ranked by cosine
	// similarity to the query embedding, highest first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocumentChunk, error)
}
