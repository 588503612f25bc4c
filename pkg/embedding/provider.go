package embedding

import "context"

// Task types understood by the Gemini embedding models. Queries and documents
// are embedded with different task types so the model optimizes each side of
// the retrieval pair.
const (
	TaskRetrievalQuery     = "RETRIEVAL_QUERY"
	TaskRetrievalDocument  = "RETRIEVAL_DOCUMENT"
	TaskSemanticSimilarity = "SEMANTIC_SIMILARITY"
)

// Provider defines the interface for generating text embeddings.
// Used by ingestion (chunk embedding), retrieval (query embedding) and
// semantic memory (QA-pair embedding).
type Provider interface {
	// Embed returns one fixed-dimension vector per input text, in input order.
	Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}
