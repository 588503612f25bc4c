package dto

import "super-rag-be/pkg/agent/state"

type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

type QueryResponse struct {
	RequestId      string            `json:"request_id"`
	Query          string            `json:"query"`
	Answer         string            `json:"answer"`
	Mode           string            `json:"mode"`
	Sources        []string          `json:"sources"`
	Citations      state.CitationSet `json:"citations"`
	SemanticHit    bool              `json:"semantic_hit"`
	LatencySeconds float64           `json:"latency_seconds"`
	Error          string            `json:"error,omitempty"`
}
