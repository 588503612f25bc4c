package state

// Intent is the router's binary classification of query complexity.
type Intent string

const (
	IntentSimpleLookup     Intent = "SIMPLE_LOOKUP"
	IntentComplexReasoning Intent = "COMPLEX_REASONING"
)

// Mode labels record which tier produced the answer. They are observability
// provenance only and never drive branching.
const (
	ModeSemanticMemory = "Semantic Memory (Tier-1)"
	ModeSimpleRAG      = "Simple RAG (Vector Search)"
	ModeSimpleRAGNoHit = "Simple RAG (No Hit)"
	ModeSimpleRAGError = "Simple RAG (Error)"
	ModeSuperRAG       = "Super RAG (Agentic Long-Context Reasoning)"
)

// Document is a whole source document loaded for long-context reasoning.
type Document struct {
	DocName  string            `json:"doc_name"`
	Metadata map[string]string `json:"metadata"`
	FullText string            `json:"full_text"`
}

// Analysis is the analyst stage's structured reasoning output.
type Analysis struct {
	Entities        []string       `json:"entities"`
	DerivedFacts    map[string]any `json:"derived_facts"`
	Analysis        string         `json:"analysis"`
	FinalConclusion string         `json:"final_conclusion"`
	Confidence      float64        `json:"confidence"`
}

// Citation grounds one claim in a specific document location.
type Citation struct {
	Document string `json:"document"`
	Section  string `json:"section"`
	Evidence string `json:"evidence"`
}

// CitationSet maps derived-fact keys to their evidence, plus a citation for the
// final conclusion.
type CitationSet struct {
	DerivedFacts    map[string]Citation `json:"derived_facts"`
	FinalConclusion *Citation           `json:"final_conclusion,omitempty"`
}

// RequestState is the single mutable record threaded through every stage for
// one query. A request owns its state exclusively for its whole lifetime; it is
// never shared across concurrent requests. Each stage mutates only its own
// output fields.
type RequestState struct {
	// Identity. RequestID and Query are immutable after creation.
	RequestID string
	Query     string

	// Router output.
	Intent        Intent
	RoutingReason string

	// Planner output, consumed read-only downstream.
	Entities           []string
	RequiredAttributes []string
	PlanSteps          []string
	DocumentHints      []string

	// Document hunter output.
	RelevantDocuments []Document

	// Long context. Exactly one of CacheHandle/InlineContext is non-empty after
	// the loader runs with documents present; both stay empty with no documents.
	CacheHandle   string
	InlineContext string

	// Analyst output.
	Analysis *Analysis

	// Citation output.
	Citations CitationSet

	// Final output.
	FinalAnswer    string
	Sources        []string
	Mode           string
	LatencySeconds float64

	// Semantic memory details.
	SemanticHit   bool
	SemanticScore float64

	// Error, if set, explains an absorbed stage failure. Presence of an error
	// does not imply the request produced no answer.
	Error string
}

// New creates the request-scoped state for one incoming query.
func New(requestID, query string) *RequestState {
	return &RequestState{
		RequestID: requestID,
		Query:     query,
		Citations: CitationSet{DerivedFacts: map[string]Citation{}},
		Sources:   []string{},
	}
}

// RecordError keeps the first absorbed failure; later failures append context
// rather than overwrite it.
func (s *RequestState) RecordError(msg string) {
	if s.Error == "" {
		s.Error = msg
		return
	}
	s.Error += "; " + msg
}
