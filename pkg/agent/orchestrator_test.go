package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"super-rag-be/internal/entity"
	"super-rag-be/internal/pkg/logger"
	"super-rag-be/internal/repository/contract"
	"super-rag-be/pkg/agent/grounding"
	"super-rag-be/pkg/agent/memory"
	"super-rag-be/pkg/agent/planner"
	"super-rag-be/pkg/agent/rag"
	"super-rag-be/pkg/agent/reasoning"
	"super-rag-be/pkg/agent/retrieval"
	"super-rag-be/pkg/agent/router"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/docstore"
	"super-rag-be/pkg/llm"
)

// scriptedLLM answers per stage, recognized by a distinctive substring of each
// stage's prompt.
type scriptedLLM struct {
	responses map[string]string
	errors    map[string]error
	calls     []string

	cacheHandle string
	cacheErr    error
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	for marker, response := range s.responses {
		if strings.Contains(prompt, marker) {
			s.calls = append(s.calls, marker)
			if err, ok := s.errors[marker]; ok {
				return "", err
			}
			return response, nil
		}
	}
	return "", fmt.Errorf("unexpected prompt: %.60s", prompt)
}

func (s *scriptedLLM) CreateCache(ctx context.Context, cfg llm.CacheConfig) (string, error) {
	if s.cacheErr != nil {
		return "", s.cacheErr
	}
	return s.cacheHandle, nil
}

const (
	markerRouter    = "routing classifier"
	markerPlanner   = "Query Planning Agent"
	markerSimpleRAG = "factual enterprise assistant"
	markerAnalyst   = "senior enterprise analyst"
	markerCitation  = "Evidence Grounding Agent"
	markerFormatter = "Enterprise Answer Generator"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type stubChunkRepo struct {
	hits []*contract.ScoredDocumentChunk
}

func (s *stubChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	return nil
}

func (s *stubChunkRepo) DeleteBySource(ctx context.Context, source string) error {
	return nil
}

func (s *stubChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredDocumentChunk, error) {
	return s.hits, nil
}

type stubQARepo struct {
	hits    []*contract.ScoredQAMemory
	created []*entity.QAMemory
}

func (s *stubQARepo) Create(ctx context.Context, pair *entity.QAMemory) error {
	s.created = append(s.created, pair)
	return nil
}

func (s *stubQARepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredQAMemory, error) {
	return s.hits, nil
}

type mapStore struct {
	docs map[string]string
}

func (m *mapStore) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(m.docs))
	for name := range m.docs {
		names = append(names, name)
	}
	return names, nil
}

func (m *mapStore) Read(ctx context.Context, name string) (string, error) {
	text, ok := m.docs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", docstore.ErrNotFound, name)
	}
	return text, nil
}

func chunkHit(source string, sim float64) *contract.ScoredDocumentChunk {
	return &contract.ScoredDocumentChunk{
		Chunk:      &entity.DocumentChunk{Source: source, Content: "chunk of " + source},
		Similarity: sim,
	}
}

type fixture struct {
	llm       *scriptedLLM
	qaRepo    *stubQARepo
	chunkRepo *stubChunkRepo
	orch      *Orchestrator
}

func newFixture(provider *scriptedLLM, qaRepo *stubQARepo, chunkRepo *stubChunkRepo) *fixture {
	embedder := stubEmbedder{}
	store := &mapStore{docs: map[string]string{
		"hr_policy.txt": "full hr policy text",
		"travel.txt":    "full travel text",
	}}
	log := logger.NopLogger{}

	orch := NewOrchestrator(
		memory.New(embedder, qaRepo, 0.75, log),
		router.New(provider, "m", log),
		rag.New(embedder, chunkRepo, provider, "m", 5, log),
		planner.New(provider, "m", log),
		retrieval.NewHunter(embedder, chunkRepo, store, 10, log),
		reasoning.NewContextLoader(provider, "m", time.Hour, log),
		reasoning.NewAnalyst(provider, "m", log),
		grounding.NewCiter(provider, "m", log),
		reasoning.NewFormatter(provider, "m", log),
		log,
	)
	return &fixture{llm: provider, qaRepo: qaRepo, chunkRepo: chunkRepo, orch: orch}
}

func TestOrchestratorMemoryHitShortCircuits(t *testing.T) {
	qaRepo := &stubQARepo{hits: []*contract.ScoredQAMemory{
		{Pair: &entity.QAMemory{Answer: "cached answer"}, Similarity: 0.93},
	}}
	f := newFixture(&scriptedLLM{responses: map[string]string{}}, qaRepo, &stubChunkRepo{})

	st := f.orch.Run(context.Background(), state.New("req-1", "repeat question"))

	assert.Equal(t, "cached answer", st.FinalAnswer)
	assert.Equal(t, state.ModeSemanticMemory, st.Mode)
	assert.True(t, st.SemanticHit)
	assert.Equal(t, 0.93, st.SemanticScore)
	assert.Empty(t, f.llm.calls, "no model call should happen on a memory hit")
	assert.Empty(t, qaRepo.created, "a memory hit must not be re-stored")
}

func TestOrchestratorSimpleLookupPath(t *testing.T) {
	provider := &scriptedLLM{responses: map[string]string{
		markerRouter:    `{"intent": "SIMPLE_LOOKUP", "reason": "single fact"}`,
		markerSimpleRAG: "The company was founded in 1999.",
	}}
	qaRepo := &stubQARepo{}
	chunkRepo := &stubChunkRepo{hits: []*contract.ScoredDocumentChunk{chunkHit("hr_policy.txt", 0.9)}}
	f := newFixture(provider, qaRepo, chunkRepo)

	st := f.orch.Run(context.Background(), state.New("req-1", "When was the company founded?"))

	assert.Equal(t, state.IntentSimpleLookup, st.Intent)
	assert.Equal(t, "The company was founded in 1999.", st.FinalAnswer)
	assert.Equal(t, state.ModeSimpleRAG, st.Mode)
	assert.Equal(t, []string{"hr_policy.txt"}, st.Sources)
	assert.Empty(t, st.Error)

	// The answer is written back into semantic memory for the next request.
	assert.Len(t, qaRepo.created, 1)
	assert.Equal(t, "The company was founded in 1999.", qaRepo.created[0].Answer)

	assert.NotContains(t, f.llm.calls, markerPlanner, "simple path must not plan")
}

func TestOrchestratorComplexReasoningPath(t *testing.T) {
	provider := &scriptedLLM{
		cacheHandle: "cachedContents/xyz",
		responses: map[string]string{
			markerRouter:  `{"intent": "COMPLEX_REASONING", "reason": "cross-document"}`,
			markerPlanner: `{"entities": ["leave policy"], "required_attributes": ["days"], "document_hints": ["hr"], "reasoning_steps": ["find policy"]}`,
			markerAnalyst: `{"entities": ["leave policy"], "derived_facts": {"days": 30}, "analysis": "found in section 4.2", "final_conclusion": "30 days of leave.", "confidence": 0.9}`,
			markerCitation: `{"citations": {"derived_facts": {"days": {"document": "hr_policy.txt", "section": "4.2", "evidence": "30 days"}},
				"final_conclusion": {"document": "hr_policy.txt", "section": "4.2", "evidence": "30 days"}}}`,
			markerFormatter: "You are entitled to 30 days of leave [hr_policy.txt 4.2].",
		},
	}
	qaRepo := &stubQARepo{}
	chunkRepo := &stubChunkRepo{hits: []*contract.ScoredDocumentChunk{
		chunkHit("hr_policy.txt", 0.9),
		chunkHit("travel.txt", 0.8),
	}}
	f := newFixture(provider, qaRepo, chunkRepo)

	st := f.orch.Run(context.Background(), state.New("req-1", "Compare the leave policy across contracts"))

	assert.Equal(t, state.IntentComplexReasoning, st.Intent)
	assert.Equal(t, "You are entitled to 30 days of leave [hr_policy.txt 4.2].", st.FinalAnswer)
	assert.Equal(t, state.ModeSuperRAG, st.Mode)
	assert.Empty(t, st.Error)

	assert.Len(t, st.RelevantDocuments, 2)
	assert.Equal(t, "cachedContents/xyz", st.CacheHandle)
	assert.NotNil(t, st.Analysis)
	assert.Equal(t, "hr_policy.txt", st.Citations.DerivedFacts["days"].Document)
	assert.Len(t, qaRepo.created, 1)
}

func TestOrchestratorAnalystFailureDegrades(t *testing.T) {
	provider := &scriptedLLM{
		cacheErr: errors.New("cache unavailable"),
		responses: map[string]string{
			markerRouter:  `{"intent": "COMPLEX_REASONING", "reason": "cross-document"}`,
			markerPlanner: `{"entities": [], "required_attributes": [], "document_hints": [], "reasoning_steps": []}`,
			markerAnalyst: "",
		},
		errors: map[string]error{
			markerAnalyst: errors.New("model overloaded"),
		},
	}
	qaRepo := &stubQARepo{}
	chunkRepo := &stubChunkRepo{hits: []*contract.ScoredDocumentChunk{chunkHit("hr_policy.txt", 0.9)}}
	f := newFixture(provider, qaRepo, chunkRepo)

	st := f.orch.Run(context.Background(), state.New("req-1", "Compare the leave policy across contracts"))

	assert.NotEmpty(t, st.Error)
	assert.Nil(t, st.Analysis)
	assert.Empty(t, st.FinalAnswer)
	// Citer and formatter degrade to no-ops without an analysis.
	assert.NotContains(t, f.llm.calls, markerCitation)
	assert.NotContains(t, f.llm.calls, markerFormatter)
	// Nothing useful to remember.
	assert.Empty(t, qaRepo.created)
}

func TestOrchestratorRecoversFromPanic(t *testing.T) {
	// A nil simpleRAG stage panics when the simple path dereferences it.
	orch := NewOrchestrator(
		memory.New(stubEmbedder{}, &stubQARepo{}, 0.75, logger.NopLogger{}),
		router.New(&scriptedLLM{responses: map[string]string{
			markerRouter: `{"intent": "SIMPLE_LOOKUP", "reason": "fact"}`,
		}}, "m", logger.NopLogger{}),
		nil,
		nil, nil, nil, nil, nil, nil,
		logger.NopLogger{},
	)

	st := orch.Run(context.Background(), state.New("req-1", "query"))

	assert.NotNil(t, st)
	assert.Contains(t, st.Error, "orchestration failed")
}
