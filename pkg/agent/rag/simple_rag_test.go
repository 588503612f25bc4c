package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"super-rag-be/internal/entity"
	"super-rag-be/internal/pkg/logger"
	"super-rag-be/internal/repository/contract"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/llm"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

type stubChunkRepo struct {
	hits []*contract.ScoredDocumentChunk
	err  error
}

func (s *stubChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	return nil
}

func (s *stubChunkRepo) DeleteBySource(ctx context.Context, source string) error {
	return nil
}

func (s *stubChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredDocumentChunk, error) {
	return s.hits, s.err
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) CreateCache(ctx context.Context, cfg llm.CacheConfig) (string, error) {
	return "", errors.New("not supported")
}

func embedder() *stubEmbedder {
	return &stubEmbedder{vectors: [][]float32{{0.1, 0.2, 0.3}}}
}

func TestSimpleRAGNoHit(t *testing.T) {
	a := New(embedder(), &stubChunkRepo{}, &stubLLM{response: "should not be used"}, "m", 5, logger.NopLogger{})
	st := state.New("req-1", "When was the company founded?")

	err := a.Run(context.Background(), st)

	assert.NoError(t, err)
	assert.Equal(t, NoHitAnswer, st.FinalAnswer)
	assert.Equal(t, []string{}, st.Sources)
	assert.Equal(t, state.ModeSimpleRAGNoHit, st.Mode)
}

func TestSimpleRAGAnswerAndSortedSources(t *testing.T) {
	hits := []*contract.ScoredDocumentChunk{
		{Chunk: &entity.DocumentChunk{Source: "z.txt", Content: "founded in 1999"}, Similarity: 0.9},
		{Chunk: &entity.DocumentChunk{Source: "a.txt", Content: "headquartered in Oslo"}, Similarity: 0.8},
		{Chunk: &entity.DocumentChunk{Source: "z.txt", Content: "by two founders"}, Similarity: 0.7},
	}
	a := New(embedder(), &stubChunkRepo{hits: hits}, &stubLLM{response: "  The company was founded in 1999.  "}, "m", 5, logger.NopLogger{})
	st := state.New("req-1", "When was the company founded?")

	err := a.Run(context.Background(), st)

	assert.NoError(t, err)
	assert.Equal(t, "The company was founded in 1999.", st.FinalAnswer)
	assert.Equal(t, []string{"a.txt", "z.txt"}, st.Sources)
	assert.Equal(t, state.ModeSimpleRAG, st.Mode)
}

func TestSimpleRAGEmbeddingFailure(t *testing.T) {
	a := New(&stubEmbedder{err: errors.New("quota exceeded")}, &stubChunkRepo{}, &stubLLM{}, "m", 5, logger.NopLogger{})
	st := state.New("req-1", "query")

	err := a.Run(context.Background(), st)

	assert.Error(t, err)
	assert.Equal(t, state.ModeSimpleRAGError, st.Mode)
}

func TestSimpleRAGSearchFailure(t *testing.T) {
	a := New(embedder(), &stubChunkRepo{err: errors.New("db down")}, &stubLLM{}, "m", 5, logger.NopLogger{})
	st := state.New("req-1", "query")

	err := a.Run(context.Background(), st)

	assert.Error(t, err)
	assert.Equal(t, state.ModeSimpleRAGError, st.Mode)
}

func TestSimpleRAGGenerationFailure(t *testing.T) {
	hits := []*contract.ScoredDocumentChunk{
		{Chunk: &entity.DocumentChunk{Source: "a.txt", Content: "some context"}, Similarity: 0.9},
	}
	a := New(embedder(), &stubChunkRepo{hits: hits}, &stubLLM{err: errors.New("model overloaded")}, "m", 5, logger.NopLogger{})
	st := state.New("req-1", "query")

	err := a.Run(context.Background(), st)

	assert.Error(t, err)
	assert.Equal(t, state.ModeSimpleRAGError, st.Mode)
}
