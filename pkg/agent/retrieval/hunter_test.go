package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"super-rag-be/internal/entity"
	"super-rag-be/internal/pkg/logger"
	"super-rag-be/internal/repository/contract"
	"super-rag-be/pkg/agent/state"
	"super-rag-be/pkg/docstore"
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

func scored(source string, sim float64) *contract.ScoredDocumentChunk {
	return &contract.ScoredDocumentChunk{
		Chunk:      &entity.DocumentChunk{Source: source, Content: "chunk"},
		Similarity: sim,
	}
}

func TestHunterDeduplicatesSourcesPreservingRank(t *testing.T) {
	hits := []*contract.ScoredDocumentChunk{
		scored("hr_policy.txt", 0.95),
		scored("travel.txt", 0.90),
		scored("hr_policy.txt", 0.85),
		scored("benefits.md", 0.80),
	}
	store := &mapStore{docs: map[string]string{
		"hr_policy.txt": "full hr policy text",
		"travel.txt":    "full travel text",
		"benefits.md":   "full benefits text",
	}}
	h := NewHunter(&stubEmbedder{vectors: [][]float32{{0.1}}}, &stubChunkRepo{hits: hits}, store, 10, logger.NopLogger{})
	st := state.New("req-1", "compare hr and travel policy")

	err := h.Run(context.Background(), st)

	assert.NoError(t, err)
	names := make([]string, 0, len(st.RelevantDocuments))
	for _, d := range st.RelevantDocuments {
		names = append(names, d.DocName)
	}
	assert.Equal(t, []string{"hr_policy.txt", "travel.txt", "benefits.md"}, names)
	assert.Equal(t, "full hr policy text", st.RelevantDocuments[0].FullText)
	assert.Equal(t, "hr_policy.txt", st.RelevantDocuments[0].Metadata["source"])
}

func TestHunterSkipsMissingDocuments(t *testing.T) {
	hits := []*contract.ScoredDocumentChunk{
		scored("present.txt", 0.95),
		scored("deleted.txt", 0.90),
	}
	store := &mapStore{docs: map[string]string{"present.txt": "still here"}}
	h := NewHunter(&stubEmbedder{vectors: [][]float32{{0.1}}}, &stubChunkRepo{hits: hits}, store, 10, logger.NopLogger{})
	st := state.New("req-1", "query")

	err := h.Run(context.Background(), st)

	assert.NoError(t, err)
	assert.Len(t, st.RelevantDocuments, 1)
	assert.Equal(t, "present.txt", st.RelevantDocuments[0].DocName)
}

func TestHunterZeroHits(t *testing.T) {
	h := NewHunter(&stubEmbedder{vectors: [][]float32{{0.1}}}, &stubChunkRepo{}, &mapStore{}, 10, logger.NopLogger{})
	st := state.New("req-1", "query")

	err := h.Run(context.Background(), st)

	assert.NoError(t, err)
	assert.Empty(t, st.RelevantDocuments)
}

func TestHunterSearchFailureIsFatal(t *testing.T) {
	h := NewHunter(&stubEmbedder{vectors: [][]float32{{0.1}}}, &stubChunkRepo{err: errors.New("db down")}, &mapStore{}, 10, logger.NopLogger{})
	st := state.New("req-1", "query")

	err := h.Run(context.Background(), st)

	assert.Error(t, err)
}
