package mapper

import (
	"github.com/pgvector/pgvector-go"

	"super-rag-be/internal/entity"
	"super-rag-be/internal/model"
)

type QAMemoryMapper struct{}

func NewQAMemoryMapper() *QAMemoryMapper {
	return &QAMemoryMapper{}
}

func (m *QAMemoryMapper) ToEntity(q *model.QAMemory) *entity.QAMemory {
	if q == nil {
		return nil
	}
	return &entity.QAMemory{
		Id:        q.Id,
		Query:     q.Query,
		Answer:    q.Answer,
		Mode:      q.Mode,
		Embedding: q.Embedding.Slice(),
		CreatedAt: q.CreatedAt,
	}
}

func (m *QAMemoryMapper) ToModel(q *entity.QAMemory) *model.QAMemory {
	if q == nil {
		return nil
	}
	return &model.QAMemory{
		Id:        q.Id,
		Query:     q.Query,
		Answer:    q.Answer,
		Mode:      q.Mode,
		Embedding: pgvector.NewVector(q.Embedding),
		CreatedAt: q.CreatedAt,
	}
}
