package implementation

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"super-rag-be/internal/entity"
	"super-rag-be/internal/mapper"
	"super-rag-be/internal/model"
	"super-rag-be/internal/repository/contract"
)

type QAMemoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QAMemoryMapper
}

func NewQAMemoryRepository(db *gorm.DB) contract.QAMemoryRepository {
	return &QAMemoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewQAMemoryMapper(),
	}
}

func (r *QAMemoryRepositoryImpl) Create(ctx context.Context, pair *entity.QAMemory) error {
	m := r.mapper.ToModel(pair)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*pair = *r.mapper.ToEntity(m)
	return nil
}

func (r *QAMemoryRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredQAMemory, error) {
	if limit <= 0 {
		limit = 1
	}

	type result struct {
		model.QAMemory
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("qa_memories").
		Select("qa_memories.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredQAMemory, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredQAMemory{
			Pair:       r.mapper.ToEntity(&res.QAMemory),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
