package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one embedded slice of a source document in the chunk index.
type DocumentChunk struct {
	Id         uuid.UUID
	Source     string
	ChunkIndex int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}
