package entity

import (
	"time"

	"github.com/google/uuid"
)

// QAMemory is one stored question/answer pair in the semantic-memory index.
// The query text is the embedded search key; the answer rides along as payload.
type QAMemory struct {
	Id        uuid.UUID
	Query     string
	Answer    string
	Mode      string
	Embedding []float32
	CreatedAt time.Time
}
