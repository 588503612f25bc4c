package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type QAMemory struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query     string          `gorm:"type:text;not null"`
	Answer    string          `gorm:"type:text;not null"`
	Mode      string          `gorm:"type:text"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (QAMemory) TableName() string {
	return "qa_memories"
}
