package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeChunk is one embedded slice of a source entity (document, meeting
// or test suite). Chunks for an entity are replaced wholesale on re-index,
// never updated in place, and are deleted with their source so the index
// holds no orphans.
type KnowledgeChunk struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityId    uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntityType  string          `gorm:"type:varchar(30);not null;index"`
	UserId      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceTitle string          `gorm:"type:varchar(255);not null"`
	ChunkIndex  int             `gorm:"not null"`
	Content     string          `gorm:"type:text;not null"`
	Embedding   pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
