package entity

import (
	"time"

	"github.com/google/uuid"
)

// Artifact kinds carried by the knowledge index. Chunks reference their
// source through (EntityId, EntityType); only entities are addressable by
// callers, never individual chunks.
const (
	EntityTypeDocument  = "document"
	EntityTypeMeeting   = "meeting"
	EntityTypeTestSuite = "test_suite"
)

type Document struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Source    string
	Content   string
	IndexedAt *time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
	IsDeleted bool
}

type KnowledgeChunk struct {
	Id          uuid.UUID
	EntityId    uuid.UUID
	EntityType  string
	UserId      uuid.UUID
	SourceTitle string
	ChunkIndex  int
	Content     string
	Embedding   []float32
	CreatedAt   time.Time
}
