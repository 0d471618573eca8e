package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Source  string `json:"source" validate:"omitempty,max=50"`
	Content string `json:"content" validate:"required,min=1"`
}

type DocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Source    string     `json:"source"`
	IndexedAt *time.Time `json:"indexed_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// PublishIndexMessage rides the async indexing topic. The consumer loads
// the entity's text by type, so the payload stays a bare reference.
type PublishIndexMessage struct {
	EntityId   uuid.UUID `json:"entity_id"`
	EntityType string    `json:"entity_type"`
}

type SearchKnowledgeRequest struct {
	Query string `query:"q" validate:"required,min=1"`
	TopK  int    `query:"top_k" validate:"omitempty,min=1,max=20"`
}

type KnowledgeMatchResponse struct {
	EntityId    uuid.UUID `json:"entity_id"`
	EntityType  string    `json:"entity_type"`
	SourceTitle string    `json:"source_title"`
	Excerpt     string    `json:"excerpt"`
	Similarity  float64   `json:"similarity"`
}
