package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentOwnedByUser struct {
	UserID uuid.UUID
}

func (s DocumentOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("documents.user_id = ?", s.UserID)
}

type ChunkOwnedByUser struct {
	UserID uuid.UUID
}

func (s ChunkOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("knowledge_chunks.user_id = ?", s.UserID)
}

type ByEntityID struct {
	EntityID uuid.UUID
}

func (s ByEntityID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entity_id = ?", s.EntityID)
}
