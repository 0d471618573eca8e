package mapper

import (
	"amplified-be/internal/entity"
	"amplified-be/internal/model"
)

type TranscriptMapper struct{}

func NewTranscriptMapper() *TranscriptMapper {
	return &TranscriptMapper{}
}

func (m *TranscriptMapper) ToEntity(t *model.TranscriptEntry) *entity.TranscriptEntry {
	if t == nil {
		return nil
	}
	return &entity.TranscriptEntry{
		Id:            t.Id,
		MeetingId:     t.MeetingId,
		SessionNumber: t.SessionNumber,
		Sequence:      t.Sequence,
		Speaker:       t.Speaker,
		Text:          t.Text,
		SpokenAt:      t.SpokenAt,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *TranscriptMapper) ToModel(t *entity.TranscriptEntry) *model.TranscriptEntry {
	if t == nil {
		return nil
	}
	return &model.TranscriptEntry{
		Id:            t.Id,
		MeetingId:     t.MeetingId,
		SessionNumber: t.SessionNumber,
		Sequence:      t.Sequence,
		Speaker:       t.Speaker,
		Text:          t.Text,
		SpokenAt:      t.SpokenAt,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *TranscriptMapper) ToEntities(entries []*model.TranscriptEntry) []*entity.TranscriptEntry {
	entities := make([]*entity.TranscriptEntry, len(entries))
	for i, t := range entries {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

func (m *TranscriptMapper) ToModels(entries []*entity.TranscriptEntry) []*model.TranscriptEntry {
	models := make([]*model.TranscriptEntry, len(entries))
	for i, t := range entries {
		models[i] = m.ToModel(t)
	}
	return models
}
