package mapper

import (
	"time"

	"amplified-be/internal/entity"
	"amplified-be/internal/model"
)

type PreferenceMapper struct{}

func NewPreferenceMapper() *PreferenceMapper {
	return &PreferenceMapper{}
}

func (m *PreferenceMapper) ToEntity(p *model.UserLLMPreference) *entity.UserLLMPreference {
	if p == nil {
		return nil
	}
	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}
	return &entity.UserLLMPreference{
		Id:        p.Id,
		UserId:    p.UserId,
		Engine:    p.Engine,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *PreferenceMapper) ToModel(p *entity.UserLLMPreference) *model.UserLLMPreference {
	if p == nil {
		return nil
	}
	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}
	return &model.UserLLMPreference{
		Id:        p.Id,
		UserId:    p.UserId,
		Engine:    p.Engine,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *PreferenceMapper) VoiceToEntity(v *model.VoiceProfile) *entity.VoiceProfile {
	if v == nil {
		return nil
	}
	var updatedAt *time.Time
	if !v.UpdatedAt.IsZero() {
		t := v.UpdatedAt
		updatedAt = &t
	}
	return &entity.VoiceProfile{
		Id:          v.Id,
		UserId:      v.UserId,
		DisplayName: v.DisplayName,
		SampleText:  v.SampleText,
		Calibrated:  v.Calibrated,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *PreferenceMapper) VoiceToModel(v *entity.VoiceProfile) *model.VoiceProfile {
	if v == nil {
		return nil
	}
	var updatedAt time.Time
	if v.UpdatedAt != nil {
		updatedAt = *v.UpdatedAt
	}
	return &model.VoiceProfile{
		Id:          v.Id,
		UserId:      v.UserId,
		DisplayName: v.DisplayName,
		SampleText:  v.SampleText,
		Calibrated:  v.Calibrated,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
