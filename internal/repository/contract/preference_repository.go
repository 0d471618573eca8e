package contract

import (
	"context"

	"github.com/google/uuid"

	"amplified-be/internal/entity"
)

type LLMPreferenceRepository interface {
	// Upsert replaces the user's single preference row.
	Upsert(ctx context.Context, pref *entity.UserLLMPreference) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserLLMPreference, error)
}

type VoiceProfileRepository interface {
	Upsert(ctx context.Context, profile *entity.VoiceProfile) error
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.VoiceProfile, error)
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
}
