package model

import (
	"time"

	"github.com/google/uuid"
)

// UserLLMPreference records the engine a user last committed to. At most one
// row per user; selection overwrites, it never appends.
type UserLLMPreference struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Engine    string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserLLMPreference) TableName() string {
	return "user_llm_preferences"
}

type VoiceProfile struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DisplayName string    `gorm:"type:varchar(255)"`
	SampleText  string    `gorm:"type:text"`
	Calibrated  bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (VoiceProfile) TableName() string {
	return "voice_profiles"
}
