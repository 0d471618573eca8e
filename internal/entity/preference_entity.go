package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserLLMPreference struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Engine    string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type VoiceProfile struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	DisplayName string
	SampleText  string
	Calibrated  bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
