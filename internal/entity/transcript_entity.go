package entity

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptEntry struct {
	Id            uuid.UUID
	MeetingId     uuid.UUID
	SessionNumber int
	Sequence      int
	Speaker       string
	Text          string
	SpokenAt      time.Time
	CreatedAt     time.Time
}
