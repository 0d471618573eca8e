package model

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptEntry struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MeetingId     uuid.UUID `gorm:"type:uuid;not null;index:idx_transcript_meeting_seq,priority:1"`
	SessionNumber int       `gorm:"not null;default:1"`
	Sequence      int       `gorm:"not null;index:idx_transcript_meeting_seq,priority:2"`
	Speaker       string    `gorm:"type:varchar(255);not null"`
	Text          string    `gorm:"type:text;not null"`
	SpokenAt      time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (TranscriptEntry) TableName() string {
	return "transcript_entries"
}
