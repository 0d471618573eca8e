package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Meeting struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Platform      string    `gorm:"type:varchar(50)"`
	Tags          string    `gorm:"type:text"` // comma-separated
	SessionNumber int       `gorm:"not null;default:1"`
	StartTime     time.Time `gorm:"not null;index"`
	EndTime       *time.Time
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	// Always loaded by the repository. A Meeting never leaves the
	// persistence layer without both associations materialized.
	Summaries []MeetingSummary `gorm:"foreignKey:MeetingId"`
	Actions   []MeetingAction  `gorm:"foreignKey:MeetingId"`
}

func (Meeting) TableName() string {
	return "meetings"
}

type MeetingSummary struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MeetingId       uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionNumber   int       `gorm:"not null;default:1"`
	ShortSummary    string    `gorm:"type:text;not null"`
	DetailedSummary string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (MeetingSummary) TableName() string {
	return "meeting_summaries"
}

type MeetingAction struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MeetingId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"type:text;not null"`
	Owner       *string   `gorm:"type:varchar(255)"`
	Status      string    `gorm:"type:varchar(20);not null;default:'open';index"`
	DueDate     *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (MeetingAction) TableName() string {
	return "meeting_actions"
}
