package entity

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus is derived, not stored: a meeting with no EndTime is live.
type MeetingStatus string

const (
	MeetingStatusLive  MeetingStatus = "live"
	MeetingStatusEnded MeetingStatus = "ended"
)

type Meeting struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Title         string
	Platform      string
	Tags          []string
	SessionNumber int
	StartTime     time.Time
	EndTime       *time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool

	Summaries []*MeetingSummary
	Actions   []*MeetingAction
}

func (m *Meeting) Status() MeetingStatus {
	if m.EndTime == nil {
		return MeetingStatusLive
	}
	return MeetingStatusEnded
}

type MeetingSummary struct {
	Id              uuid.UUID
	MeetingId       uuid.UUID
	SessionNumber   int
	ShortSummary    string
	DetailedSummary string
	CreatedAt       time.Time
}

type ActionStatus string

const (
	ActionStatusOpen ActionStatus = "open"
	ActionStatusDone ActionStatus = "done"
)

type MeetingAction struct {
	Id          uuid.UUID
	MeetingId   uuid.UUID
	Description string
	Owner       *string
	Status      ActionStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
