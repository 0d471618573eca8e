package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeetingOwnedByUser struct {
	UserID uuid.UUID
}

func (s MeetingOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("meetings.user_id = ?", s.UserID)
}

type ByMeetingID struct {
	MeetingID uuid.UUID
}

func (s ByMeetingID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("meeting_id = ?", s.MeetingID)
}

type BySessionNumber struct {
	SessionNumber int
}

func (s BySessionNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_number = ?", s.SessionNumber)
}

// LiveOnly keeps meetings without an end time.
type LiveOnly struct{}

func (s LiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_time IS NULL")
}

type ByActionStatus struct {
	Status string
}

func (s ByActionStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
