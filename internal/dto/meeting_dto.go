package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMeetingRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=255"`
	Platform string   `json:"platform" validate:"omitempty,max=50"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=50"`
}

type UpdateMeetingRequest struct {
	Title    *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Platform *string   `json:"platform" validate:"omitempty,max=50"`
	Tags     *[]string `json:"tags" validate:"omitempty,dive,max=50"`
}

type MeetingSummaryResponse struct {
	Id              uuid.UUID `json:"id"`
	SessionNumber   int       `json:"session_number"`
	ShortSummary    string    `json:"short_summary"`
	DetailedSummary string    `json:"detailed_summary"`
	CreatedAt       time.Time `json:"created_at"`
}

type MeetingActionResponse struct {
	Id          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Owner       *string    `json:"owner"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MeetingResponse is the one shape for meeting reads. Summaries and actions
// are always present, empty slices when the meeting has none.
type MeetingResponse struct {
	Id            uuid.UUID                `json:"id"`
	Title         string                   `json:"title"`
	Platform      string                   `json:"platform"`
	Tags          []string                 `json:"tags"`
	Status        string                   `json:"status"`
	SessionNumber int                      `json:"session_number"`
	StartTime     time.Time                `json:"start_time"`
	EndTime       *time.Time               `json:"end_time"`
	Summaries     []MeetingSummaryResponse `json:"summaries"`
	Actions       []MeetingActionResponse  `json:"actions"`
	CreatedAt     time.Time                `json:"created_at"`
}

type ListMeetingsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

type SetActionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open done"`
}

type CreateActionRequest struct {
	Description string     `json:"description" validate:"required,min=1,max=500"`
	Owner       *string    `json:"owner" validate:"omitempty,max=100"`
	DueDate     *time.Time `json:"due_date"`
}

type AskMeetingRequest struct {
	Question string `json:"question" validate:"required,min=1"`
}

type TranscriptEntryResponse struct {
	Id            uuid.UUID `json:"id"`
	SessionNumber int       `json:"session_number"`
	Sequence      int       `json:"sequence"`
	Speaker       string    `json:"speaker"`
	Text          string    `json:"text"`
	SpokenAt      time.Time `json:"spoken_at"`
}
