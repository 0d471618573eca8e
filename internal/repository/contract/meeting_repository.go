package contract

import (
	"context"

	"github.com/google/uuid"

	"amplified-be/internal/entity"
	"amplified-be/internal/repository/specification"
)

// MeetingRepository is the only read path for meetings. Every FindOne and
// FindAll loads Summaries and Actions together with the row, so a single
// meeting read and a list read always return the same shape.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entity.Meeting) error
	Update(ctx context.Context, meeting *entity.Meeting) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Meeting, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meeting, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type MeetingSummaryRepository interface {
	Create(ctx context.Context, summary *entity.MeetingSummary) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingSummary, error)
	// DeleteBySession removes one session's summary so regenerating it
	// replaces rather than duplicates.
	DeleteBySession(ctx context.Context, meetingId uuid.UUID, sessionNumber int) error
	DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error
}

type MeetingActionRepository interface {
	Create(ctx context.Context, action *entity.MeetingAction) error
	CreateBulk(ctx context.Context, actions []*entity.MeetingAction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MeetingAction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingAction, error)
	// SetStatus updates the action only when its meeting belongs to userId.
	// Returns the number of rows touched so callers can distinguish a
	// missing action from a foreign one.
	SetStatus(ctx context.Context, actionId, userId uuid.UUID, status entity.ActionStatus) (int64, error)
	DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error
}
