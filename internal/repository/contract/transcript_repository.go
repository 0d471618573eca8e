package contract

import (
	"context"

	"github.com/google/uuid"

	"amplified-be/internal/entity"
	"amplified-be/internal/repository/specification"
)

type TranscriptRepository interface {
	Create(ctx context.Context, entry *entity.TranscriptEntry) error
	CreateBulk(ctx context.Context, entries []*entity.TranscriptEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// NextSequence returns the next sequence number for a meeting, starting
	// at 1 on an empty transcript.
	NextSequence(ctx context.Context, meetingId uuid.UUID) (int, error)
	DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error
}
