package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amplified-be/internal/entity"
	"amplified-be/internal/mapper"
	"amplified-be/internal/model"
	"amplified-be/internal/repository/contract"
	"amplified-be/internal/repository/specification"
)

type MeetingSummaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MeetingMapper
}

func NewMeetingSummaryRepository(db *gorm.DB) contract.MeetingSummaryRepository {
	return &MeetingSummaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewMeetingMapper(),
	}
}

func (r *MeetingSummaryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MeetingSummaryRepositoryImpl) Create(ctx context.Context, summary *entity.MeetingSummary) error {
	m := r.mapper.SummaryToModel(summary)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*summary = *r.mapper.SummaryToEntity(m)
	return nil
}

func (r *MeetingSummaryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingSummary, error) {
	var models []*model.MeetingSummary
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MeetingSummary, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SummaryToEntity(m)
	}
	return entities, nil
}

func (r *MeetingSummaryRepositoryImpl) DeleteBySession(ctx context.Context, meetingId uuid.UUID, sessionNumber int) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ? AND session_number = ?", meetingId, sessionNumber).
		Delete(&model.MeetingSummary{}).Error
}

func (r *MeetingSummaryRepositoryImpl) DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingId).Delete(&model.MeetingSummary{}).Error
}
