package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amplified-be/internal/entity"
	"amplified-be/internal/mapper"
	"amplified-be/internal/model"
	"amplified-be/internal/repository/contract"
	"amplified-be/internal/repository/specification"
)

type MeetingActionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MeetingMapper
}

func NewMeetingActionRepository(db *gorm.DB) contract.MeetingActionRepository {
	return &MeetingActionRepositoryImpl{
		db:     db,
		mapper: mapper.NewMeetingMapper(),
	}
}

func (r *MeetingActionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MeetingActionRepositoryImpl) Create(ctx context.Context, action *entity.MeetingAction) error {
	m := r.mapper.ActionToModel(action)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*action = *r.mapper.ActionToEntity(m)
	return nil
}

func (r *MeetingActionRepositoryImpl) CreateBulk(ctx context.Context, actions []*entity.MeetingAction) error {
	if len(actions) == 0 {
		return nil
	}
	models := make([]*model.MeetingAction, len(actions))
	for i, a := range actions {
		models[i] = r.mapper.ActionToModel(a)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*actions[i] = *r.mapper.ActionToEntity(m)
	}
	return nil
}

func (r *MeetingActionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MeetingAction, error) {
	var m model.MeetingAction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ActionToEntity(&m), nil
}

func (r *MeetingActionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingAction, error) {
	var models []*model.MeetingAction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MeetingAction, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ActionToEntity(m)
	}
	return entities, nil
}

func (r *MeetingActionRepositoryImpl) SetStatus(ctx context.Context, actionId, userId uuid.UUID, status entity.ActionStatus) (int64, error) {
	// Ownership enforced through the meeting row so a user cannot toggle
	// actions on someone else's meeting.
	subQuery := r.db.Table("meetings").Select("id").Where("user_id = ? AND deleted_at IS NULL", userId)
	res := r.db.WithContext(ctx).
		Model(&model.MeetingAction{}).
		Where("id = ?", actionId).
		Where("meeting_id IN (?)", subQuery).
		Update("status", string(status))
	return res.RowsAffected, res.Error
}

func (r *MeetingActionRepositoryImpl) DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingId).Delete(&model.MeetingAction{}).Error
}
