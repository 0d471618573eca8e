package mapper

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"amplified-be/internal/entity"
	"amplified-be/internal/model"
)

type MeetingMapper struct{}

func NewMeetingMapper() *MeetingMapper {
	return &MeetingMapper{}
}

func (m *MeetingMapper) ToEntity(mt *model.Meeting) *entity.Meeting {
	if mt == nil {
		return nil
	}

	var deletedAt *time.Time
	if mt.DeletedAt.Valid {
		t := mt.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !mt.UpdatedAt.IsZero() {
		t := mt.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	if mt.Tags != "" {
		tags = strings.Split(mt.Tags, ",")
	}

	summaries := make([]*entity.MeetingSummary, len(mt.Summaries))
	for i := range mt.Summaries {
		summaries[i] = m.summaryToEntity(&mt.Summaries[i])
	}
	actions := make([]*entity.MeetingAction, len(mt.Actions))
	for i := range mt.Actions {
		actions[i] = m.actionToEntity(&mt.Actions[i])
	}

	return &entity.Meeting{
		Id:            mt.Id,
		UserId:        mt.UserId,
		Title:         mt.Title,
		Platform:      mt.Platform,
		Tags:          tags,
		SessionNumber: mt.SessionNumber,
		StartTime:     mt.StartTime,
		EndTime:       mt.EndTime,
		CreatedAt:     mt.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     mt.DeletedAt.Valid,
		Summaries:     summaries,
		Actions:       actions,
	}
}

func (m *MeetingMapper) ToModel(mt *entity.Meeting) *model.Meeting {
	if mt == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if mt.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *mt.DeletedAt, Valid: true}
	} else if mt.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if mt.UpdatedAt != nil {
		updatedAt = *mt.UpdatedAt
	}

	return &model.Meeting{
		Id:            mt.Id,
		UserId:        mt.UserId,
		Title:         mt.Title,
		Platform:      mt.Platform,
		Tags:          strings.Join(mt.Tags, ","),
		SessionNumber: mt.SessionNumber,
		StartTime:     mt.StartTime,
		EndTime:       mt.EndTime,
		CreatedAt:     mt.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

func (m *MeetingMapper) ToEntities(meetings []*model.Meeting) []*entity.Meeting {
	entities := make([]*entity.Meeting, len(meetings))
	for i, mt := range meetings {
		entities[i] = m.ToEntity(mt)
	}
	return entities
}

func (m *MeetingMapper) summaryToEntity(s *model.MeetingSummary) *entity.MeetingSummary {
	return &entity.MeetingSummary{
		Id:              s.Id,
		MeetingId:       s.MeetingId,
		SessionNumber:   s.SessionNumber,
		ShortSummary:    s.ShortSummary,
		DetailedSummary: s.DetailedSummary,
		CreatedAt:       s.CreatedAt,
	}
}

func (m *MeetingMapper) SummaryToEntity(s *model.MeetingSummary) *entity.MeetingSummary {
	if s == nil {
		return nil
	}
	return m.summaryToEntity(s)
}

func (m *MeetingMapper) SummaryToModel(s *entity.MeetingSummary) *model.MeetingSummary {
	if s == nil {
		return nil
	}
	return &model.MeetingSummary{
		Id:              s.Id,
		MeetingId:       s.MeetingId,
		SessionNumber:   s.SessionNumber,
		ShortSummary:    s.ShortSummary,
		DetailedSummary: s.DetailedSummary,
		CreatedAt:       s.CreatedAt,
	}
}

func (m *MeetingMapper) actionToEntity(a *model.MeetingAction) *entity.MeetingAction {
	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}
	return &entity.MeetingAction{
		Id:          a.Id,
		MeetingId:   a.MeetingId,
		Description: a.Description,
		Owner:       a.Owner,
		Status:      entity.ActionStatus(a.Status),
		DueDate:     a.DueDate,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *MeetingMapper) ActionToEntity(a *model.MeetingAction) *entity.MeetingAction {
	if a == nil {
		return nil
	}
	return m.actionToEntity(a)
}

func (m *MeetingMapper) ActionToModel(a *entity.MeetingAction) *model.MeetingAction {
	if a == nil {
		return nil
	}
	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}
	return &model.MeetingAction{
		Id:          a.Id,
		MeetingId:   a.MeetingId,
		Description: a.Description,
		Owner:       a.Owner,
		Status:      string(a.Status),
		DueDate:     a.DueDate,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
