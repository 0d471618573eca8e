package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"amplified-be/internal/apperror"
	"amplified-be/internal/dto"
	"amplified-be/internal/entity"
	"amplified-be/internal/pkg/logger"
	"amplified-be/internal/repository/specification"
	"amplified-be/internal/repository/unitofwork"
	"amplified-be/pkg/events"
)

// timeNow is swapped in tests.
var timeNow = time.Now

type IMeetingService interface {
	CreateMeeting(ctx context.Context, userId uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error)
	GetMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*dto.MeetingResponse, error)
	ListMeetings(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.MeetingResponse, error)
	UpdateMeeting(ctx context.Context, userId, meetingId uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error)
	DeleteMeeting(ctx context.Context, userId, meetingId uuid.UUID) error
	GetTranscript(ctx context.Context, userId, meetingId uuid.UUID) ([]*dto.TranscriptEntryResponse, error)
	AddAction(ctx context.Context, userId, meetingId uuid.UUID, req *dto.CreateActionRequest) (*dto.MeetingActionResponse, error)
	SetActionStatus(ctx context.Context, userId, actionId uuid.UUID, status string) error

	// Live session operations.
	StartMeeting(ctx context.Context, userId uuid.UUID, title, platform string) (*entity.Meeting, error)
	ContinueMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*entity.Meeting, error)
	EndMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*entity.Meeting, error)
	SaveTranscript(ctx context.Context, entries []*entity.TranscriptEntry) error
	NextSequence(ctx context.Context, meetingId uuid.UUID) (int, error)
}

type meetingService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher IEventPublisher
	logger         logger.ILogger
}

func NewMeetingService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher IEventPublisher,
	log logger.ILogger,
) IMeetingService {
	return &meetingService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *meetingService) CreateMeeting(ctx context.Context, userId uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	meeting := &entity.Meeting{
		Id:            uuid.New(),
		UserId:        userId,
		Title:         req.Title,
		Platform:      req.Platform,
		Tags:          req.Tags,
		SessionNumber: 1,
		StartTime:     timeNow(),
	}
	if err := uow.MeetingRepository().Create(ctx, meeting); err != nil {
		return nil, err
	}

	s.logger.Info("MeetingService", "Meeting created", map[string]interface{}{
		"meeting_id": meeting.Id, "user_id": userId,
	})
	return toMeetingResponse(meeting), nil
}

func (s *meetingService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, meetingId uuid.UUID) (*entity.Meeting, error) {
	meeting, err := uow.MeetingRepository().FindOne(ctx,
		specification.ByID{ID: meetingId},
		specification.MeetingOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, apperror.NotFound("meeting")
	}
	return meeting, nil
}

func (s *meetingService) GetMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*dto.MeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, err := s.findOwned(ctx, uow, userId, meetingId)
	if err != nil {
		return nil, err
	}
	return toMeetingResponse(meeting), nil
}

func (s *meetingService) ListMeetings(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.MeetingResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	meetings, err := uow.MeetingRepository().FindAll(ctx,
		specification.MeetingOwnedByUser{UserID: userId},
		specification.OrderBy{Field: "start_time", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.MeetingResponse, len(meetings))
	for i, m := range meetings {
		responses[i] = toMeetingResponse(m)
	}
	return responses, nil
}

func (s *meetingService) UpdateMeeting(ctx context.Context, userId, meetingId uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, err := s.findOwned(ctx, uow, userId, meetingId)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		meeting.Title = *req.Title
	}
	if req.Platform != nil {
		meeting.Platform = *req.Platform
	}
	if req.Tags != nil {
		meeting.Tags = *req.Tags
	}

	if err := uow.MeetingRepository().Update(ctx, meeting); err != nil {
		return nil, err
	}
	return toMeetingResponse(meeting), nil
}

// DeleteMeeting removes the meeting together with its transcript, summaries,
// actions and index chunks so a knowledge search never cites a deleted
// meeting and no orphan rows survive it.
func (s *meetingService) DeleteMeeting(ctx context.Context, userId, meetingId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, err := s.findOwned(ctx, uow, userId, meetingId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.KnowledgeChunkRepository().DeleteByEntityId(ctx, meeting.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.TranscriptRepository().DeleteByMeetingId(ctx, meeting.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.MeetingSummaryRepository().DeleteByMeetingId(ctx, meeting.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.MeetingActionRepository().DeleteByMeetingId(ctx, meeting.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.MeetingRepository().Delete(ctx, meeting.Id); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (s *meetingService) GetTranscript(ctx context.Context, userId, meetingId uuid.UUID) ([]*dto.TranscriptEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findOwned(ctx, uow, userId, meetingId); err != nil {
		return nil, err
	}

	entries, err := uow.TranscriptRepository().FindAll(ctx,
		specification.ByMeetingID{MeetingID: meetingId},
		specification.OrderBy{Field: "sequence", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TranscriptEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = &dto.TranscriptEntryResponse{
			Id:            e.Id,
			SessionNumber: e.SessionNumber,
			Sequence:      e.Sequence,
			Speaker:       e.Speaker,
			Text:          e.Text,
			SpokenAt:      e.SpokenAt,
		}
	}
	return responses, nil
}

func (s *meetingService) AddAction(ctx context.Context, userId, meetingId uuid.UUID, req *dto.CreateActionRequest) (*dto.MeetingActionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, err := s.findOwned(ctx, uow, userId, meetingId)
	if err != nil {
		return nil, err
	}

	action := &entity.MeetingAction{
		Id:          uuid.New(),
		MeetingId:   meeting.Id,
		Description: req.Description,
		Owner:       req.Owner,
		Status:      entity.ActionStatusOpen,
		DueDate:     req.DueDate,
	}
	if err := uow.MeetingActionRepository().Create(ctx, action); err != nil {
		return nil, err
	}

	return &dto.MeetingActionResponse{
		Id:          action.Id,
		Description: action.Description,
		Owner:       action.Owner,
		Status:      string(action.Status),
		DueDate:     action.DueDate,
		CreatedAt:   action.CreatedAt,
	}, nil
}

func (s *meetingService) SetActionStatus(ctx context.Context, userId, actionId uuid.UUID, status string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.MeetingActionRepository().SetStatus(ctx, actionId, userId, entity.ActionStatus(status))
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotFound("action")
	}
	return nil
}

// StartMeeting opens a brand new meeting as session 1.
func (s *meetingService) StartMeeting(ctx context.Context, userId uuid.UUID, title, platform string) (*entity.Meeting, error) {
	if title == "" {
		title = "Meeting " + timeNow().Format("Jan 2 15:04")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting := &entity.Meeting{
		Id:            uuid.New(),
		UserId:        userId,
		Title:         title,
		Platform:      platform,
		SessionNumber: 1,
		StartTime:     timeNow(),
	}
	if err := uow.MeetingRepository().Create(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// ContinueMeeting reopens an ended meeting as the next session. The number
// increments from the stored one, not from the summary count: a session
// whose summarization failed still happened.
func (s *meetingService) ContinueMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*entity.Meeting, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, err := s.findOwned(ctx, uow, userId, meetingId)
	if err != nil {
		return nil, err
	}
	if meeting.EndTime == nil {
		return nil, apperror.Conflict("meeting is already live")
	}

	meeting.SessionNumber++
	meeting.EndTime = nil
	if err := uow.MeetingRepository().Update(ctx, meeting); err != nil {
		return nil, err
	}

	s.logger.Info("MeetingService", "Meeting continued", map[string]interface{}{
		"meeting_id": meeting.Id, "session_number": meeting.SessionNumber,
	})
	return meeting, nil
}

func (s *meetingService) EndMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*entity.Meeting, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, err := s.findOwned(ctx, uow, userId, meetingId)
	if err != nil {
		return nil, err
	}
	if meeting.EndTime != nil {
		return nil, apperror.Conflict("meeting has already ended")
	}

	now := timeNow()
	meeting.EndTime = &now
	if err := uow.MeetingRepository().Update(ctx, meeting); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewMeetingEnded(meeting.Id.String(), userId.String(), meeting.SessionNumber)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("MeetingService", "Failed to publish MEETING_ENDED event", map[string]interface{}{"error": err.Error()})
		}
	}
	return meeting, nil
}

func (s *meetingService) SaveTranscript(ctx context.Context, entries []*entity.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TranscriptRepository().CreateBulk(ctx, entries)
}

func (s *meetingService) NextSequence(ctx context.Context, meetingId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.TranscriptRepository().NextSequence(ctx, meetingId)
}

// toMeetingResponse maps the eager entity into the wire shape. Summaries and
// actions come out as empty slices, never null.
func toMeetingResponse(m *entity.Meeting) *dto.MeetingResponse {
	summaries := make([]dto.MeetingSummaryResponse, len(m.Summaries))
	for i, s := range m.Summaries {
		summaries[i] = dto.MeetingSummaryResponse{
			Id:              s.Id,
			SessionNumber:   s.SessionNumber,
			ShortSummary:    s.ShortSummary,
			DetailedSummary: s.DetailedSummary,
			CreatedAt:       s.CreatedAt,
		}
	}

	actions := make([]dto.MeetingActionResponse, len(m.Actions))
	for i, a := range m.Actions {
		actions[i] = dto.MeetingActionResponse{
			Id:          a.Id,
			Description: a.Description,
			Owner:       a.Owner,
			Status:      string(a.Status),
			DueDate:     a.DueDate,
			CreatedAt:   a.CreatedAt,
		}
	}

	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}

	return &dto.MeetingResponse{
		Id:            m.Id,
		Title:         m.Title,
		Platform:      m.Platform,
		Tags:          tags,
		Status:        string(m.Status()),
		SessionNumber: m.SessionNumber,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Summaries:     summaries,
		Actions:       actions,
		CreatedAt:     m.CreatedAt,
	}
}
