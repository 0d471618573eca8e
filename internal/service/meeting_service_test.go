package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amplified-be/internal/apperror"
	"amplified-be/internal/entity"
	"amplified-be/internal/pkg/logger"
	"amplified-be/pkg/events"
)

func newMeetingServiceForTest(t *testing.T, uow *fakeUow, bus IEventPublisher) IMeetingService {
	t.Helper()
	return NewMeetingService(
		&fakeUowFactory{uow: uow},
		bus,
		logger.NewIsolatedLogger(t.TempDir()+"/test.log"),
	)
}

func endedMeeting(userId uuid.UUID, session int) *entity.Meeting {
	ended := time.Now().Add(-time.Hour)
	return &entity.Meeting{
		Id:            uuid.New(),
		UserId:        userId,
		Title:         "Weekly sync",
		SessionNumber: session,
		StartTime:     time.Now().Add(-2 * time.Hour),
		EndTime:       &ended,
	}
}

func TestContinueMeetingIncrementsStoredSessionNumber(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{}
	uow.meetings.meeting = endedMeeting(userId, 1)

	svc := newMeetingServiceForTest(t, uow, nil)

	// No summary was ever written for session 1, the next session must
	// still be 2, not a repeat of 1.
	meeting, err := svc.ContinueMeeting(context.Background(), userId, uow.meetings.meeting.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, meeting.SessionNumber)
	assert.Nil(t, meeting.EndTime)

	now := time.Now()
	meeting.EndTime = &now

	meeting, err = svc.ContinueMeeting(context.Background(), userId, meeting.Id)
	require.NoError(t, err)
	assert.Equal(t, 3, meeting.SessionNumber)
}

func TestContinueMeetingConflictsWhileLive(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{}
	live := endedMeeting(userId, 1)
	live.EndTime = nil
	uow.meetings.meeting = live

	svc := newMeetingServiceForTest(t, uow, nil)

	_, err := svc.ContinueMeeting(context.Background(), userId, live.Id)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Zero(t, uow.meetings.updated)
}

func TestDeleteMeetingCascadesEverything(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{}
	uow.meetings.meeting = endedMeeting(userId, 2)
	meetingId := uow.meetings.meeting.Id

	svc := newMeetingServiceForTest(t, uow, nil)

	require.NoError(t, svc.DeleteMeeting(context.Background(), userId, meetingId))

	assert.Equal(t, []uuid.UUID{meetingId}, uow.chunks.deletedEntities)
	assert.Equal(t, []uuid.UUID{meetingId}, uow.transcripts.deletedMeetings)
	assert.Equal(t, []uuid.UUID{meetingId}, uow.summaries.deletedMeetings)
	assert.Equal(t, []uuid.UUID{meetingId}, uow.actions.deletedMeetings)
	assert.Equal(t, []uuid.UUID{meetingId}, uow.meetings.deleted)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
}

func TestEndMeetingPublishesMeetingEnded(t *testing.T) {
	userId := uuid.New()
	uow := &fakeUow{}
	live := endedMeeting(userId, 1)
	live.EndTime = nil
	uow.meetings.meeting = live

	bus := &recordingEventPublisher{}
	svc := newMeetingServiceForTest(t, uow, bus)

	meeting, err := svc.EndMeeting(context.Background(), userId, live.Id)
	require.NoError(t, err)
	require.NotNil(t, meeting.EndTime)
	assert.Equal(t, []string{events.TypeMeetingEnded}, bus.types())
}
