package service

import (
	"context"

	"github.com/google/uuid"

	"amplified-be/internal/entity"
	"amplified-be/internal/repository/contract"
	"amplified-be/internal/repository/specification"
	"amplified-be/internal/repository/unitofwork"
	"amplified-be/pkg/events"
)

// In-memory doubles for the unit of work, enough for service-level tests
// that care about what the service writes and in what order.

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUow struct {
	meetings    fakeMeetingRepo
	summaries   fakeSummaryRepo
	actions     fakeActionRepo
	transcripts fakeTranscriptRepo
	chunks      fakeChunkRepo
	prefs       fakePreferenceRepo

	begun      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUow) Begin(ctx context.Context) error { u.begun = true; return nil }
func (u *fakeUow) Commit() error                   { u.committed = true; return nil }
func (u *fakeUow) Rollback() error                 { u.rolledBack = true; return nil }

func (u *fakeUow) MeetingRepository() contract.MeetingRepository { return &u.meetings }
func (u *fakeUow) MeetingSummaryRepository() contract.MeetingSummaryRepository {
	return &u.summaries
}
func (u *fakeUow) MeetingActionRepository() contract.MeetingActionRepository { return &u.actions }
func (u *fakeUow) TranscriptRepository() contract.TranscriptRepository       { return &u.transcripts }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository           { return nil }
func (u *fakeUow) KnowledgeChunkRepository() contract.KnowledgeChunkRepository {
	return &u.chunks
}
func (u *fakeUow) LLMPreferenceRepository() contract.LLMPreferenceRepository { return &u.prefs }
func (u *fakeUow) VoiceProfileRepository() contract.VoiceProfileRepository   { return nil }

type fakeMeetingRepo struct {
	meeting *entity.Meeting
	deleted []uuid.UUID
	updated int
}

func (r *fakeMeetingRepo) Create(ctx context.Context, m *entity.Meeting) error {
	r.meeting = m
	return nil
}

func (r *fakeMeetingRepo) Update(ctx context.Context, m *entity.Meeting) error {
	r.meeting = m
	r.updated++
	return nil
}

func (r *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeMeetingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Meeting, error) {
	return r.meeting, nil
}

func (r *fakeMeetingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meeting, error) {
	if r.meeting == nil {
		return nil, nil
	}
	return []*entity.Meeting{r.meeting}, nil
}

func (r *fakeMeetingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeSummaryRepo struct {
	existing        []*entity.MeetingSummary
	created         []*entity.MeetingSummary
	deletedSessions []int
	deletedMeetings []uuid.UUID
}

func (r *fakeSummaryRepo) Create(ctx context.Context, s *entity.MeetingSummary) error {
	r.created = append(r.created, s)
	return nil
}

func (r *fakeSummaryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingSummary, error) {
	return r.existing, nil
}

func (r *fakeSummaryRepo) DeleteBySession(ctx context.Context, meetingId uuid.UUID, sessionNumber int) error {
	r.deletedSessions = append(r.deletedSessions, sessionNumber)
	return nil
}

func (r *fakeSummaryRepo) DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error {
	r.deletedMeetings = append(r.deletedMeetings, meetingId)
	return nil
}

type fakeActionRepo struct {
	created         []*entity.MeetingAction
	deletedMeetings []uuid.UUID
	affected        int64
}

func (r *fakeActionRepo) Create(ctx context.Context, a *entity.MeetingAction) error {
	r.created = append(r.created, a)
	return nil
}

func (r *fakeActionRepo) CreateBulk(ctx context.Context, actions []*entity.MeetingAction) error {
	r.created = append(r.created, actions...)
	return nil
}

func (r *fakeActionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MeetingAction, error) {
	return nil, nil
}

func (r *fakeActionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingAction, error) {
	return nil, nil
}

func (r *fakeActionRepo) SetStatus(ctx context.Context, actionId, userId uuid.UUID, status entity.ActionStatus) (int64, error) {
	return r.affected, nil
}

func (r *fakeActionRepo) DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error {
	r.deletedMeetings = append(r.deletedMeetings, meetingId)
	return nil
}

type fakeTranscriptRepo struct {
	entries         []*entity.TranscriptEntry
	deletedMeetings []uuid.UUID
}

func (r *fakeTranscriptRepo) Create(ctx context.Context, e *entity.TranscriptEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeTranscriptRepo) CreateBulk(ctx context.Context, entries []*entity.TranscriptEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeTranscriptRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptEntry, error) {
	return r.entries, nil
}

func (r *fakeTranscriptRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *fakeTranscriptRepo) NextSequence(ctx context.Context, meetingId uuid.UUID) (int, error) {
	return len(r.entries) + 1, nil
}

func (r *fakeTranscriptRepo) DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error {
	r.deletedMeetings = append(r.deletedMeetings, meetingId)
	return nil
}

type fakeChunkRepo struct {
	deletedEntities []uuid.UUID
}

func (r *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	return nil
}

func (r *fakeChunkRepo) DeleteByEntityId(ctx context.Context, entityId uuid.UUID) error {
	r.deletedEntities = append(r.deletedEntities, entityId)
	return nil
}

func (r *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error) {
	return nil, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredChunk, error) {
	return nil, nil
}

type fakePreferenceRepo struct {
	pref    *entity.UserLLMPreference
	upserts []*entity.UserLLMPreference
}

func (r *fakePreferenceRepo) Upsert(ctx context.Context, pref *entity.UserLLMPreference) error {
	r.pref = pref
	r.upserts = append(r.upserts, pref)
	return nil
}

func (r *fakePreferenceRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserLLMPreference, error) {
	return r.pref, nil
}

// recordingEventPublisher captures bus events instead of touching NATS.
type recordingEventPublisher struct {
	published []events.Event
}

func (p *recordingEventPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func (p *recordingEventPublisher) types() []string {
	out := make([]string, len(p.published))
	for i, e := range p.published {
		out[i] = e.EventType()
	}
	return out
}
