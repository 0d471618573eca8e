package livesession

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amplified-be/internal/dto"
	"amplified-be/internal/entity"
	"amplified-be/internal/pkg/logger"
	"amplified-be/internal/repository/memory"
	"amplified-be/internal/service"
	"amplified-be/pkg/store"
	"amplified-be/pkg/transcript"
)

type fakeMeetingService struct {
	mu      sync.Mutex
	meeting *entity.Meeting
	saved   []*entity.TranscriptEntry
	ended   bool
	nextSeq int

	continueCalled bool
}

func newFakeMeetingService() *fakeMeetingService {
	return &fakeMeetingService{nextSeq: 1}
}

func (f *fakeMeetingService) StartMeeting(ctx context.Context, userId uuid.UUID, title, platform string) (*entity.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meeting = &entity.Meeting{
		Id:            uuid.New(),
		UserId:        userId,
		Title:         title,
		Platform:      platform,
		SessionNumber: 1,
		StartTime:     time.Now(),
	}
	return f.meeting, nil
}

func (f *fakeMeetingService) ContinueMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*entity.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.continueCalled = true
	f.meeting = &entity.Meeting{
		Id:            meetingId,
		UserId:        userId,
		Title:         "Continued",
		SessionNumber: 2,
		StartTime:     time.Now(),
	}
	return f.meeting, nil
}

func (f *fakeMeetingService) EndMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*entity.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = true
	now := time.Now()
	f.meeting.EndTime = &now
	return f.meeting, nil
}

func (f *fakeMeetingService) SaveTranscript(ctx context.Context, entries []*entity.TranscriptEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, entries...)
	return nil
}

func (f *fakeMeetingService) NextSequence(ctx context.Context, meetingId uuid.UUID) (int, error) {
	return f.nextSeq, nil
}

func (f *fakeMeetingService) savedEntries() []*entity.TranscriptEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.TranscriptEntry, len(f.saved))
	copy(out, f.saved)
	return out
}

func (f *fakeMeetingService) CreateMeeting(ctx context.Context, userId uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	return nil, nil
}
func (f *fakeMeetingService) GetMeeting(ctx context.Context, userId, meetingId uuid.UUID) (*dto.MeetingResponse, error) {
	return nil, nil
}
func (f *fakeMeetingService) ListMeetings(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.MeetingResponse, error) {
	return nil, nil
}
func (f *fakeMeetingService) UpdateMeeting(ctx context.Context, userId, meetingId uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error) {
	return nil, nil
}
func (f *fakeMeetingService) DeleteMeeting(ctx context.Context, userId, meetingId uuid.UUID) error {
	return nil
}
func (f *fakeMeetingService) GetTranscript(ctx context.Context, userId, meetingId uuid.UUID) ([]*dto.TranscriptEntryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*dto.TranscriptEntryResponse, 0, len(f.saved))
	for _, e := range f.saved {
		out = append(out, &dto.TranscriptEntryResponse{
			Id:            e.Id,
			SessionNumber: e.SessionNumber,
			Sequence:      e.Sequence,
			Speaker:       e.Speaker,
			Text:          e.Text,
			SpokenAt:      e.SpokenAt,
		})
	}
	return out, nil
}
func (f *fakeMeetingService) AddAction(ctx context.Context, userId, meetingId uuid.UUID, req *dto.CreateActionRequest) (*dto.MeetingActionResponse, error) {
	return nil, nil
}
func (f *fakeMeetingService) SetActionStatus(ctx context.Context, userId, actionId uuid.UUID, status string) error {
	return nil
}

type fakeSuggestionService struct {
	mu         sync.Mutex
	suggestReq *service.SuggestRequest
	summarized string
	failSumm   bool
}

func (f *fakeSuggestionService) Suggest(ctx context.Context, userId uuid.UUID, req service.SuggestRequest) (*dto.SuggestionResponse, error) {
	f.mu.Lock()
	f.suggestReq = &req
	f.mu.Unlock()
	return &dto.SuggestionResponse{
		Question: req.Question,
		Text:     "Mention the migration project.",
		Engine:   "openai_gpt4o",
	}, nil
}

func (f *fakeSuggestionService) AskMeeting(ctx context.Context, userId, meetingId uuid.UUID, question string) (*dto.SuggestionResponse, error) {
	return &dto.SuggestionResponse{Question: question, Text: "answer", Engine: "openai_gpt4o"}, nil
}

func (f *fakeSuggestionService) GenerateSummary(ctx context.Context, userId, meetingId uuid.UUID) (*service.SummaryResult, error) {
	return f.Summarize(ctx, userId, meetingId, 1, "regenerated")
}

func (f *fakeSuggestionService) Summarize(ctx context.Context, userId, meetingId uuid.UUID, sessionNumber int, transcript string) (*service.SummaryResult, error) {
	f.mu.Lock()
	f.summarized = transcript
	fail := f.failSumm
	f.mu.Unlock()
	if fail {
		return nil, assert.AnError
	}
	return &service.SummaryResult{
		Summary: &entity.MeetingSummary{
			Id:              uuid.New(),
			MeetingId:       meetingId,
			SessionNumber:   sessionNumber,
			ShortSummary:    "- talked about things",
			DetailedSummary: "A long discussion.",
		},
		Actions: []*entity.MeetingAction{
			{Id: uuid.New(), Description: "Send the deck", Status: entity.ActionStatusOpen},
		},
	}, nil
}

type eventCollector struct {
	mu     sync.Mutex
	events []dto.WsEvent
}

func (c *eventCollector) send(e dto.WsEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *eventCollector) ofType(t string) []dto.WsEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []dto.WsEvent
	for _, e := range c.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (c *eventCollector) has(t string) bool {
	return len(c.ofType(t)) > 0
}

func newTestManager(t *testing.T) (*Manager, *fakeMeetingService, *fakeSuggestionService, *eventCollector) {
	t.Helper()
	meetings := newFakeMeetingService()
	suggestions := &fakeSuggestionService{}
	collector := &eventCollector{}
	m := NewManager(
		uuid.New(),
		"",
		meetings,
		suggestions,
		memory.NewLiveSessionRepository(),
		logger.NewIsolatedLogger(t.TempDir()+"/test.log"),
		collector.send,
	)
	return m, meetings, suggestions, collector
}

func command(t *testing.T, name string, payload interface{}) dto.WsCommand {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = data
	}
	return dto.WsCommand{Command: name, Payload: raw}
}

func startListening(t *testing.T, m *Manager) {
	t.Helper()
	m.Handle(context.Background(), command(t, dto.CmdStartListening, dto.StartListeningPayload{
		Title:   "Standup",
		Speaker: "You",
	}))
}

func fragment(t *testing.T, m *Manager, speaker, text string, final bool) {
	t.Helper()
	m.Handle(context.Background(), command(t, dto.CmdTranscriptFragment, dto.TranscriptFragmentPayload{
		Speaker: speaker,
		Text:    text,
		Final:   final,
	}))
}

func TestStartListeningCreatesMeeting(t *testing.T) {
	m, meetings, _, collector := newTestManager(t)

	startListening(t, m)

	require.True(t, collector.has(dto.EventMeetingCreated))
	require.True(t, collector.has(dto.EventConnectionStatus))
	require.NotNil(t, meetings.meeting)
	assert.Equal(t, "Standup", meetings.meeting.Title)
	assert.Equal(t, store.StateListening, m.state)
}

func TestStartListeningWithMeetingIdContinues(t *testing.T) {
	m, meetings, _, collector := newTestManager(t)

	existing := uuid.New()
	m.Handle(context.Background(), command(t, dto.CmdStartListening, dto.StartListeningPayload{
		MeetingId: existing.String(),
	}))

	assert.True(t, meetings.continueCalled)
	assert.True(t, collector.has(dto.EventMeetingContinued))
	assert.False(t, collector.has(dto.EventMeetingCreated))
	assert.Equal(t, 2, m.sessionNumber)
}

func TestStartListeningTwiceRejected(t *testing.T) {
	m, _, _, collector := newTestManager(t)

	startListening(t, m)
	startListening(t, m)

	require.True(t, collector.has(dto.EventError))
}

func TestFragmentBeforeStartRejected(t *testing.T) {
	m, _, _, collector := newTestManager(t)

	fragment(t, m, "You", "hello", true)

	assert.True(t, collector.has(dto.EventError))
	assert.False(t, collector.has(dto.EventTranscriptUpdate))
}

func TestTranscriptUpdateEmitted(t *testing.T) {
	m, _, _, collector := newTestManager(t)
	startListening(t, m)

	fragment(t, m, "You", "good morning everyone", true)

	updates := collector.ofType(dto.EventTranscriptUpdate)
	require.Len(t, updates, 1)
}

func TestOwnSpeechProducesCoachingMetrics(t *testing.T) {
	m, _, _, collector := newTestManager(t)
	startListening(t, m)

	fragment(t, m, "You", "um so I think we should, you know, ship it", true)
	fragment(t, m, "Alice", "sounds risky to me", true)

	// Only the caller's speech is coached.
	metrics := collector.ofType(dto.EventCoachingMetrics)
	require.Len(t, metrics, 1)
}

func TestInterimSpeechCoachedImmediately(t *testing.T) {
	m, _, _, collector := newTestManager(t)
	startListening(t, m)

	fragment(t, m, "You", "um so I", false)
	fragment(t, m, "You", "um so I think we", false)

	// Feedback arrives with the interim, not with the confirming final.
	metrics := collector.ofType(dto.EventCoachingMetrics)
	require.Len(t, metrics, 2)
	latest := metrics[1].Payload.(transcript.Metrics)
	assert.Equal(t, 1, latest.FillerTotal)
}

func TestInterimsSupersededByFinalCountOnce(t *testing.T) {
	m, _, _, collector := newTestManager(t)
	startListening(t, m)

	fragment(t, m, "You", "um so I", false)
	fragment(t, m, "You", "um so I think we", false)
	fragment(t, m, "You", "um so I think we should ship", true)

	metrics := collector.ofType(dto.EventCoachingMetrics)
	require.Len(t, metrics, 3)
	final := metrics[2].Payload.(transcript.Metrics)
	// The growing hypothesis and its final count as one utterance: seven
	// words once, not the sum of all three hypotheses.
	assert.Equal(t, 1, final.FillerTotal)
	assert.InDelta(t, 7*6, final.WPM, 0.01)
}

func TestVoiceProfileLabelsDefaultSpeaker(t *testing.T) {
	meetings := newFakeMeetingService()
	collector := &eventCollector{}
	m := NewManager(
		uuid.New(),
		"Dana",
		meetings,
		&fakeSuggestionService{},
		memory.NewLiveSessionRepository(),
		logger.NewIsolatedLogger(t.TempDir()+"/test.log"),
		collector.send,
	)
	m.Handle(context.Background(), command(t, dto.CmdStartListening, dto.StartListeningPayload{Title: "1:1"}))

	// Unlabeled fragments are attributed to the profile's display name.
	fragment(t, m, "", "um let me think", true)

	assert.Equal(t, "Dana", m.speaker)
	require.True(t, collector.has(dto.EventCoachingMetrics))
	entries := m.pipeline.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Dana", entries[0].Speaker)
}

func TestQuestionFromOtherSpeakerBuffered(t *testing.T) {
	m, _, suggestions, collector := newTestManager(t)
	startListening(t, m)

	fragment(t, m, "Interviewer", "Can you describe your last project?", true)
	require.Len(t, m.pendingQuestions, 1)

	m.Handle(context.Background(), command(t, dto.CmdGenerateSuggestion, nil))

	require.True(t, collector.has(dto.EventSuggestionPending))
	assert.Eventually(t, func() bool {
		return collector.has(dto.EventSuggestion)
	}, 2*time.Second, 10*time.Millisecond)

	suggestions.mu.Lock()
	defer suggestions.mu.Unlock()
	require.NotNil(t, suggestions.suggestReq)
	assert.Equal(t, "Can you describe your last project?", suggestions.suggestReq.Question)
	assert.Empty(t, m.pendingQuestions)
}

func TestOwnQuestionNotBuffered(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	startListening(t, m)

	fragment(t, m, "You", "Should we ship on Friday?", true)

	assert.Empty(t, m.pendingQuestions)
}

func TestGenerateSuggestionWithoutQuestionRejected(t *testing.T) {
	m, _, _, collector := newTestManager(t)
	startListening(t, m)

	m.Handle(context.Background(), command(t, dto.CmdGenerateSuggestion, nil))

	assert.True(t, collector.has(dto.EventError))
	assert.False(t, collector.has(dto.EventSuggestionPending))
}

func TestPausedSessionDropsFragments(t *testing.T) {
	m, _, _, collector := newTestManager(t)
	startListening(t, m)

	m.Handle(context.Background(), command(t, dto.CmdStopListening, nil))
	before := len(collector.ofType(dto.EventTranscriptUpdate))

	fragment(t, m, "You", "this should be ignored", true)

	assert.Equal(t, before, len(collector.ofType(dto.EventTranscriptUpdate)))
	assert.Equal(t, store.StatePaused, m.state)

	m.Handle(context.Background(), command(t, dto.CmdResumeListening, nil))
	assert.Equal(t, store.StateListening, m.state)
}

func TestEndMeetingFlushesAndSummarizes(t *testing.T) {
	m, meetings, _, collector := newTestManager(t)
	startListening(t, m)

	fragment(t, m, "You", "first point", true)
	// A second speaker closes the first entry.
	fragment(t, m, "Alice", "second point", true)

	m.Handle(context.Background(), command(t, dto.CmdEndMeeting, nil))

	require.True(t, meetings.ended)
	saved := meetings.savedEntries()
	require.Len(t, saved, 2)
	assert.Equal(t, 1, saved[0].Sequence)
	assert.Equal(t, 2, saved[1].Sequence)
	assert.Equal(t, "You", saved[0].Speaker)
	assert.Equal(t, "Alice", saved[1].Speaker)

	assert.Eventually(t, func() bool {
		return collector.has(dto.EventMeetingSummary)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, store.StateEnded, m.state)
}

func TestSummaryFailureIsRetryable(t *testing.T) {
	m, _, suggestions, collector := newTestManager(t)
	suggestions.failSumm = true
	startListening(t, m)
	fragment(t, m, "You", "quick chat", true)

	m.Handle(context.Background(), command(t, dto.CmdEndMeeting, nil))

	require.Eventually(t, func() bool {
		return collector.has(dto.EventSummaryFailed)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, store.StateEnded, m.state)

	suggestions.mu.Lock()
	suggestions.failSumm = false
	suggestions.mu.Unlock()

	m.Handle(context.Background(), command(t, dto.CmdRetrySummary, nil))
	assert.Eventually(t, func() bool {
		return collector.has(dto.EventMeetingSummary)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStallPhrasesRotate(t *testing.T) {
	m, _, _, collector := newTestManager(t)

	m.Handle(context.Background(), command(t, dto.CmdGetStallPhrase, nil))
	m.Handle(context.Background(), command(t, dto.CmdGetStallPhrase, nil))

	phrases := collector.ofType(dto.EventStallPhrase)
	require.Len(t, phrases, 2)
	first := phrases[0].Payload.(map[string]interface{})["text"]
	second := phrases[1].Payload.(map[string]interface{})["text"]
	assert.NotEqual(t, first, second)
}

func TestSetInterviewModeAndSilenceTrigger(t *testing.T) {
	m, _, _, collector := newTestManager(t)
	startListening(t, m)

	m.Handle(context.Background(), command(t, dto.CmdSetInterviewMode, dto.SetInterviewModePayload{Enabled: true}))
	assert.True(t, m.interviewMode)

	fragment(t, m, "Interviewer", "What are your strengths?", true)
	require.NotNil(t, m.silenceTimer)

	// No waiting on the real 3s debounce, fire the trigger directly.
	m.mu.Lock()
	m.triggerSuggestion(m.pendingQuestions[len(m.pendingQuestions)-1])
	m.pendingQuestions = nil
	m.mu.Unlock()

	assert.Eventually(t, func() bool {
		return collector.has(dto.EventSuggestion)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUpdateContextFlowsIntoSuggestion(t *testing.T) {
	m, _, suggestions, collector := newTestManager(t)
	startListening(t, m)

	m.Handle(context.Background(), command(t, dto.CmdUpdateContext, dto.UpdateContextPayload{
		Context: "Role: staff engineer at Acme",
	}))
	m.Handle(context.Background(), command(t, dto.CmdGenerateSuggestion, dto.GenerateSuggestionPayload{
		Question: "Why do you want this job?",
	}))

	require.Eventually(t, func() bool {
		return collector.has(dto.EventSuggestion)
	}, 2*time.Second, 10*time.Millisecond)

	suggestions.mu.Lock()
	defer suggestions.mu.Unlock()
	assert.Contains(t, suggestions.suggestReq.ExtraContext, "staff engineer at Acme")
}

func TestUnknownCommandReported(t *testing.T) {
	m, _, _, collector := newTestManager(t)

	m.Handle(context.Background(), dto.WsCommand{Command: "do_magic"})

	require.True(t, collector.has(dto.EventError))
}

func TestCloseFlushesOpenTranscript(t *testing.T) {
	m, meetings, _, _ := newTestManager(t)
	startListening(t, m)
	fragment(t, m, "You", "still talking", true)

	m.Close()

	saved := meetings.savedEntries()
	require.Len(t, saved, 1)
	assert.Equal(t, "still talking", saved[0].Text)
}
