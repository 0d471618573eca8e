package livesession

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"amplified-be/internal/constant"
	"amplified-be/internal/dto"
	"amplified-be/internal/entity"
	"amplified-be/internal/pkg/logger"
	"amplified-be/internal/repository/memory"
	"amplified-be/internal/service"
	"amplified-be/pkg/store"
	"amplified-be/pkg/transcript"
)

const (
	// silenceDebounce is how long the room must stay quiet after a
	// question before interview mode answers it unprompted.
	silenceDebounce = 3 * time.Second

	// persistBatchSize is how many closed transcript entries accumulate
	// before they are written through to the database.
	persistBatchSize = 10

	// maxPendingQuestions bounds the questions buffered from other
	// speakers, oldest discarded first.
	maxPendingQuestions = 10

	ingestBufferSize = 64
)

var timeNow = time.Now

// Manager owns the state of one live socket connection: the transcript
// pipeline, coaching metrics, the question buffer and the meeting the
// connection is bound to. Commands arrive serialized from the socket read
// loop; the mutex exists for the silence timer and the async suggestion and
// summary goroutines, which fire on their own.
type Manager struct {
	connID string
	userID uuid.UUID

	meetingService    service.IMeetingService
	suggestionService service.ISuggestionService
	registry          *memory.LiveSessionRepository
	logger            logger.ILogger
	send              func(dto.WsEvent)

	mu sync.Mutex

	state          string
	meetingID      uuid.UUID
	sessionNumber  int
	speaker        string // the caller's own label in the transcript
	defaultSpeaker string // from the voice profile, resolved at connect
	interviewMode bool
	extraContext  string
	startedAt     time.Time

	buffer   *transcript.Buffer
	pipeline *transcript.Pipeline
	coach    *transcript.Coach

	// prevLast is the newest durable entry. It stays open for merging
	// until a newer entry supersedes it, only then is it queued for
	// persistence.
	prevLast     *transcript.Entry
	persistQueue []*entity.TranscriptEntry
	nextSeq      int

	pendingQuestions []string
	stallIdx         int

	silenceTimer  *time.Timer
	suggestCancel context.CancelFunc

	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewManager binds a session manager to one connection. defaultSpeaker is
// the caller's voice-profile display name, empty when none exists.
func NewManager(
	userID uuid.UUID,
	defaultSpeaker string,
	meetingService service.IMeetingService,
	suggestionService service.ISuggestionService,
	registry *memory.LiveSessionRepository,
	log logger.ILogger,
	send func(dto.WsEvent),
) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		connID:            uuid.NewString(),
		userID:            userID,
		defaultSpeaker:    defaultSpeaker,
		meetingService:    meetingService,
		suggestionService: suggestionService,
		registry:          registry,
		logger:            log,
		send:              send,
		state:             store.StateIdle,
		buffer:            transcript.NewBuffer(ingestBufferSize),
		pipeline:          transcript.NewPipeline(),
		coach:             transcript.NewCoach(),
		baseCtx:           ctx,
		cancel:            cancel,
	}
}

// Handle dispatches one client command. The socket read loop calls it one
// command at a time.
func (m *Manager) Handle(ctx context.Context, cmd dto.WsCommand) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch cmd.Command {
	case dto.CmdStartListening:
		m.handleStartListening(ctx, cmd.Payload)
	case dto.CmdStopListening:
		m.handleStopListening(ctx)
	case dto.CmdResumeListening:
		m.handleResumeListening()
	case dto.CmdEndMeeting:
		m.handleEndMeeting(ctx)
	case dto.CmdTranscriptFragment:
		m.handleTranscriptFragment(ctx, cmd.Payload)
	case dto.CmdGenerateSuggestion:
		m.handleGenerateSuggestion(cmd.Payload)
	case dto.CmdGetStallPhrase:
		m.handleGetStallPhrase()
	case dto.CmdSetInterviewMode:
		m.handleSetInterviewMode(cmd.Payload)
	case dto.CmdUpdateContext:
		m.handleUpdateContext(cmd.Payload)
	case dto.CmdRetrySummary:
		m.handleRetrySummary()
	default:
		m.sendError(fmt.Sprintf("unknown command %q", cmd.Command))
	}
}

func (m *Manager) handleStartListening(ctx context.Context, raw json.RawMessage) {
	if m.state == store.StateListening {
		m.sendError("already listening")
		return
	}
	if m.state == store.StateEnded {
		m.sendError("meeting has ended, open a new connection to start another")
		return
	}

	var payload dto.StartListeningPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			m.sendError("invalid start_listening payload")
			return
		}
	}
	if payload.Speaker == "" {
		payload.Speaker = m.defaultSpeaker
	}
	if payload.Speaker == "" {
		payload.Speaker = "You"
	}

	var meeting *entity.Meeting
	var err error
	continued := payload.MeetingId != ""
	if continued {
		meetingId, parseErr := uuid.Parse(payload.MeetingId)
		if parseErr != nil {
			m.sendError("invalid meeting_id")
			return
		}
		meeting, err = m.meetingService.ContinueMeeting(ctx, m.userID, meetingId)
	} else {
		meeting, err = m.meetingService.StartMeeting(ctx, m.userID, payload.Title, payload.Platform)
	}
	if err != nil {
		m.sendError(err.Error())
		return
	}

	seq, err := m.meetingService.NextSequence(ctx, meeting.Id)
	if err != nil {
		m.sendError(err.Error())
		return
	}

	m.meetingID = meeting.Id
	m.sessionNumber = meeting.SessionNumber
	m.speaker = payload.Speaker
	m.state = store.StateListening
	m.startedAt = timeNow()
	m.nextSeq = seq
	m.buffer = transcript.NewBuffer(ingestBufferSize)
	m.pipeline = transcript.NewPipeline()
	m.coach = transcript.NewCoach()
	m.prevLast = nil
	m.persistQueue = nil
	m.pendingQuestions = nil
	m.saveSnapshot()

	eventType := dto.EventMeetingCreated
	if continued {
		eventType = dto.EventMeetingContinued
	}
	m.send(dto.WsEvent{Type: eventType, Payload: map[string]interface{}{
		"meeting_id":     meeting.Id,
		"title":          meeting.Title,
		"session_number": meeting.SessionNumber,
	}})
	m.sendStatus()
}

func (m *Manager) handleStopListening(ctx context.Context) {
	if m.state != store.StateListening {
		m.sendError("not listening")
		return
	}
	m.stopSilenceTimer()
	m.state = store.StatePaused
	m.saveSnapshot()

	// Closed entries are durable, flush them now. The open tail entry
	// stays in memory so a quick resume can still merge into it.
	m.flushClosed(ctx)
	m.sendStatus()
}

func (m *Manager) handleResumeListening() {
	if m.state != store.StatePaused {
		m.sendError("not paused")
		return
	}
	m.state = store.StateListening
	m.saveSnapshot()
	m.sendStatus()
}

func (m *Manager) handleEndMeeting(ctx context.Context) {
	if m.state != store.StateListening && m.state != store.StatePaused {
		m.sendError("no live meeting to end")
		return
	}

	m.stopSilenceTimer()
	m.cancelSuggestion()
	m.drainIntoPipeline()
	m.closeTail()
	m.flushClosed(ctx)

	meeting, err := m.meetingService.EndMeeting(ctx, m.userID, m.meetingID)
	if err != nil {
		m.sendError(err.Error())
		return
	}

	m.state = store.StateEnded
	m.saveSnapshot()
	m.sendStatus()

	m.logger.Info("LiveSession", "Meeting ended, summarizing", map[string]interface{}{
		"connection_id": m.connID, "meeting_id": meeting.Id, "session": m.sessionNumber,
	})
	go m.summarize()
}

func (m *Manager) handleRetrySummary() {
	if m.state != store.StateEnded {
		m.sendError("summary retry is only available after the meeting ends")
		return
	}
	go m.summarize()
}

// summarize runs after end_meeting, off the command loop. A failure leaves
// the meeting ended and the transcript intact; the client may retry.
func (m *Manager) summarize() {
	ctx, cancelTimeout := context.WithTimeout(m.baseCtx, 3*time.Minute)
	defer cancelTimeout()

	m.mu.Lock()
	meetingID := m.meetingID
	sessionNumber := m.sessionNumber
	m.mu.Unlock()

	text, err := m.sessionTranscriptText(ctx, meetingID, sessionNumber)
	if err != nil {
		m.sendSummaryFailed(err)
		return
	}

	result, err := m.suggestionService.Summarize(ctx, m.userID, meetingID, sessionNumber, text)
	if err != nil {
		m.sendSummaryFailed(err)
		return
	}

	actions := make([]map[string]interface{}, 0, len(result.Actions))
	for _, a := range result.Actions {
		actions = append(actions, map[string]interface{}{
			"description": a.Description,
			"owner":       a.Owner,
			"status":      a.Status,
		})
	}
	m.send(dto.WsEvent{Type: dto.EventMeetingSummary, Payload: map[string]interface{}{
		"meeting_id":       meetingID,
		"session_number":   result.Summary.SessionNumber,
		"short_summary":    result.Summary.ShortSummary,
		"detailed_summary": result.Summary.DetailedSummary,
		"actions":          actions,
	}})
}

func (m *Manager) sendSummaryFailed(err error) {
	m.logger.Error("LiveSession", "Summarization failed", map[string]interface{}{
		"connection_id": m.connID, "error": err.Error(),
	})
	m.send(dto.WsEvent{Type: dto.EventSummaryFailed, Payload: map[string]interface{}{
		"message":   err.Error(),
		"retryable": true,
	}})
}

// sessionTranscriptText rebuilds the session transcript from storage rather
// than the live view, which only holds the newest entries.
func (m *Manager) sessionTranscriptText(ctx context.Context, meetingID uuid.UUID, sessionNumber int) (string, error) {
	entries, err := m.meetingService.GetTranscript(ctx, m.userID, meetingID)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, e := range entries {
		if e.SessionNumber != sessionNumber {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Speaker)
		sb.WriteString(": ")
		sb.WriteString(e.Text)
	}
	return sb.String(), nil
}

func (m *Manager) handleTranscriptFragment(ctx context.Context, raw json.RawMessage) {
	if m.state == store.StatePaused {
		// Paused sessions drop audio on the floor.
		return
	}
	if m.state != store.StateListening {
		m.sendError("start listening before sending transcript")
		return
	}

	var payload dto.TranscriptFragmentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		m.sendError("invalid transcript_fragment payload")
		return
	}

	frag := transcript.Fragment{
		Speaker: payload.Speaker,
		Text:    payload.Text,
		Final:   payload.Final,
		At:      timeNow(),
	}
	if frag.Speaker == "" {
		frag.Speaker = m.speaker
	}
	m.buffer.Offer(frag)
	m.drainIntoPipeline()

	m.send(dto.WsEvent{Type: dto.EventTranscriptUpdate, Payload: map[string]interface{}{
		"entries": viewPayload(m.pipeline.View()),
		"dropped": m.pipeline.Dropped(),
	}})

	if len(m.persistQueue) >= persistBatchSize {
		m.flushClosed(ctx)
	}
}

// drainIntoPipeline empties the ingest buffer through the merge pipeline and
// runs the per-fragment side effects: coaching for the caller's own speech,
// question buffering for everyone else.
func (m *Manager) drainIntoPipeline() {
	for _, frag := range m.buffer.Drain() {
		entry, merged := m.pipeline.Push(frag)
		if entry == nil {
			continue
		}
		if frag.Final && !merged {
			if m.prevLast != nil && m.prevLast != entry {
				m.enqueueEntry(m.prevLast)
			}
			m.prevLast = entry
		}
		// Coaching runs on every fragment so feedback lands with the
		// interim, not seconds later with the confirming final.
		if frag.Speaker == m.speaker {
			var metrics transcript.Metrics
			if frag.Final {
				metrics = m.coach.Observe(frag.Text, frag.At)
			} else {
				metrics = m.coach.ObserveInterim(frag.Text, frag.At)
			}
			m.send(dto.WsEvent{Type: dto.EventCoachingMetrics, Payload: metrics})
		}
		if !frag.Final {
			continue
		}

		if frag.Speaker != m.speaker && transcript.IsQuestion(frag.Text) {
			m.pendingQuestions = append(m.pendingQuestions, strings.TrimSpace(frag.Text))
			if len(m.pendingQuestions) > maxPendingQuestions {
				m.pendingQuestions = m.pendingQuestions[1:]
			}
			m.resetSilenceTimer()
		}

		if candidates := transcript.DetectActionCandidates(frag.Speaker, frag.Text); len(candidates) > 0 {
			m.send(dto.WsEvent{Type: dto.EventActionCandidates, Payload: map[string]interface{}{
				"candidates": candidates,
			}})
		}
	}
}

func (m *Manager) enqueueEntry(entry *transcript.Entry) {
	m.persistQueue = append(m.persistQueue, &entity.TranscriptEntry{
		Id:            uuid.New(),
		MeetingId:     m.meetingID,
		SessionNumber: m.sessionNumber,
		Sequence:      m.nextSeq,
		Speaker:       entry.Speaker,
		Text:          entry.Text,
		SpokenAt:      entry.StartedAt,
	})
	m.nextSeq++
}

// closeTail queues the still-open newest entry. Only called when no further
// merge into it is possible (end of meeting or disconnect).
func (m *Manager) closeTail() {
	if m.prevLast != nil {
		m.enqueueEntry(m.prevLast)
		m.prevLast = nil
	}
}

func (m *Manager) flushClosed(ctx context.Context) {
	if len(m.persistQueue) == 0 {
		return
	}
	if ctx == nil {
		ctx = m.baseCtx
	}
	if err := m.meetingService.SaveTranscript(ctx, m.persistQueue); err != nil {
		m.logger.Error("LiveSession", "Transcript flush failed", map[string]interface{}{
			"connection_id": m.connID, "entries": len(m.persistQueue), "error": err.Error(),
		})
		// Keep the queue, the next flush retries.
		return
	}
	m.persistQueue = nil
}

func (m *Manager) handleGenerateSuggestion(raw json.RawMessage) {
	var payload dto.GenerateSuggestionPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			m.sendError("invalid generate_suggestion payload")
			return
		}
	}

	question := strings.TrimSpace(payload.Question)
	if question == "" {
		if len(m.pendingQuestions) == 0 {
			m.sendError("no question to answer")
			return
		}
		question = m.pendingQuestions[len(m.pendingQuestions)-1]
		m.pendingQuestions = nil
	}
	m.triggerSuggestion(question)
}

// triggerSuggestion starts an async suggestion, cancelling any in-flight
// one. A newer question always wins. Caller holds the lock.
func (m *Manager) triggerSuggestion(question string) {
	m.cancelSuggestion()
	ctx, cancel := context.WithCancel(m.baseCtx)
	m.suggestCancel = cancel

	req := service.SuggestRequest{
		Question:      question,
		ExtraContext:  m.suggestionContext(),
		InterviewMode: m.interviewMode,
	}

	m.send(dto.WsEvent{Type: dto.EventSuggestionPending, Payload: map[string]interface{}{
		"question": question,
	}})

	go func() {
		defer cancel()
		resp, err := m.suggestionService.Suggest(ctx, m.userID, req)
		if err != nil {
			if ctx.Err() != nil {
				return // superseded or connection closed
			}
			m.sendError(err.Error())
			return
		}
		m.send(dto.WsEvent{Type: dto.EventSuggestion, Payload: resp})
	}()
}

// suggestionContext combines client-pushed context with the tail of the live
// transcript so the engine sees what was just said. Caller holds the lock.
func (m *Manager) suggestionContext() string {
	var parts []string
	if m.extraContext != "" {
		parts = append(parts, m.extraContext)
	}
	entries := m.pipeline.Entries()
	if len(entries) > 10 {
		entries = entries[len(entries)-10:]
	}
	if len(entries) > 0 {
		var sb strings.Builder
		sb.WriteString("Recent conversation:\n")
		for _, e := range entries {
			sb.WriteString(e.Speaker)
			sb.WriteString(": ")
			sb.WriteString(e.Text)
			sb.WriteString("\n")
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "\n")
}

func (m *Manager) handleGetStallPhrase() {
	phrase := constant.StallPhrases[m.stallIdx%len(constant.StallPhrases)]
	m.stallIdx++
	m.send(dto.WsEvent{Type: dto.EventStallPhrase, Payload: map[string]interface{}{
		"text": phrase,
	}})
}

func (m *Manager) handleSetInterviewMode(raw json.RawMessage) {
	var payload dto.SetInterviewModePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		m.sendError("invalid set_interview_mode payload")
		return
	}
	m.interviewMode = payload.Enabled
	if !payload.Enabled {
		m.stopSilenceTimer()
	}
	m.saveSnapshot()
	m.sendStatus()
}

func (m *Manager) handleUpdateContext(raw json.RawMessage) {
	var payload dto.UpdateContextPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		m.sendError("invalid update_context payload")
		return
	}
	m.extraContext = payload.Context
}

// resetSilenceTimer arms the interview-mode auto answer. Every further
// fragment pushes it back, so it only fires once the room has actually gone
// quiet. Caller holds the lock.
func (m *Manager) resetSilenceTimer() {
	if !m.interviewMode {
		return
	}
	m.stopSilenceTimer()
	m.silenceTimer = time.AfterFunc(silenceDebounce, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state != store.StateListening || !m.interviewMode || len(m.pendingQuestions) == 0 {
			return
		}
		question := m.pendingQuestions[len(m.pendingQuestions)-1]
		m.pendingQuestions = nil
		m.triggerSuggestion(question)
	})
}

func (m *Manager) stopSilenceTimer() {
	if m.silenceTimer != nil {
		m.silenceTimer.Stop()
		m.silenceTimer = nil
	}
}

func (m *Manager) cancelSuggestion() {
	if m.suggestCancel != nil {
		m.suggestCancel()
		m.suggestCancel = nil
	}
}

// Close tears the session down when the socket drops. A still-live meeting
// is left live so the client can reconnect and continue; its transcript is
// flushed first.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopSilenceTimer()
	m.cancelSuggestion()

	if m.state == store.StateListening || m.state == store.StatePaused {
		ctx, cancelTimeout := context.WithTimeout(context.Background(), 10*time.Second)
		m.closeTail()
		m.flushClosed(ctx)
		cancelTimeout()
	}

	m.cancel()
	m.registry.Delete(m.connID)
}

func (m *Manager) saveSnapshot() {
	m.registry.Save(&store.LiveSessionSnapshot{
		ConnectionID:  m.connID,
		UserID:        m.userID.String(),
		MeetingID:     m.meetingID.String(),
		SessionNumber: m.sessionNumber,
		State:         m.state,
		InterviewMode: m.interviewMode,
		StartedAtUnix: m.startedAt.Unix(),
	})
}

func (m *Manager) sendStatus() {
	m.send(dto.WsEvent{Type: dto.EventConnectionStatus, Payload: map[string]interface{}{
		"state":          m.state,
		"meeting_id":     m.meetingID,
		"session_number": m.sessionNumber,
		"interview_mode": m.interviewMode,
	}})
}

func (m *Manager) sendError(message string) {
	m.send(dto.WsEvent{Type: dto.EventError, Payload: map[string]interface{}{
		"message": message,
	}})
}

func viewPayload(entries []*transcript.Entry) []map[string]interface{} {
	out := make([]map[string]interface{}, len(entries))
	for i, e := range entries {
		out[i] = map[string]interface{}{
			"speaker":    e.Speaker,
			"text":       e.Text,
			"started_at": e.StartedAt,
			"updated_at": e.UpdatedAt,
		}
	}
	return out
}
