package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"amplified-be/internal/apperror"
	"amplified-be/internal/constant"
	"amplified-be/internal/dto"
	"amplified-be/internal/entity"
	"amplified-be/internal/pkg/logger"
	"amplified-be/internal/repository/specification"
	"amplified-be/internal/repository/unitofwork"
	"amplified-be/pkg/events"
	"amplified-be/pkg/knowledge"
	"amplified-be/pkg/llm"
	"amplified-be/pkg/llm/factory"
)

type SuggestRequest struct {
	Question      string
	ExtraContext  string // free text pushed by the client via update_context
	InterviewMode bool
}

type SummaryResult struct {
	Summary *entity.MeetingSummary
	Actions []*entity.MeetingAction
}

type ISuggestionService interface {
	Suggest(ctx context.Context, userId uuid.UUID, req SuggestRequest) (*dto.SuggestionResponse, error)
	AskMeeting(ctx context.Context, userId, meetingId uuid.UUID, question string) (*dto.SuggestionResponse, error)
	Summarize(ctx context.Context, userId, meetingId uuid.UUID, sessionNumber int, transcript string) (*SummaryResult, error)
	GenerateSummary(ctx context.Context, userId, meetingId uuid.UUID) (*SummaryResult, error)
}

type suggestionService struct {
	uowFactory     unitofwork.RepositoryFactory
	registry       *factory.Registry
	indexer        *knowledge.Indexer
	publisher      IPublisherService
	eventPublisher IEventPublisher
	logger         logger.ILogger
}

func NewSuggestionService(
	uowFactory unitofwork.RepositoryFactory,
	registry *factory.Registry,
	indexer *knowledge.Indexer,
	publisher IPublisherService,
	eventPublisher IEventPublisher,
	log logger.ILogger,
) ISuggestionService {
	return &suggestionService{
		uowFactory:     uowFactory,
		registry:       registry,
		indexer:        indexer,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// engineFor resolves the user's committed engine, falling back to the
// deployment default when no preference exists.
func (s *suggestionService) engineFor(ctx context.Context, userId uuid.UUID) (llm.LLMProvider, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pref, err := uow.LLMPreferenceRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return s.registry.Default(), nil
	}
	provider, err := s.registry.Get(pref.Engine)
	if err != nil {
		// A stored preference for an engine this deployment no longer
		// knows about falls back instead of breaking every request.
		s.logger.Warn("SuggestionService", "Stored engine unknown, using default", map[string]interface{}{
			"engine": pref.Engine, "user_id": userId,
		})
		return s.registry.Default(), nil
	}
	return provider, nil
}

func (s *suggestionService) Suggest(ctx context.Context, userId uuid.UUID, req SuggestRequest) (*dto.SuggestionResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, apperror.Validation("question must not be empty")
	}

	provider, err := s.engineFor(ctx, userId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches, err := s.indexer.Search(ctx, uow.KnowledgeChunkRepository(), userId, req.Question, 3)
	if err != nil {
		// Retrieval is best effort, a suggestion without citations beats
		// no suggestion.
		s.logger.Warn("SuggestionService", "Knowledge search failed", map[string]interface{}{"error": err.Error()})
		matches = nil
	}

	system := constant.SuggestionSystemPrompt
	if req.InterviewMode {
		system = constant.InterviewSystemPrompt
	}

	var sb strings.Builder
	if req.ExtraContext != "" {
		sb.WriteString("Additional context from the user:\n")
		sb.WriteString(req.ExtraContext)
		sb.WriteString("\n\n")
	}
	citations := make([]dto.KnowledgeMatchResponse, 0, len(matches))
	if len(matches) > 0 {
		sb.WriteString("Context passages:\n")
		for i, m := range matches {
			sb.WriteString(fmt.Sprintf("[%d] (%s) %s\n", i+1, m.Chunk.SourceTitle, m.Chunk.Content))
			citations = append(citations, dto.KnowledgeMatchResponse{
				EntityId:    m.Chunk.EntityId,
				EntityType:  m.Chunk.EntityType,
				SourceTitle: m.Chunk.SourceTitle,
				Excerpt:     excerpt(m.Chunk.Content, 200),
				Similarity:  m.Similarity,
			})
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(req.Question)

	text, err := provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: sb.String()},
	}, llm.WithTemperature(0.7))
	if err != nil {
		return nil, err
	}

	return &dto.SuggestionResponse{
		Question:  req.Question,
		Text:      strings.TrimSpace(text),
		Engine:    provider.Name(),
		Citations: citations,
	}, nil
}

type summaryPayload struct {
	ShortSummary    []string `json:"short_summary"`
	DetailedSummary string   `json:"detailed_summary"`
	ActionItems     []struct {
		Owner       *string `json:"owner"`
		Description string  `json:"description"`
	} `json:"action_items"`
}

func (s *suggestionService) Summarize(ctx context.Context, userId, meetingId uuid.UUID, sessionNumber int, transcript string) (*SummaryResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, apperror.Validation("nothing to summarize, transcript is empty")
	}

	provider, err := s.engineFor(ctx, userId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	prevContext := s.previousSessionsContext(ctx, uow, meetingId)

	runes := []rune(transcript)
	if len(runes) > constant.MaxTranscriptPromptChars {
		runes = runes[:constant.MaxTranscriptPromptChars]
	}

	prompt := fmt.Sprintf(constant.SummarizationPrompt, prevContext, string(runes))

	raw, err := provider.Generate(ctx, prompt, llm.WithJSONMode(), llm.WithTemperature(0.3))
	if err != nil {
		s.publishEvent(ctx, events.NewSummaryFailed(meetingId.String(), userId.String(), err.Error()))
		return nil, err
	}

	var payload summaryPayload
	if err := llm.ExtractJSON(raw, &payload); err != nil {
		perr := apperror.Provider("engine returned an unparseable summary", err)
		s.publishEvent(ctx, events.NewSummaryFailed(meetingId.String(), userId.String(), perr.Error()))
		return nil, perr
	}

	summary := &entity.MeetingSummary{
		Id:              uuid.New(),
		MeetingId:       meetingId,
		SessionNumber:   sessionNumber,
		ShortSummary:    "- " + strings.Join(payload.ShortSummary, "\n- "),
		DetailedSummary: payload.DetailedSummary,
	}
	actions := make([]*entity.MeetingAction, 0, len(payload.ActionItems))
	for _, item := range payload.ActionItems {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		actions = append(actions, &entity.MeetingAction{
			Id:          uuid.New(),
			MeetingId:   meetingId,
			Description: item.Description,
			Owner:       item.Owner,
			Status:      entity.ActionStatusOpen,
		})
	}

	// Summary and actions land together or not at all. Regenerating a
	// session replaces its previous summary instead of stacking a second.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.MeetingSummaryRepository().DeleteBySession(ctx, meetingId, sessionNumber); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.MeetingSummaryRepository().Create(ctx, summary); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.MeetingActionRepository().CreateBulk(ctx, actions); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.queueMeetingIndex(ctx, meetingId)
	s.publishEvent(ctx, events.NewSummaryReady(meetingId.String(), userId.String(), sessionNumber))

	s.logger.Info("SuggestionService", "Session summarized", map[string]interface{}{
		"meeting_id": meetingId, "session_number": sessionNumber, "actions": len(actions),
	})
	return &SummaryResult{Summary: summary, Actions: actions}, nil
}

// publishEvent pushes a bus event, best effort.
func (s *suggestionService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("SuggestionService", "Failed to publish event", map[string]interface{}{
			"type": evt.EventType(), "error": err.Error(),
		})
	}
}

// queueMeetingIndex re-embeds the meeting's summaries so its content shows
// up in knowledge search. Best effort, the summary itself is already
// committed.
func (s *suggestionService) queueMeetingIndex(ctx context.Context, meetingId uuid.UUID) {
	if s.publisher == nil {
		return
	}
	msg, err := json.Marshal(dto.PublishIndexMessage{EntityId: meetingId, EntityType: entity.EntityTypeMeeting})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Warn("SuggestionService", "Failed to queue meeting for indexing", map[string]interface{}{
			"meeting_id": meetingId, "error": err.Error(),
		})
	}
}

// GenerateSummary re-runs summarization for the meeting's latest session
// from the stored transcript.
func (s *suggestionService) GenerateSummary(ctx context.Context, userId, meetingId uuid.UUID) (*SummaryResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, err := s.findOwnedMeeting(ctx, uow, userId, meetingId)
	if err != nil {
		return nil, err
	}

	transcript, err := s.sessionTranscript(ctx, uow, meetingId, meeting.SessionNumber)
	if err != nil {
		return nil, err
	}
	return s.Summarize(ctx, userId, meetingId, meeting.SessionNumber, transcript)
}

// AskMeeting answers an ad-hoc question against a stored meeting. The
// transcript tail and the meeting's summaries feed the prompt, plus
// whatever the knowledge index retrieves for the question.
func (s *suggestionService) AskMeeting(ctx context.Context, userId, meetingId uuid.UUID, question string) (*dto.SuggestionResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperror.Validation("question must not be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, err := s.findOwnedMeeting(ctx, uow, userId, meetingId)
	if err != nil {
		return nil, err
	}

	provider, err := s.engineFor(ctx, userId)
	if err != nil {
		return nil, err
	}

	matches, err := s.indexer.Search(ctx, uow.KnowledgeChunkRepository(), userId, question, 3)
	if err != nil {
		s.logger.Warn("SuggestionService", "Knowledge search failed", map[string]interface{}{"error": err.Error()})
		matches = nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Meeting: %s\n\n", meeting.Title)
	if len(meeting.Summaries) > 0 {
		sb.WriteString("Summaries:\n")
		for _, sum := range meeting.Summaries {
			fmt.Fprintf(&sb, "Session %d: %s\n", sum.SessionNumber, sum.ShortSummary)
		}
		sb.WriteString("\n")
	}

	transcript, err := s.sessionTranscript(ctx, uow, meetingId, 0)
	if err != nil {
		return nil, err
	}
	if transcript != "" {
		runes := []rune(transcript)
		if len(runes) > constant.MaxTranscriptPromptChars {
			runes = runes[len(runes)-constant.MaxTranscriptPromptChars:]
		}
		sb.WriteString("Transcript:\n")
		sb.WriteString(string(runes))
		sb.WriteString("\n\n")
	}

	citations := make([]dto.KnowledgeMatchResponse, 0, len(matches))
	if len(matches) > 0 {
		sb.WriteString("Context passages:\n")
		for i, m := range matches {
			fmt.Fprintf(&sb, "[%d] (%s) %s\n", i+1, m.Chunk.SourceTitle, m.Chunk.Content)
			citations = append(citations, dto.KnowledgeMatchResponse{
				EntityId:    m.Chunk.EntityId,
				EntityType:  m.Chunk.EntityType,
				SourceTitle: m.Chunk.SourceTitle,
				Excerpt:     excerpt(m.Chunk.Content, 200),
				Similarity:  m.Similarity,
			})
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)

	text, err := provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.MeetingQASystemPrompt},
		{Role: "user", Content: sb.String()},
	}, llm.WithTemperature(0.3))
	if err != nil {
		return nil, err
	}

	return &dto.SuggestionResponse{
		Question:  question,
		Text:      strings.TrimSpace(text),
		Engine:    provider.Name(),
		Citations: citations,
	}, nil
}

func (s *suggestionService) findOwnedMeeting(ctx context.Context, uow unitofwork.UnitOfWork, userId, meetingId uuid.UUID) (*entity.Meeting, error) {
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

// sessionTranscript rebuilds a session's text from the durable entries.
// sessionNumber 0 means the whole meeting.
func (s *suggestionService) sessionTranscript(ctx context.Context, uow unitofwork.UnitOfWork, meetingId uuid.UUID, sessionNumber int) (string, error) {
	specs := []specification.Specification{
		specification.ByMeetingID{MeetingID: meetingId},
		specification.OrderBy{Field: "sequence", Desc: false},
	}
	if sessionNumber > 0 {
		specs = append(specs, specification.BySessionNumber{SessionNumber: sessionNumber})
	}
	entries, err := uow.TranscriptRepository().FindAll(ctx, specs...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s: %s\n", e.Speaker, e.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// previousSessionsContext renders the meeting's earlier summaries so the
// engine summarizes the new session against them.
func (s *suggestionService) previousSessionsContext(ctx context.Context, uow unitofwork.UnitOfWork, meetingId uuid.UUID) string {
	summaries, err := uow.MeetingSummaryRepository().FindAll(ctx,
		specification.ByMeetingID{MeetingID: meetingId},
		specification.OrderBy{Field: "session_number", Desc: false},
	)
	if err != nil || len(summaries) == 0 {
		return "This is the first session of the meeting."
	}

	var sb strings.Builder
	sb.WriteString("Summaries of previous sessions:\n")
	for _, sum := range summaries {
		sb.WriteString(fmt.Sprintf("Session %d:\n%s\n\n", sum.SessionNumber, sum.ShortSummary))
	}
	return strings.TrimSpace(sb.String())
}

func excerpt(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
