package dto

import "encoding/json"

// Client -> server commands on the live session socket.
const (
	CmdStartListening     = "start_listening"
	CmdStopListening      = "stop_listening"
	CmdResumeListening    = "resume_listening"
	CmdEndMeeting         = "end_meeting"
	CmdTranscriptFragment = "transcript_fragment"
	CmdGenerateSuggestion = "generate_suggestion"
	CmdGetStallPhrase     = "get_stall_phrase"
	CmdSetInterviewMode   = "set_interview_mode"
	CmdUpdateContext      = "update_context"
	CmdRetrySummary       = "retry_summary"
)

// Server -> client event types.
const (
	EventConnectionStatus  = "connection_status"
	EventMeetingCreated    = "meeting_created"
	EventMeetingContinued  = "meeting_continued"
	EventTranscriptUpdate  = "transcript_update"
	EventCoachingMetrics   = "coaching_metrics"
	EventActionCandidates  = "action_candidates"
	EventMeetingSummary    = "meeting_summary"
	EventSummaryFailed     = "summary_failed"
	EventSuggestion        = "suggestion"
	EventSuggestionPending = "suggestion_pending"
	EventStallPhrase       = "stall_phrase"
	EventError             = "error"
)

// WsCommand is the envelope for everything the client sends.
type WsCommand struct {
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type StartListeningPayload struct {
	MeetingId string `json:"meeting_id,omitempty"` // set to continue an existing meeting
	Title     string `json:"title,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Speaker   string `json:"speaker,omitempty"` // caller's label in the transcript
}

type TranscriptFragmentPayload struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Final   bool   `json:"final"`
}

type SetInterviewModePayload struct {
	Enabled bool `json:"enabled"`
}

type UpdateContextPayload struct {
	Context string `json:"context"`
}

type GenerateSuggestionPayload struct {
	Question string `json:"question,omitempty"` // explicit question, else buffered ones are used
}

// SuggestionResponse is pushed over the socket when a suggestion resolves.
type SuggestionResponse struct {
	Question  string                   `json:"question"`
	Text      string                   `json:"text"`
	Engine    string                   `json:"engine"`
	Citations []KnowledgeMatchResponse `json:"citations"`
}

// WsEvent is the envelope for everything the server sends.
type WsEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}
