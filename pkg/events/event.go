package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "MEETING_ENDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the app.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Domain event types carried on the bus.
const (
	TypeMeetingEnded    = "MEETING_ENDED"
	TypeSummaryReady    = "SUMMARY_READY"
	TypeSummaryFailed   = "SUMMARY_FAILED"
	TypeDocumentIndexed = "DOCUMENT_INDEXED"
	TypeEngineSelected  = "ENGINE_SELECTED"
)

func NewMeetingEnded(meetingId, userId string, sessionNumber int) Event {
	return BaseEvent{
		Type: TypeMeetingEnded,
		Data: map[string]interface{}{
			"meeting_id":     meetingId,
			"user_id":        userId,
			"session_number": sessionNumber,
		},
		OccurredAt: time.Now(),
	}
}

func NewSummaryReady(meetingId, userId string, sessionNumber int) Event {
	return BaseEvent{
		Type: TypeSummaryReady,
		Data: map[string]interface{}{
			"meeting_id":     meetingId,
			"user_id":        userId,
			"session_number": sessionNumber,
		},
		OccurredAt: time.Now(),
	}
}

func NewSummaryFailed(meetingId, userId, reason string) Event {
	return BaseEvent{
		Type: TypeSummaryFailed,
		Data: map[string]interface{}{
			"meeting_id": meetingId,
			"user_id":    userId,
			"reason":     reason,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentIndexed(documentId, userId string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIndexed,
		Data: map[string]interface{}{
			"document_id": documentId,
			"user_id":     userId,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewEngineSelected(userId, engine string) Event {
	return BaseEvent{
		Type: TypeEngineSelected,
		Data: map[string]interface{}{
			"user_id": userId,
			"engine":  engine,
		},
		OccurredAt: time.Now(),
	}
}
