package store

// LiveSessionSnapshot is the cross-request view of an active listening
// session, keyed by connection id in the memory registry. The full mutable
// state lives inside the per-connection manager; this snapshot exists so
// health and admin surfaces can enumerate what is live without touching
// connection goroutines.
type LiveSessionSnapshot struct {
	ConnectionID  string `json:"connection_id"`
	UserID        string `json:"user_id"`
	MeetingID     string `json:"meeting_id"`
	SessionNumber int    `json:"session_number"`
	State         string `json:"state"`
	InterviewMode bool   `json:"interview_mode"`
	StartedAtUnix int64  `json:"started_at_unix"`
}

const (
	StateIdle      = "IDLE"
	StateListening = "LISTENING"
	StatePaused    = "PAUSED"
	StateEnded     = "ENDED"
)
