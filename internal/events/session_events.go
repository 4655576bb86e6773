package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a session lifecycle event.
type EventType string

const (
	EventSessionCreated   EventType = "session.created"
	EventSessionCompleted EventType = "session.completed"
	EventSessionScored    EventType = "session.scored"
)

// SessionEvent is the envelope published for all session lifecycle events.
type SessionEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Data      any       `json:"data"`
}

type SessionCreatedEvent struct {
	SessionID   uint   `json:"session_id"`
	JobID       uint   `json:"job_id"`
	CandidateID string `json:"candidate_id"`
	Questions   int    `json:"questions"`
}

type SessionCompletedEvent struct {
	SessionID   uint      `json:"session_id"`
	JobID       uint      `json:"job_id"`
	CandidateID string    `json:"candidate_id"`
	CompletedAt time.Time `json:"completed_at"`
	Answered    int       `json:"answered"`
	Questions   int       `json:"questions"`
}

type SessionScoredEvent struct {
	SessionID  uint    `json:"session_id"`
	JobID      uint    `json:"job_id"`
	TotalScore float64 `json:"total_score"`
	Percentage float64 `json:"percentage"`
	Qualified  bool    `json:"qualified"`
}

// NewSessionEvent wraps a payload in the standard envelope.
func NewSessionEvent(eventType EventType, data any) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "assessment-service",
		Version:   "1.0",
		Data:      data,
	}
}
