package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionOpen      SessionStatus = "open"
	SessionCompleted SessionStatus = "completed"
)

// Session is one candidate's attempt at one job's assessment. The question
// snapshot is fixed at creation; the only status transition is open ->
// completed, performed with a conditional update so concurrent completions
// cannot both succeed.
type Session struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	JobID       uint   `json:"job_id" gorm:"not null;index"`
	CandidateID string `json:"candidate_id" gorm:"not null;size:255;index"`

	Status SessionStatus `json:"status" gorm:"not null;default:open;index" validate:"omitempty,oneof=open completed"`

	// Ordered question IDs copied from the job's question set at creation.
	QuestionSnapshot datatypes.JSON `json:"question_snapshot" gorm:"type:jsonb;not null"` // []uint

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relations
	Candidate User     `json:"-" gorm:"foreignKey:CandidateID"`
	Job       Job      `json:"-" gorm:"foreignKey:JobID"`
	Answers   []Answer `json:"answers,omitempty" gorm:"foreignKey:SessionID"`
}

func (Session) TableName() string {
	return "sessions"
}

// SnapshotIDs decodes the frozen question order.
func (s *Session) SnapshotIDs() []uint {
	return decodeUintList(s.QuestionSnapshot)
}

// InSnapshot reports whether questionID belongs to the frozen set.
func (s *Session) InSnapshot(questionID uint) bool {
	for _, id := range s.SnapshotIDs() {
		if id == questionID {
			return true
		}
	}
	return false
}

func (s *Session) IsOpen() bool {
	return s.Status == SessionOpen
}
