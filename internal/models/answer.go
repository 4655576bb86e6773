package models

import "time"

// Answer is the ledger record for one (session, question) pair. The composite
// unique index is what makes last-write-wins an atomic upsert instead of a
// read-modify-write race.
type Answer struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	SessionID  uint `json:"session_id" gorm:"not null;index:idx_answers_session_question,unique,priority:1"`
	QuestionID uint `json:"question_id" gorm:"not null;index:idx_answers_session_question,unique,priority:2"`

	// Exactly one of these is set, matching the question's type.
	SelectedOption *string `json:"selected_option,omitempty" gorm:"size:500"`
	Text           *string `json:"text,omitempty" gorm:"type:text"`
	Code           *string `json:"code,omitempty" gorm:"type:text"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
}

func (Answer) TableName() string {
	return "answers"
}

// Content returns whichever payload field is populated.
func (a *Answer) Content() string {
	switch {
	case a.SelectedOption != nil:
		return *a.SelectedOption
	case a.Text != nil:
		return *a.Text
	case a.Code != nil:
		return *a.Code
	}
	return ""
}

// IsEmpty reports whether the answer carries no payload at all.
func (a *Answer) IsEmpty() bool {
	return a.SelectedOption == nil && a.Text == nil && a.Code == nil
}
