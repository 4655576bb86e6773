package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "mcq"
	Subjective     QuestionType = "subjective"
	Coding         QuestionType = "coding"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Question belongs to exactly one job and is immutable after generation.
// Position is the persisted presentation order within the job; sessions copy
// the ordered ID list at creation so later edits to the set cannot reach
// in-flight attempts.
type Question struct {
	ID    uint `json:"id" gorm:"primaryKey"`
	JobID uint `json:"job_id" gorm:"not null;index:idx_questions_job_position,unique,priority:1"`

	Type       QuestionType    `json:"question_type" gorm:"not null;size:20" validate:"required,question_type"`
	Text       string          `json:"question_text" gorm:"type:text;not null" validate:"required"`
	Difficulty DifficultyLevel `json:"difficulty" gorm:"not null;size:10" validate:"required,difficulty_level"`
	Skill      string          `json:"skill_tested" gorm:"not null;size:100" validate:"required"`

	// MCQ specific
	Options       datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"` // []string
	CorrectOption *string        `json:"-" gorm:"size:500"`

	// Coding specific
	StarterCode *string `json:"starter_code,omitempty" gorm:"type:text"`

	MaxScore float64 `json:"max_score" gorm:"not null" validate:"required,gt=0"`
	Position int     `json:"position" gorm:"not null;index:idx_questions_job_position,unique,priority:2"`

	CreatedAt time.Time `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the jsonb options column. Empty for non-MCQ questions.
func (q *Question) OptionList() []string {
	return decodeStringList(q.Options)
}

// HasOption reports whether the given option is one of the declared choices.
func (q *Question) HasOption(option string) bool {
	for _, o := range q.OptionList() {
		if o == option {
			return true
		}
	}
	return false
}

// DefaultMaxScore returns the difficulty-weighted score used when the
// generation collaborator does not assign one.
func DefaultMaxScore(qt QuestionType, difficulty DifficultyLevel) float64 {
	switch qt {
	case MultipleChoice:
		switch difficulty {
		case DifficultyHard:
			return 10
		case DifficultyMedium:
			return 5
		default:
			return 3
		}
	case Subjective:
		switch difficulty {
		case DifficultyHard:
			return 20
		case DifficultyMedium:
			return 15
		default:
			return 10
		}
	case Coding:
		switch difficulty {
		case DifficultyHard:
			return 30
		case DifficultyMedium:
			return 20
		default:
			return 10
		}
	}
	return 0
}
