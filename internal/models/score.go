package models

import (
	"time"

	"gorm.io/datatypes"
)

// Score is the one-time output of scoring a completed session. The unique
// index on SessionID backs the insert-if-absent guard: a session is scored
// successfully at most once, and the record never changes afterwards.
type Score struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	SessionID uint `json:"session_id" gorm:"not null;uniqueIndex"`

	// Section scores grouped by question type.
	MCQScore        float64 `json:"mcq_score" gorm:"not null"`
	SubjectiveScore float64 `json:"subjective_score" gorm:"not null"`
	CodingScore     float64 `json:"coding_score" gorm:"not null"`

	TotalScore  float64 `json:"total_score" gorm:"not null"`
	MaxPossible float64 `json:"max_possible" gorm:"not null"`
	Percentage  float64 `json:"percentage" gorm:"not null"`

	SkillScores datatypes.JSON `json:"skill_scores" gorm:"type:jsonb"` // map[string]float64

	Qualified bool `json:"qualified" gorm:"not null"`

	// Percentile is derived from the job's current scored set whenever the
	// record is read, never stored: equal totals always report equal
	// percentiles, no matter in which order they were scored.
	Percentile float64 `json:"percentile" gorm:"-"`

	Strengths  datatypes.JSON `json:"strengths" gorm:"type:jsonb"`  // []string
	Weaknesses datatypes.JSON `json:"weaknesses" gorm:"type:jsonb"` // []string
	SkillGaps  datatypes.JSON `json:"skill_gaps" gorm:"type:jsonb"` // []string

	Summary        string `json:"summary" gorm:"type:text"`
	Recommendation string `json:"recommendation" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (Score) TableName() string {
	return "scores"
}

func (s *Score) SkillScoreMap() map[string]float64 {
	return decodeFloatMap(s.SkillScores)
}

func (s *Score) StrengthList() []string {
	return decodeStringList(s.Strengths)
}

func (s *Score) WeaknessList() []string {
	return decodeStringList(s.Weaknesses)
}

func (s *Score) SkillGapList() []string {
	return decodeStringList(s.SkillGaps)
}
