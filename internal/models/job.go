package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExperienceLevel string

const (
	ExperienceFresher ExperienceLevel = "Fresher"
	ExperienceJunior  ExperienceLevel = "Junior"
	ExperienceMid     ExperienceLevel = "Mid-level"
	ExperienceSenior  ExperienceLevel = "Senior"
	ExperienceExpert  ExperienceLevel = "Expert"
)

// Job is a published opening with a generated assessment attached. Once
// questions exist for it, the job is immutable from the candidate's point of
// view: sessions snapshot the question order at creation time.
type Job struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string  `json:"description" gorm:"type:text;not null" validate:"required,min=1"`
	RecruiterID string  `json:"recruiter_id" gorm:"not null;size:255;index"`

	// Parsed from the job description by the question generation collaborator.
	RequiredSkills  datatypes.JSON  `json:"required_skills" gorm:"type:jsonb"` // []string
	ExperienceLevel ExperienceLevel `json:"experience_level" gorm:"size:20" validate:"omitempty,oneof=Fresher Junior Mid-level Senior Expert"`
	RoleType        string          `json:"role_type" gorm:"size:100"`

	// Assessment configuration
	DurationMinutes  int     `json:"duration_minutes" gorm:"default:60" validate:"min=5,max=300"`
	CutoffPercentage float64 `json:"cutoff_percentage" gorm:"default:60" validate:"min=0,max=100"`

	IsActive  bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:JobID"`
	Recruiter User       `json:"-" gorm:"foreignKey:RecruiterID"`
}

func (Job) TableName() string {
	return "jobs"
}

// Skills decodes the jsonb skills column.
func (j *Job) Skills() []string {
	return decodeStringList(j.RequiredSkills)
}
