// Package grading holds the boundary to the evaluation collaborators: the
// answer grader used during scoring and the question generator invoked once
// at job creation. Both are opaque to the core; the service layer only sees
// the interfaces defined here.
package grading

import (
	"context"

	"github.com/hirelens/assessment-service/internal/models"
)

// Outcome is the grader's judgment of a single answer.
type Outcome struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Grader evaluates subjective and coding answers. Implementations must clamp
// the returned score into [0, maxScore].
type Grader interface {
	GradeAnswer(ctx context.Context, question *models.Question, answer string, maxScore float64) (*Outcome, error)
}

// Report is the qualitative part of a score record, produced once per
// completed session from the aggregated skill scores.
type Report struct {
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	SkillGaps      []string `json:"skill_gaps"`
	Summary        string   `json:"summary"`
	Recommendation string   `json:"recommendation"`
}

// ReportInput carries the aggregated numbers the reporter writes about.
type ReportInput struct {
	TotalScore  float64            `json:"total_score"`
	MaxPossible float64            `json:"max_possible"`
	Percentage  float64            `json:"percentage"`
	SkillScores map[string]float64 `json:"skill_scores"`
}

// Reporter generates the free-text summary and recommendation. Optional: the
// scoring aggregator degrades to threshold-derived labels when nil.
type Reporter interface {
	GenerateReport(ctx context.Context, input ReportInput) (*Report, error)
}

// JobProfile is the structured form of a free-text job description.
type JobProfile struct {
	RequiredSkills  []string `json:"required_skills"`
	ExperienceLevel string   `json:"experience_level"`
	RoleType        string   `json:"role_type"`
}

// GeneratedQuestion is one question as produced by the generator, before it
// is persisted with a position and a job ID.
type GeneratedQuestion struct {
	Type          models.QuestionType    `json:"question_type"`
	Text          string                 `json:"question_text"`
	Difficulty    models.DifficultyLevel `json:"difficulty"`
	Skill         string                 `json:"skill_tested"`
	Options       []string               `json:"options,omitempty"`
	CorrectOption string                 `json:"correct_answer,omitempty"`
	StarterCode   string                 `json:"starter_code,omitempty"`
	MaxScore      float64                `json:"max_score,omitempty"`
}

// Generator turns a job description into a typed question set. Invoked once,
// at job creation; never on the assessment runtime path.
type Generator interface {
	ParseJobDescription(ctx context.Context, description string) (*JobProfile, error)
	GenerateQuestions(ctx context.Context, profile *JobProfile) ([]GeneratedQuestion, error)
}
