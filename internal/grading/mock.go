package grading

import (
	"context"
	"fmt"

	"github.com/hirelens/assessment-service/internal/models"
)

// MockGrader is an in-memory Grader for tests and for running the service
// without a configured LLM endpoint. Scores are looked up by question ID and
// fall back to Default.
type MockGrader struct {
	Scores  map[uint]float64
	Default float64
	Err     error
	Calls   int
}

func NewMockGrader() *MockGrader {
	return &MockGrader{Scores: make(map[uint]float64)}
}

func (m *MockGrader) GradeAnswer(ctx context.Context, question *models.Question, answer string, maxScore float64) (*Outcome, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	score, ok := m.Scores[question.ID]
	if !ok {
		score = m.Default
	}
	if score > maxScore {
		score = maxScore
	}
	return &Outcome{
		Score:    score,
		Feedback: fmt.Sprintf("scored %.1f of %.1f", score, maxScore),
	}, nil
}

// MockGenerator returns a canned profile and question set.
type MockGenerator struct {
	Profile   *JobProfile
	Questions []GeneratedQuestion
	ParseErr  error
	GenErr    error
}

func (m *MockGenerator) ParseJobDescription(ctx context.Context, description string) (*JobProfile, error) {
	if m.ParseErr != nil {
		return nil, m.ParseErr
	}
	if m.Profile != nil {
		return m.Profile, nil
	}
	return &JobProfile{
		RequiredSkills:  []string{"general"},
		ExperienceLevel: "Mid-level",
		RoleType:        "generalist",
	}, nil
}

func (m *MockGenerator) GenerateQuestions(ctx context.Context, profile *JobProfile) ([]GeneratedQuestion, error) {
	if m.GenErr != nil {
		return nil, m.GenErr
	}
	return m.Questions, nil
}

// MockReporter returns a fixed report.
type MockReporter struct {
	Report *Report
	Err    error
	Calls  int
}

func (m *MockReporter) GenerateReport(ctx context.Context, input ReportInput) (*Report, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Report != nil {
		return m.Report, nil
	}
	return &Report{}, nil
}
