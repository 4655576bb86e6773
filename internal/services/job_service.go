package services

import (
	"context"
	"fmt"

	"github.com/hirelens/assessment-service/internal/grading"
	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
	"github.com/hirelens/assessment-service/internal/utils"
)

type jobService struct {
	repo      repositories.Repository
	generator grading.Generator
	logger    utils.Logger
	validator *utils.Validator
}

func NewJobService(repo repositories.Repository, generator grading.Generator, logger utils.Logger, validator *utils.Validator) JobService {
	return &jobService{
		repo:      repo,
		generator: generator,
		logger:    logger,
		validator: validator,
	}
}

// Create parses the job description, generates the question set through the
// generation collaborator and persists job plus questions in one transaction.
// This is the only moment questions are written; they are immutable after.
func (s *jobService) Create(ctx context.Context, req *CreateJobRequest, recruiterID string) (*models.Job, error) {
	s.logger.Info("Creating job", "title", req.Title, "recruiter_id", recruiterID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.generator.ParseJobDescription(ctx, req.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job description: %w", err)
	}

	generated, err := s.generator.GenerateQuestions(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	durationMinutes := req.DurationMinutes
	if durationMinutes == 0 {
		durationMinutes = 60
	}
	cutoff := req.CutoffPercentage
	if cutoff == 0 {
		cutoff = 60
	}

	job := &models.Job{
		Title:            req.Title,
		Description:      req.Description,
		RecruiterID:      recruiterID,
		RequiredSkills:   models.MustJSON(profile.RequiredSkills),
		ExperienceLevel:  models.ExperienceLevel(profile.ExperienceLevel),
		RoleType:         profile.RoleType,
		DurationMinutes:  durationMinutes,
		CutoffPercentage: cutoff,
		IsActive:         true,
	}

	err = s.repo.WithTx(ctx, func(tx repositories.Repository) error {
		if err := tx.Job().Create(ctx, job); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}

		questions := make([]*models.Question, 0, len(generated))
		for i, g := range generated {
			q := &models.Question{
				JobID:      job.ID,
				Type:       g.Type,
				Text:       g.Text,
				Difficulty: g.Difficulty,
				Skill:      g.Skill,
				MaxScore:   g.MaxScore,
				Position:   i + 1,
			}
			if q.MaxScore == 0 {
				q.MaxScore = models.DefaultMaxScore(g.Type, g.Difficulty)
			}
			if g.Type == models.MultipleChoice {
				q.Options = models.MustJSON(g.Options)
				correct := g.CorrectOption
				q.CorrectOption = &correct
			}
			if g.Type == models.Coding && g.StarterCode != "" {
				starter := g.StarterCode
				q.StarterCode = &starter
			}
			if err := s.validator.Validate(q); err != nil {
				return fmt.Errorf("generated question %d invalid: %w", i+1, err)
			}
			questions = append(questions, q)
		}

		if err := tx.Question().CreateBatch(ctx, questions); err != nil {
			return fmt.Errorf("failed to create questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Job created with question set",
		"job_id", job.ID,
		"questions", len(generated))

	return job, nil
}

func (s *jobService) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.repo.Job().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *jobService) List(ctx context.Context, filters repositories.JobFilters) ([]*models.Job, int64, error) {
	jobs, total, err := s.repo.Job().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, total, nil
}

// GetQuestions returns the job's ordered question set. Correct MCQ options
// are never serialized to clients (the model hides them).
func (s *jobService) GetQuestions(ctx context.Context, jobID uint) ([]*models.Question, error) {
	if _, err := s.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	questions, err := s.repo.Question().GetByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return questions, nil
}
