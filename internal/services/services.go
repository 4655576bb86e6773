package services

import (
	"context"
	"time"

	"github.com/hirelens/assessment-service/internal/cache"
	"github.com/hirelens/assessment-service/internal/config"
	"github.com/hirelens/assessment-service/internal/events"
	"github.com/hirelens/assessment-service/internal/grading"
	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
	"github.com/hirelens/assessment-service/internal/utils"
)

// ===== SERVICE INTERFACES =====

type JobService interface {
	Create(ctx context.Context, req *CreateJobRequest, recruiterID string) (*models.Job, error)
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	List(ctx context.Context, filters repositories.JobFilters) ([]*models.Job, int64, error)
	GetQuestions(ctx context.Context, jobID uint) ([]*models.Question, error)
}

type SessionService interface {
	Create(ctx context.Context, jobID uint, candidateID string) (*models.Session, error)
	GetByID(ctx context.Context, id uint, candidateID string) (*models.Session, error)
	GetQuestions(ctx context.Context, sessionID uint, candidateID string) ([]*models.Question, error)
	SubmitAnswer(ctx context.Context, sessionID uint, req *SubmitAnswerRequest, candidateID string) error
	Complete(ctx context.Context, sessionID uint, candidateID string) (*CompleteResult, error)
	Progress(ctx context.Context, sessionID uint, candidateID string) (*SessionProgress, error)
}

type ScoringService interface {
	// ScoreSession runs the aggregator for a completed session. Safe to retry
	// for a completed-but-unscored session; a second successful run for the
	// same session returns the already-persisted record.
	ScoreSession(ctx context.Context, sessionID uint) (*models.Score, error)
	// GetResults restricts access to the session's candidate or the job's
	// recruiter; an empty requesterID skips the ownership check.
	GetResults(ctx context.Context, sessionID uint, requesterID string) (*models.Score, error)
}

type LeaderboardService interface {
	Get(ctx context.Context, jobID uint) ([]LeaderboardEntry, error)
	Invalidate(ctx context.Context, jobID uint)
	ExportXLSX(ctx context.Context, jobID uint) ([]byte, error)
}

// ServiceManager bundles the services for handler wiring.
type ServiceManager interface {
	Job() JobService
	Session() SessionService
	Scoring() ScoringService
	Leaderboard() LeaderboardService
}

// ===== REQUEST / RESPONSE STRUCTS =====

type CreateJobRequest struct {
	Title            string  `json:"title" validate:"required,min=1,max=200"`
	Description      string  `json:"description" validate:"required,min=1"`
	DurationMinutes  int     `json:"duration_minutes" validate:"omitempty,min=5,max=300"`
	CutoffPercentage float64 `json:"cutoff_percentage" validate:"omitempty,min=0,max=100"`
}

// SubmitAnswerRequest carries one typed answer payload. Exactly one of the
// payload fields must be set, matching the question's declared type.
type SubmitAnswerRequest struct {
	QuestionID     uint    `json:"question_id" validate:"required"`
	SelectedOption *string `json:"selected_option,omitempty"`
	Text           *string `json:"text,omitempty"`
	Code           *string `json:"code,omitempty"`
}

// CompleteResult reports the outcome of completing a session. Score is nil
// when the grading collaborator was unavailable; the session is completed
// regardless and scoring can be retried.
type CompleteResult struct {
	Session        *models.Session `json:"session"`
	Score          *models.Score   `json:"score,omitempty"`
	ScoringPending bool            `json:"scoring_pending"`
}

// SessionProgress reports, per snapshot question, whether an effective
// answer exists.
type SessionProgress struct {
	SessionID    uint                 `json:"session_id"`
	Total        int                  `json:"total"`
	Answered     int                  `json:"answered"`
	AnsweredByID map[uint]bool        `json:"answered_by_id"`
	Status       models.SessionStatus `json:"status"`
}

// LeaderboardEntry is one derived ranking row; never persisted.
type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	CandidateName string    `json:"candidate_name"`
	TotalScore    float64   `json:"total_score"`
	Percentage    float64   `json:"percentage"`
	CompletedAt   time.Time `json:"completed_at"`
}

// ===== MANAGER =====

type serviceManager struct {
	job         JobService
	session     SessionService
	scoring     ScoringService
	leaderboard LeaderboardService
}

type ManagerDeps struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Grader    grading.Grader
	Reporter  grading.Reporter
	Generator grading.Generator
	Logger    utils.Logger
	Validator *utils.Validator
	Scoring   config.ScoringConfig
}

func NewServiceManager(deps ManagerDeps) ServiceManager {
	leaderboard := NewLeaderboardService(deps.Repo, deps.Cache, deps.Logger)
	scoring := NewScoringService(deps.Repo, deps.Grader, deps.Reporter, leaderboard, deps.Publisher, deps.Logger, deps.Scoring)
	return &serviceManager{
		job:         NewJobService(deps.Repo, deps.Generator, deps.Logger, deps.Validator),
		session:     NewSessionService(deps.Repo, scoring, deps.Publisher, deps.Logger, deps.Validator),
		scoring:     scoring,
		leaderboard: leaderboard,
	}
}

func (m *serviceManager) Job() JobService                 { return m.job }
func (m *serviceManager) Session() SessionService         { return m.session }
func (m *serviceManager) Scoring() ScoringService         { return m.scoring }
func (m *serviceManager) Leaderboard() LeaderboardService { return m.leaderboard }
