package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hirelens/assessment-service/internal/models"
)

// Repository aggregates the per-entity repositories. WithTx runs fn against a
// transactional copy of the aggregate; returning an error rolls back.
type Repository interface {
	Job() JobRepository
	Question() QuestionRepository
	Session() SessionRepository
	Answer() AnswerRepository
	Score() ScoreRepository
	User() UserRepository

	WithTx(ctx context.Context, fn func(Repository) error) error
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	List(ctx context.Context, filters JobFilters) ([]*models.Job, int64, error)
}

type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByJob(ctx context.Context, jobID uint) ([]*models.Question, error) // ordered by position
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
	CountByJob(ctx context.Context, jobID uint) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	GetOpen(ctx context.Context, candidateID string, jobID uint) (*models.Session, error)
	GetByCandidate(ctx context.Context, candidateID string) ([]*models.Session, error)

	// CompleteIfOpen performs the atomic open -> completed transition.
	// It reports false when the session was not open (already completed).
	CompleteIfOpen(ctx context.Context, id uint, completedAt time.Time) (bool, error)
}

type AnswerRepository interface {
	// Upsert atomically replaces any prior answer for the same
	// (session, question) pair; last write wins. The write carries the
	// session's open status as a predicate in the same statement and
	// reports false when the session is no longer open, so an answer can
	// never land on a completed session.
	Upsert(ctx context.Context, answer *models.Answer) (bool, error)
	GetBySession(ctx context.Context, sessionID uint) ([]*models.Answer, error)
	GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.Answer, error)
	CountBySession(ctx context.Context, sessionID uint) (int64, error)
}

type ScoreRepository interface {
	// CreateIfAbsent inserts the score unless one already exists for the
	// session. It reports false when a concurrent writer got there first.
	CreateIfAbsent(ctx context.Context, score *models.Score) (bool, error)
	GetBySession(ctx context.Context, sessionID uint) (*models.Score, error)
	GetScoreboard(ctx context.Context, jobID uint) ([]*ScoreboardRow, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ===== SHARED FILTER STRUCTS =====

type JobFilters struct {
	RecruiterID *string `json:"recruiter_id"`
	ActiveOnly  bool    `json:"active_only"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
}

// ===== SHARED RESULT STRUCTS =====

// ScoreboardRow is one completed, scored session of a job joined with the
// candidate's identity; the raw material for ranking and percentiles.
type ScoreboardRow struct {
	SessionID     uint      `json:"session_id"`
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	TotalScore    float64   `json:"total_score"`
	Percentage    float64   `json:"percentage"`
	CompletedAt   time.Time `json:"completed_at"`
}

// ===== ERROR HELPERS =====

// IsNotFoundError checks whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks whether err represents a unique constraint
// violation, such as the partial open-session index firing under a race.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
