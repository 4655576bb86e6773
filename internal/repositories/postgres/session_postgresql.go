package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetOpen(ctx context.Context, candidateID string, jobID uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).
		Where("candidate_id = ? AND job_id = ? AND status = ?", candidateID, jobID, models.SessionOpen).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByCandidate(ctx context.Context, candidateID string) ([]*models.Session, error) {
	var sessions []*models.Session
	if err := s.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// CompleteIfOpen transitions open -> completed with a conditional update.
// RowsAffected == 0 means another writer already completed the session.
func (s *SessionPostgreSQL) CompleteIfOpen(ctx context.Context, id uint, completedAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND status = ?", id, models.SessionOpen).
		Updates(map[string]interface{}{
			"status":       models.SessionCompleted,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
