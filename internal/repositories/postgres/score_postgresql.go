package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
)

type ScorePostgreSQL struct {
	db *gorm.DB
}

func NewScorePostgreSQL(db *gorm.DB) repositories.ScoreRepository {
	return &ScorePostgreSQL{db: db}
}

// CreateIfAbsent uses ON CONFLICT DO NOTHING on the session_id unique index;
// RowsAffected == 0 means a score already exists for the session.
func (s *ScorePostgreSQL) CreateIfAbsent(ctx context.Context, score *models.Score) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoNothing: true,
		}).
		Create(score)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *ScorePostgreSQL) GetBySession(ctx context.Context, sessionID uint) (*models.Score, error) {
	var score models.Score
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

// GetScoreboard returns every completed, scored session of a job joined with
// the candidate's display name. Ordering is left to the ranker.
func (s *ScorePostgreSQL) GetScoreboard(ctx context.Context, jobID uint) ([]*repositories.ScoreboardRow, error) {
	var rows []*repositories.ScoreboardRow
	err := s.db.WithContext(ctx).
		Table("scores").
		Select(`sessions.id AS session_id,
			sessions.candidate_id AS candidate_id,
			users.full_name AS candidate_name,
			scores.total_score AS total_score,
			scores.percentage AS percentage,
			sessions.completed_at AS completed_at`).
		Joins("JOIN sessions ON sessions.id = scores.session_id").
		Joins("JOIN users ON users.id = sessions.candidate_id").
		Where("sessions.job_id = ? AND sessions.status = ?", jobID, models.SessionCompleted).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
