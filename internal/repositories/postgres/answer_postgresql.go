package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

// Upsert relies on the (session_id, question_id) unique index so that a
// resubmission replaces the prior payload in a single atomic statement. The
// insert source row only exists while the owning session is open, the same
// compare-and-set shape as session completion, so a submission racing a
// concurrent completion affects zero rows instead of mutating a frozen
// answer set.
func (a *AnswerPostgreSQL) Upsert(ctx context.Context, answer *models.Answer) (bool, error) {
	res := a.db.WithContext(ctx).Exec(`
		INSERT INTO answers (session_id, question_id, selected_option, text, code, submitted_at)
		SELECT ?, ?, ?, ?, ?, ?
		WHERE EXISTS (
			SELECT 1 FROM sessions WHERE id = ? AND status = ?
		)
		ON CONFLICT (session_id, question_id) DO UPDATE SET
			selected_option = EXCLUDED.selected_option,
			text = EXCLUDED.text,
			code = EXCLUDED.code,
			submitted_at = EXCLUDED.submitted_at`,
		answer.SessionID, answer.QuestionID,
		answer.SelectedOption, answer.Text, answer.Code, answer.SubmittedAt,
		answer.SessionID, models.SessionOpen)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (a *AnswerPostgreSQL) GetBySession(ctx context.Context, sessionID uint) ([]*models.Answer, error) {
	var answers []*models.Answer
	if err := a.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *AnswerPostgreSQL) GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.Answer, error) {
	var answer models.Answer
	if err := a.db.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (a *AnswerPostgreSQL) CountBySession(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
