package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirelens/assessment-service/internal/repositories"
)

type gormRepository struct {
	db       *gorm.DB
	job      repositories.JobRepository
	question repositories.QuestionRepository
	session  repositories.SessionRepository
	answer   repositories.AnswerRepository
	score    repositories.ScoreRepository
	user     repositories.UserRepository
}

// NewRepository builds the gorm-backed repository aggregate.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:       db,
		job:      NewJobPostgreSQL(db),
		question: NewQuestionPostgreSQL(db),
		session:  NewSessionPostgreSQL(db),
		answer:   NewAnswerPostgreSQL(db),
		score:    NewScorePostgreSQL(db),
		user:     NewUserPostgreSQL(db),
	}
}

func (r *gormRepository) Job() repositories.JobRepository           { return r.job }
func (r *gormRepository) Question() repositories.QuestionRepository { return r.question }
func (r *gormRepository) Session() repositories.SessionRepository   { return r.session }
func (r *gormRepository) Answer() repositories.AnswerRepository     { return r.answer }
func (r *gormRepository) Score() repositories.ScoreRepository       { return r.score }
func (r *gormRepository) User() repositories.UserRepository         { return r.user }

func (r *gormRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
