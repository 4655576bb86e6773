package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
)

type JobPostgreSQL struct {
	db *gorm.DB
}

func NewJobPostgreSQL(db *gorm.DB) repositories.JobRepository {
	return &JobPostgreSQL{db: db}
}

func (j *JobPostgreSQL) Create(ctx context.Context, job *models.Job) error {
	return j.db.WithContext(ctx).Create(job).Error
}

func (j *JobPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := j.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *JobPostgreSQL) List(ctx context.Context, filters repositories.JobFilters) ([]*models.Job, int64, error) {
	var jobs []*models.Job
	var total int64

	query := j.db.WithContext(ctx).Model(&models.Job{})
	if filters.RecruiterID != nil {
		query = query.Where("recruiter_id = ?", *filters.RecruiterID)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}
