package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hirelens/assessment-service/internal/config"
	"github.com/hirelens/assessment-service/internal/models"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Question{},
		&models.Session{},
		&models.Answer{},
		&models.Score{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Backs the at-most-one-open-session-per-candidate-per-job invariant;
	// AutoMigrate cannot express partial indexes.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_open
		ON sessions (candidate_id, job_id) WHERE status = 'open'`).Error; err != nil {
		return nil, fmt.Errorf("failed to create open-session index: %w", err)
	}

	return db, nil
}
