package repository

import (
	"clinic-console/internal/domain/entity"

	"gorm.io/gorm"
)

type SubmissionLogRepository interface {
	Create(db *gorm.DB, log *entity.SubmissionLog) error
	FindAll(db *gorm.DB, limit int) ([]entity.SubmissionLog, error)
	FindByID(db *gorm.DB, id int64) (*entity.SubmissionLog, error)
}
