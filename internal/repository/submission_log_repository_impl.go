package repository

import (
	"errors"

	"clinic-console/internal/domain/entity"
	domainRepo "clinic-console/internal/domain/repository"

	"gorm.io/gorm"
)

type submissionLogRepository struct{}

func NewSubmissionLogRepository() domainRepo.SubmissionLogRepository {
	return &submissionLogRepository{}
}

func (r *submissionLogRepository) Create(db *gorm.DB, log *entity.SubmissionLog) error {
	return db.Create(log).Error
}

func (r *submissionLogRepository) FindAll(db *gorm.DB, limit int) ([]entity.SubmissionLog, error) {
	var logs []entity.SubmissionLog
	query := db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *submissionLogRepository) FindByID(db *gorm.DB, id int64) (*entity.SubmissionLog, error) {
	var log entity.SubmissionLog
	err := db.First(&log, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}
