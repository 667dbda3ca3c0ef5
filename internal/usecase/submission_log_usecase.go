package usecase

import (
	"context"
	"errors"

	"clinic-console/internal/converter"
	"clinic-console/internal/delivery/dto"
	"clinic-console/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const submissionLogListLimit = 100

var (
	ErrSubmissionLogNotFound = errors.New("submission log not found")
	// ErrSubmissionLogDisabled is returned when no database is configured.
	ErrSubmissionLogDisabled = errors.New("submission log is disabled")
)

type SubmissionLogUsecase interface {
	GetAllSubmissionLogs(ctx context.Context) (*dto.SubmissionLogListResponse, error)
	GetSubmissionLog(ctx context.Context, id int64) (*dto.SubmissionLogResponse, error)
}

type submissionLogUsecase struct {
	db      *gorm.DB
	log     *logrus.Logger
	logRepo repository.SubmissionLogRepository
}

func NewSubmissionLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	logRepo repository.SubmissionLogRepository,
) SubmissionLogUsecase {
	return &submissionLogUsecase{
		db:      db,
		log:     log,
		logRepo: logRepo,
	}
}

func (u *submissionLogUsecase) GetAllSubmissionLogs(ctx context.Context) (*dto.SubmissionLogListResponse, error) {
	if u.db == nil {
		return nil, ErrSubmissionLogDisabled
	}

	logs, err := u.logRepo.FindAll(u.db.WithContext(ctx), submissionLogListLimit)
	if err != nil {
		u.log.Warnf("Failed to find submission logs: %+v", err)
		return nil, err
	}

	return &dto.SubmissionLogListResponse{
		Logs:  converter.SubmissionLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *submissionLogUsecase) GetSubmissionLog(ctx context.Context, id int64) (*dto.SubmissionLogResponse, error) {
	if u.db == nil {
		return nil, ErrSubmissionLogDisabled
	}

	submissionLog, err := u.logRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find submission log %d: %+v", id, err)
		return nil, err
	}
	if submissionLog == nil {
		return nil, ErrSubmissionLogNotFound
	}

	return converter.SubmissionLogToResponse(submissionLog), nil
}
