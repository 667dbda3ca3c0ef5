package service

import (
	"context"

	"clinic-console/internal/domain/entity"
	"clinic-console/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SubmissionAttempt is one create request that reached the clinic API.
type SubmissionAttempt struct {
	FormID     uuid.UUID
	FormKind   entity.FormKind
	Endpoint   string
	Succeeded  bool
	StatusCode int
	Message    string
	Payload    interface{}
}

type SubmissionAuditService interface {
	Record(ctx context.Context, attempt SubmissionAttempt) error
}

type submissionAuditService struct {
	db      *gorm.DB
	log     *logrus.Logger
	logRepo repository.SubmissionLogRepository
}

// NewSubmissionAuditService stores attempts in the database. With a nil db
// attempts are only written to the log.
func NewSubmissionAuditService(db *gorm.DB, log *logrus.Logger, logRepo repository.SubmissionLogRepository) SubmissionAuditService {
	return &submissionAuditService{
		db:      db,
		log:     log,
		logRepo: logRepo,
	}
}

func (s *submissionAuditService) Record(ctx context.Context, attempt SubmissionAttempt) error {
	status := entity.SubmissionStatusFailed
	if attempt.Succeeded {
		status = entity.SubmissionStatusSucceeded
	}

	fields := logrus.Fields{
		"form_id":     attempt.FormID,
		"form_kind":   attempt.FormKind,
		"endpoint":    attempt.Endpoint,
		"status":      status,
		"status_code": attempt.StatusCode,
	}
	if attempt.Succeeded {
		s.log.WithFields(fields).Info("Submission succeeded")
	} else {
		s.log.WithFields(fields).Warnf("Submission failed: %s", attempt.Message)
	}

	if s.db == nil {
		return nil
	}

	payload, err := entity.ToJSON(attempt.Payload)
	if err != nil {
		s.log.Warnf("Failed to encode submission payload: %+v", err)
		payload = nil
	}

	submissionLog := &entity.SubmissionLog{
		FormID:     attempt.FormID,
		FormKind:   attempt.FormKind,
		Endpoint:   attempt.Endpoint,
		Status:     status,
		StatusCode: attempt.StatusCode,
		Message:    attempt.Message,
		Payload:    payload,
	}

	if err := s.logRepo.Create(s.db.WithContext(ctx), submissionLog); err != nil {
		s.log.Warnf("Failed to create submission log: %+v", err)
		return err
	}

	return nil
}
