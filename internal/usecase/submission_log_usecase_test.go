package usecase

import (
	"context"
	"io"
	"testing"

	"clinic-console/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockSubmissionLogRepository struct {
	FindAllFunc  func(db *gorm.DB, limit int) ([]entity.SubmissionLog, error)
	FindByIDFunc func(db *gorm.DB, id int64) (*entity.SubmissionLog, error)
}

func (m *mockSubmissionLogRepository) Create(db *gorm.DB, log *entity.SubmissionLog) error {
	return nil
}

func (m *mockSubmissionLogRepository) FindAll(db *gorm.DB, limit int) ([]entity.SubmissionLog, error) {
	return m.FindAllFunc(db, limit)
}

func (m *mockSubmissionLogRepository) FindByID(db *gorm.DB, id int64) (*entity.SubmissionLog, error) {
	return m.FindByIDFunc(db, id)
}

func TestSubmissionLogUsecase_Disabled(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	uc := NewSubmissionLogUsecase(nil, log, &mockSubmissionLogRepository{})

	_, err := uc.GetAllSubmissionLogs(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionLogDisabled)

	_, err = uc.GetSubmissionLog(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSubmissionLogDisabled)
}

func TestSubmissionLogUsecase_WithDatabase(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 user=test dbname=test"}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := &mockSubmissionLogRepository{
		FindAllFunc: func(db *gorm.DB, limit int) ([]entity.SubmissionLog, error) {
			assert.Equal(t, submissionLogListLimit, limit)
			return []entity.SubmissionLog{
				{ID: 2, FormKind: entity.FormKindReceipt, Status: entity.SubmissionStatusFailed, StatusCode: 400},
				{ID: 1, FormKind: entity.FormKindPatient, Status: entity.SubmissionStatusSucceeded},
			}, nil
		},
		FindByIDFunc: func(db *gorm.DB, id int64) (*entity.SubmissionLog, error) {
			if id == 1 {
				return &entity.SubmissionLog{ID: 1, FormKind: entity.FormKindPatient}, nil
			}
			return nil, nil
		},
	}
	uc := NewSubmissionLogUsecase(db, log, repo)

	list, err := uc.GetAllSubmissionLogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "receipt", list.Logs[0].FormKind)
	assert.Equal(t, "failed", list.Logs[0].Status)

	one, err := uc.GetSubmissionLog(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "patient", one.FormKind)

	_, err = uc.GetSubmissionLog(context.Background(), 9)
	assert.ErrorIs(t, err, ErrSubmissionLogNotFound)
}
