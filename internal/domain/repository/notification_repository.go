package repository

import (
	"context"

	"clinic-console/internal/domain/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Push(ctx context.Context, notification *entity.Notification) error
	// FindActive returns the unexpired notifications of a form, oldest first.
	FindActive(ctx context.Context, formID uuid.UUID) ([]entity.Notification, error)
	Dismiss(ctx context.Context, formID, id uuid.UUID) error
	DeleteByForm(ctx context.Context, formID uuid.UUID) error
}
