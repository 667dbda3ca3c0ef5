package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationSeverity string

const (
	NotificationSuccess NotificationSeverity = "success"
	NotificationError   NotificationSeverity = "error"
	NotificationInfo    NotificationSeverity = "info"
)

// Notification is a transient message attached to a form session. It is
// dismissed automatically once ExpiresAt passes.
type Notification struct {
	ID        uuid.UUID            `json:"id"`
	FormID    uuid.UUID            `json:"form_id"`
	Severity  NotificationSeverity `json:"severity"`
	Message   string               `json:"message"`
	CreatedAt time.Time            `json:"created_at"`
	ExpiresAt time.Time            `json:"expires_at"`
}

func (n *Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
