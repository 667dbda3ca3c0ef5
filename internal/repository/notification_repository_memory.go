package repository

import (
	"context"
	"sync"
	"time"

	"clinic-console/internal/domain/entity"
	domainRepo "clinic-console/internal/domain/repository"

	"github.com/google/uuid"
)

type notificationMemoryRepository struct {
	mu            sync.Mutex
	notifications map[uuid.UUID][]entity.Notification
	now           func() time.Time
	nextSweep     time.Time
}

func NewNotificationMemoryRepository() domainRepo.NotificationRepository {
	return newNotificationMemoryRepository(time.Now)
}

func newNotificationMemoryRepository(now func() time.Time) *notificationMemoryRepository {
	return &notificationMemoryRepository{
		notifications: make(map[uuid.UUID][]entity.Notification),
		now:           now,
	}
}

func (r *notificationMemoryRepository) Push(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()
	r.notifications[notification.FormID] = append(r.notifications[notification.FormID], *notification)
	return nil
}

func (r *notificationMemoryRepository) FindActive(ctx context.Context, formID uuid.UUID) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := r.prune(formID, r.now())
	return append([]entity.Notification(nil), active...), nil
}

func (r *notificationMemoryRepository) Dismiss(ctx context.Context, formID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.notifications[formID]
	for i, n := range list {
		if n.ID == id {
			r.notifications[formID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *notificationMemoryRepository) DeleteByForm(ctx context.Context, formID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.notifications, formID)
	return nil
}

// prune keeps the unexpired notifications of a form. Must be called with mu
// held.
func (r *notificationMemoryRepository) prune(formID uuid.UUID, now time.Time) []entity.Notification {
	var active []entity.Notification
	for _, n := range r.notifications[formID] {
		if !n.Expired(now) {
			active = append(active, n)
		}
	}

	if len(active) == 0 {
		delete(r.notifications, formID)
	} else {
		r.notifications[formID] = active
	}
	return active
}

// sweep prunes every form, at most once per sweepInterval. Must be called
// with mu held.
func (r *notificationMemoryRepository) sweep() {
	now := r.now()
	if now.Before(r.nextSweep) {
		return
	}
	r.nextSweep = now.Add(sweepInterval)

	for formID := range r.notifications {
		r.prune(formID, now)
	}
}
