package repository

import (
	"context"
	"testing"
	"time"

	"clinic-console/internal/domain/entity"
	domainRepo "clinic-console/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotification(formID uuid.UUID, createdAt time.Time, message string) *entity.Notification {
	return &entity.Notification{
		ID:        uuid.New(),
		FormID:    formID,
		Severity:  entity.NotificationSuccess,
		Message:   message,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(6 * time.Second),
	}
}

func exerciseNotificationRepository(t *testing.T, repo domainRepo.NotificationRepository, now time.Time) {
	ctx := context.Background()
	formID := uuid.New()
	other := uuid.New()

	first := newTestNotification(formID, now, "first")
	second := newTestNotification(formID, now.Add(time.Millisecond), "second")
	require.NoError(t, repo.Push(ctx, second))
	require.NoError(t, repo.Push(ctx, first))
	require.NoError(t, repo.Push(ctx, newTestNotification(other, now, "other form")))

	active, err := repo.FindActive(ctx, formID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Message)
	assert.Equal(t, "second", active[1].Message)

	require.NoError(t, repo.Dismiss(ctx, formID, first.ID))
	active, err = repo.FindActive(ctx, formID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)

	require.NoError(t, repo.DeleteByForm(ctx, formID))
	active, err = repo.FindActive(ctx, formID)
	require.NoError(t, err)
	assert.Empty(t, active)

	active, err = repo.FindActive(ctx, other)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestNotificationMemoryRepository(t *testing.T) {
	now := time.Now()
	exerciseNotificationRepository(t, newNotificationMemoryRepository(func() time.Time { return now }), now)
}

func TestNotificationMemoryRepository_AutoDismiss(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := newNotificationMemoryRepository(func() time.Time { return now })
	formID := uuid.New()
	require.NoError(t, repo.Push(context.Background(), newTestNotification(formID, now, "hello")))

	now = now.Add(6 * time.Second)
	active, err := repo.FindActive(context.Background(), formID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestNotificationRedisRepository(t *testing.T) {
	_, client := newRedisClient(t)
	exerciseNotificationRepository(t, NewNotificationRedisRepository(client), time.Now())
}

func TestNotificationRedisRepository_AutoDismiss(t *testing.T) {
	mr, client := newRedisClient(t)
	repo := NewNotificationRedisRepository(client)
	formID := uuid.New()
	require.NoError(t, repo.Push(context.Background(), newTestNotification(formID, time.Now(), "hello")))

	mr.FastForward(7 * time.Second)
	active, err := repo.FindActive(context.Background(), formID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestNotificationMemoryRepository_PushEvictsUnreadForms(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := newNotificationMemoryRepository(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, repo.Push(ctx, newTestNotification(uuid.New(), now, "unread")))
	}
	require.Len(t, repo.notifications, 100)

	now = now.Add(time.Hour)
	formID := uuid.New()
	require.NoError(t, repo.Push(ctx, newTestNotification(formID, now, "fresh")))

	assert.Len(t, repo.notifications, 1)
	active, err := repo.FindActive(ctx, formID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestNotificationRedisRepository_OneSetPerForm(t *testing.T) {
	mr, client := newRedisClient(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	now := created
	repo := &notificationRedisRepository{client: client, now: func() time.Time { return now }}
	ctx := context.Background()
	formID := uuid.New()

	long := newTestNotification(formID, created, "long")
	short := newTestNotification(formID, created, "short")
	short.ExpiresAt = created.Add(time.Second)
	require.NoError(t, repo.Push(ctx, long))
	require.NoError(t, repo.Push(ctx, short))

	assert.Equal(t, []string{notificationKey(formID)}, mr.Keys())
	// the shorter notification does not cut the set's lifetime
	assert.Equal(t, 6*time.Second, mr.TTL(notificationKey(formID)))

	now = created.Add(2 * time.Second)
	active, err := repo.FindActive(ctx, formID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "long", active[0].Message)
}
