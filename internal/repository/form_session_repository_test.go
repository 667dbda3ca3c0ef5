package repository

import (
	"context"
	"testing"
	"time"

	"clinic-console/internal/domain/entity"
	domainRepo "clinic-console/internal/domain/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *entity.FormSession {
	return &entity.FormSession{
		ID:          uuid.New(),
		Kind:        entity.FormKindPatient,
		Values:      map[string]string{"nombreApellido": "Ana"},
		FieldErrors: map[string]string{},
		State:       entity.FormStateIdle,
		Patients:    entity.Patients{{ID: 1, FullName: "Ana"}},
	}
}

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// exerciseSessionRepository runs the behaviour both implementations share.
func exerciseSessionRepository(t *testing.T, repo domainRepo.FormSessionRepository) {
	ctx := context.Background()
	session := newTestSession()

	require.NoError(t, repo.Save(ctx, session, time.Minute))

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", found.Values["nombreApellido"])
	assert.Equal(t, entity.FormStateIdle, found.State)
	assert.Len(t, found.Patients, 1)

	// idle -> pending succeeds once
	require.NoError(t, repo.Transition(ctx, session.ID, entity.FormStatePending, entity.SubmittableStates...))
	err = repo.Transition(ctx, session.ID, entity.FormStatePending, entity.SubmittableStates...)
	assert.ErrorIs(t, err, domainRepo.ErrStateConflict)

	// Save never rewrites the state
	session.State = entity.FormStateIdle
	session.Values["nombreApellido"] = "Ana María"
	require.NoError(t, repo.Save(ctx, session, time.Minute))
	found, err = repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.FormStatePending, found.State)
	assert.Equal(t, "Ana María", found.Values["nombreApellido"])

	require.NoError(t, repo.Transition(ctx, session.ID, entity.FormStateFailed, entity.FormStatePending))
	require.NoError(t, repo.Transition(ctx, session.ID, entity.FormStatePending, entity.SubmittableStates...))

	err = repo.Transition(ctx, uuid.New(), entity.FormStatePending, entity.SubmittableStates...)
	assert.ErrorIs(t, err, domainRepo.ErrSessionNotFound)

	require.NoError(t, repo.Delete(ctx, session.ID))
	_, err = repo.FindByID(ctx, session.ID)
	assert.ErrorIs(t, err, domainRepo.ErrSessionNotFound)
}

func TestFormSessionMemoryRepository(t *testing.T) {
	exerciseSessionRepository(t, NewFormSessionMemoryRepository())
}

func TestFormSessionMemoryRepository_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := &formSessionMemoryRepository{
		sessions: make(map[uuid.UUID]memorySession),
		now:      func() time.Time { return now },
	}
	session := newTestSession()
	require.NoError(t, repo.Save(context.Background(), session, time.Minute))

	now = now.Add(2 * time.Minute)
	_, err := repo.FindByID(context.Background(), session.ID)
	assert.ErrorIs(t, err, domainRepo.ErrSessionNotFound)
}

func TestFormSessionMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewFormSessionMemoryRepository()
	session := newTestSession()
	require.NoError(t, repo.Save(context.Background(), session, time.Minute))

	session.Values["nombreApellido"] = "mutated"
	found, err := repo.FindByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", found.Values["nombreApellido"])
}

func TestFormSessionRedisRepository(t *testing.T) {
	_, client := newRedisClient(t)
	exerciseSessionRepository(t, NewFormSessionRedisRepository(client))
}

func TestFormSessionRedisRepository_Expiry(t *testing.T) {
	mr, client := newRedisClient(t)
	repo := NewFormSessionRedisRepository(client)
	session := newTestSession()
	require.NoError(t, repo.Save(context.Background(), session, time.Minute))

	mr.FastForward(2 * time.Minute)
	_, err := repo.FindByID(context.Background(), session.ID)
	assert.ErrorIs(t, err, domainRepo.ErrSessionNotFound)
}

func TestFormSessionMemoryRepository_SaveEvictsAbandonedSessions(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := &formSessionMemoryRepository{
		sessions: make(map[uuid.UUID]memorySession),
		now:      func() time.Time { return now },
	}
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, repo.Save(ctx, newTestSession(), time.Minute))
	}
	require.Len(t, repo.sessions, 1000)

	now = now.Add(time.Hour)
	fresh := newTestSession()
	require.NoError(t, repo.Save(ctx, fresh, time.Minute))

	assert.Len(t, repo.sessions, 1)
	_, err := repo.FindByID(ctx, fresh.ID)
	assert.NoError(t, err)
}
