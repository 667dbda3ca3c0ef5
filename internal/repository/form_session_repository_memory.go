package repository

import (
	"context"
	"sync"
	"time"

	"clinic-console/internal/domain/entity"
	domainRepo "clinic-console/internal/domain/repository"

	"github.com/google/uuid"
)

// sweepInterval bounds how often a write scans the whole store for expired
// entries.
const sweepInterval = time.Minute

type memorySession struct {
	session   *entity.FormSession
	expiresAt time.Time
}

type formSessionMemoryRepository struct {
	mu       sync.Mutex
	sessions  map[uuid.UUID]memorySession
	now       func() time.Time
	nextSweep time.Time
}

// NewFormSessionMemoryRepository keeps sessions in process memory. Used when
// no Redis is configured and by the CLI.
func NewFormSessionMemoryRepository() domainRepo.FormSessionRepository {
	return &formSessionMemoryRepository{
		sessions: make(map[uuid.UUID]memorySession),
		now:      time.Now,
	}
}

func (r *formSessionMemoryRepository) Save(ctx context.Context, session *entity.FormSession, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()

	stored := session.Clone()
	if existing, ok := r.live(session.ID); ok {
		stored.State = existing.session.State
	} else if stored.State == "" {
		stored.State = entity.FormStateIdle
	}

	r.sessions[session.ID] = memorySession{session: stored, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *formSessionMemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FormSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.live(id)
	if !ok {
		return nil, domainRepo.ErrSessionNotFound
	}
	return entry.session.Clone(), nil
}

func (r *formSessionMemoryRepository) Transition(ctx context.Context, id uuid.UUID, to entity.FormState, from ...entity.FormState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.live(id)
	if !ok {
		return domainRepo.ErrSessionNotFound
	}
	for _, state := range from {
		if entry.session.State == state {
			entry.session.State = to
			return nil
		}
	}
	return domainRepo.ErrStateConflict
}

func (r *formSessionMemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// live must be called with mu held. Expired sessions are dropped on access.
func (r *formSessionMemoryRepository) live(id uuid.UUID) (memorySession, bool) {
	entry, ok := r.sessions[id]
	if !ok {
		return memorySession{}, false
	}
	if !r.now().Before(entry.expiresAt) {
		delete(r.sessions, id)
		return memorySession{}, false
	}
	return entry, true
}

// sweep drops every expired session, at most once per sweepInterval. Must be
// called with mu held.
func (r *formSessionMemoryRepository) sweep() {
	now := r.now()
	if now.Before(r.nextSweep) {
		return
	}
	r.nextSweep = now.Add(sweepInterval)

	for id, entry := range r.sessions {
		if !now.Before(entry.expiresAt) {
			delete(r.sessions, id)
		}
	}
}
