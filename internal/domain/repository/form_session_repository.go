package repository

import (
	"context"
	"errors"
	"time"

	"clinic-console/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("form session not found")
	// ErrStateConflict is returned when a transition finds the session in a
	// state other than the expected ones.
	ErrStateConflict = errors.New("form session state conflict")
)

type FormSessionRepository interface {
	// Save stores the session. The stored State is left untouched for an
	// existing session; it only changes through Transition.
	Save(ctx context.Context, session *entity.FormSession, ttl time.Duration) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FormSession, error)
	// Transition atomically moves the session to `to` if its current state is
	// one of `from`.
	Transition(ctx context.Context, id uuid.UUID, to entity.FormState, from ...entity.FormState) error
	Delete(ctx context.Context, id uuid.UUID) error
}
