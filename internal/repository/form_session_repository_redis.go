package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinic-console/internal/domain/entity"
	domainRepo "clinic-console/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const formSessionKeyPrefix = "form:session:"

// transitionScript compares the state field against ARGV[2..n] and, on a
// match, sets it to ARGV[1]. Returns 1 on success, 0 on conflict and -1 when
// the session does not exist.
var transitionScript = redis.NewScript(`
	local current = redis.call('HGET', KEYS[1], 'state')
	if not current then
		return -1
	end
	for i = 2, #ARGV do
		if current == ARGV[i] then
			redis.call('HSET', KEYS[1], 'state', ARGV[1])
			return 1
		end
	end
	return 0
`)

type formSessionRedisRepository struct {
	client *redis.Client
}

// NewFormSessionRedisRepository stores each session as a hash with a "data"
// field (JSON) and a "state" field that only the transition script rewrites.
func NewFormSessionRedisRepository(client *redis.Client) domainRepo.FormSessionRepository {
	return &formSessionRedisRepository{client: client}
}

func formSessionKey(id uuid.UUID) string {
	return formSessionKeyPrefix + id.String()
}

func (r *formSessionRedisRepository) Save(ctx context.Context, session *entity.FormSession, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode form session: %w", err)
	}

	state := session.State
	if state == "" {
		state = entity.FormStateIdle
	}

	key := formSessionKey(session.ID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "data", raw)
		pipe.HSetNX(ctx, key, "state", string(state))
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (r *formSessionRedisRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FormSession, error) {
	fields, err := r.client.HGetAll(ctx, formSessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	data, ok := fields["data"]
	if !ok {
		return nil, domainRepo.ErrSessionNotFound
	}

	var session entity.FormSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("decode form session %s: %w", id, err)
	}
	session.State = entity.FormState(fields["state"])
	if session.Values == nil {
		session.Values = map[string]string{}
	}
	if session.FieldErrors == nil {
		session.FieldErrors = map[string]string{}
	}
	return &session, nil
}

func (r *formSessionRedisRepository) Transition(ctx context.Context, id uuid.UUID, to entity.FormState, from ...entity.FormState) error {
	args := make([]interface{}, 0, len(from)+1)
	args = append(args, string(to))
	for _, state := range from {
		args = append(args, string(state))
	}

	result, err := transitionScript.Run(ctx, r.client, []string{formSessionKey(id)}, args...).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainRepo.ErrSessionNotFound
		}
		return err
	}

	switch result {
	case 1:
		return nil
	case -1:
		return domainRepo.ErrSessionNotFound
	default:
		return domainRepo.ErrStateConflict
	}
}

func (r *formSessionRedisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, formSessionKey(id)).Err()
}
