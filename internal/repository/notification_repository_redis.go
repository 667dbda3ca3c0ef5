package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"clinic-console/internal/domain/entity"
	domainRepo "clinic-console/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const notificationKeyPrefix = "notification:form:"

// pushNotificationScript adds ARGV[2] scored by ARGV[1] and extends the key's
// TTL to ARGV[3] milliseconds, never shortening it.
var pushNotificationScript = redis.NewScript(`
	redis.call('ZADD', KEYS[1], ARGV[1], ARGV[2])
	if redis.call('PTTL', KEYS[1]) < tonumber(ARGV[3]) then
		redis.call('PEXPIRE', KEYS[1], ARGV[3])
	end
	return 1
`)

type notificationRedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewNotificationRedisRepository keeps one sorted set per form, scored by
// expiry time. The set expires with its last notification.
func NewNotificationRedisRepository(client *redis.Client) domainRepo.NotificationRepository {
	return &notificationRedisRepository{client: client, now: time.Now}
}

func notificationKey(formID uuid.UUID) string {
	return notificationKeyPrefix + formID.String()
}

func (r *notificationRedisRepository) Push(ctx context.Context, notification *entity.Notification) error {
	raw, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	ttl := notification.ExpiresAt.Sub(notification.CreatedAt)
	if ttl < time.Millisecond {
		ttl = time.Millisecond
	}
	return pushNotificationScript.Run(ctx, r.client, []string{notificationKey(notification.FormID)},
		notification.ExpiresAt.UnixMilli(), string(raw), ttl.Milliseconds()).Err()
}

func (r *notificationRedisRepository) FindActive(ctx context.Context, formID uuid.UUID) ([]entity.Notification, error) {
	key := notificationKey(formID)

	var members *redis.StringSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(r.now().UnixMilli(), 10))
		members = pipe.ZRange(ctx, key, 0, -1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifications, err := decodeNotifications(members.Val())
	if err != nil {
		return nil, err
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.Before(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *notificationRedisRepository) Dismiss(ctx context.Context, formID, id uuid.UUID) error {
	key := notificationKey(formID)
	members, err := r.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return err
	}

	for _, member := range members {
		var n entity.Notification
		if err := json.Unmarshal([]byte(member), &n); err != nil {
			return fmt.Errorf("decode notification: %w", err)
		}
		if n.ID == id {
			return r.client.ZRem(ctx, key, member).Err()
		}
	}
	return nil
}

func (r *notificationRedisRepository) DeleteByForm(ctx context.Context, formID uuid.UUID) error {
	return r.client.Del(ctx, notificationKey(formID)).Err()
}

func decodeNotifications(members []string) ([]entity.Notification, error) {
	if len(members) == 0 {
		return nil, nil
	}
	notifications := make([]entity.Notification, 0, len(members))
	for _, member := range members {
		var n entity.Notification
		if err := json.Unmarshal([]byte(member), &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
