package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("session extend failed")
	ErrSessionDeleted   = errors.New("session delete failed")
)

const (
	OperatorSessionPrefix = "session:operator:token"
	OperatorSessionExpire = 60 * 30
)

// SessionRepository 运营人员登录态，一个账号同一时间只保留一个 access token
type SessionRepository struct {
	Client redis.Cmdable
}

func NewSessionRepository(client redis.Cmdable) *SessionRepository {
	return &SessionRepository{Client: client}
}

func sessionKey(operatorID uint64) string {
	return fmt.Sprintf("%s:%d", OperatorSessionPrefix, operatorID)
}

func (r *SessionRepository) Add(ctx context.Context, operatorID uint64, token string) error {
	if err := r.Client.Set(ctx, sessionKey(operatorID), token, time.Second*OperatorSessionExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, operatorID uint64) (string, error) {
	token, err := r.Client.Get(ctx, sessionKey(operatorID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *SessionRepository) Extend(ctx context.Context, operatorID uint64) error {
	if err := r.Client.Expire(ctx, sessionKey(operatorID), time.Second*OperatorSessionExpire).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, operatorID uint64) error {
	if err := r.Client.Del(ctx, sessionKey(operatorID)).Err(); err != nil {
		return ErrSessionDeleted
	}
	return nil
}
