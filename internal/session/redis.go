package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisBackend はセッションを Redis に保存します。
// 複数インスタンスで同じセッションテーブルを共有する場合に使います。
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend は既存のクライアントから RedisBackend を作成します。
func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

// NewRedisBackendFromURL は URL から接続し、疎通を確認します。
func NewRedisBackendFromURL(ctx context.Context, redisURL string) (*RedisBackend, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisBackend{rdb: rdb}, nil
}

func (b *RedisBackend) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return b.rdb.Set(ctx, sessionKey(s.Token), payload, ttl).Err()
}

func (b *RedisBackend) Get(ctx context.Context, token string) (*Session, error) {
	data, err := b.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *RedisBackend) Delete(ctx context.Context, token string) error {
	return b.rdb.Del(ctx, sessionKey(token)).Err()
}

// Close は Redis クライアントを閉じます。
func (b *RedisBackend) Close() error {
	return b.rdb.Close()
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
