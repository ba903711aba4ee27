package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose TTL expired cannot release a lock someone else acquired since.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-key mutual exclusion lock shared by every service
// instance pointing at the same Redis database.
type RedisLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisLocker connects to Redis and verifies the connection.
func NewRedisLocker(ctx context.Context, addr, password string, db int, key string, ttl time.Duration) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisLocker{client: client, key: key, ttl: ttl}, nil
}

// TryLock acquires the lock without waiting. ok is false when another holder
// owns it. The returned release func must be called once the work is done.
func (l *RedisLocker) TryLock(ctx context.Context) (release func(), ok bool, err error) {
	token := uuid.NewString()
	ok, err = l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		// Use a fresh context: the work context may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Err()
	}
	return release, true, nil
}

// Ping checks the Redis connection.
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
