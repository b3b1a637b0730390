package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const turnLockPrefix = "turnlock:"

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by another turn is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// TurnLock serializes conversation turns per phone number. A second message
// from the same number arriving mid-turn waits until the first turn's
// session write has landed, instead of racing the read-modify-write.
type TurnLock struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

// NewTurnLock builds a TurnLock over the given Redis client. The TTL bounds
// how long a crashed turn can hold a number hostage.
func NewTurnLock(client *redis.Client) *TurnLock {
	return &TurnLock{
		client: client,
		ttl:    15 * time.Second,
		retry:  100 * time.Millisecond,
	}
}

// Acquire blocks until the lock for the phone number is held or the context
// is done. It returns a release func that must be called when the turn ends.
func (l *TurnLock) Acquire(ctx context.Context, phoneNumber string) (func(), error) {
	key := turnLockPrefix + phoneNumber
	token := uuid.New().String()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire turn lock for %s: %w", phoneNumber, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gave up waiting for turn lock for %s: %w", phoneNumber, ctx.Err())
		case <-time.After(l.retry):
		}
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, nil
}
