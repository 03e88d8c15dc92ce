package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const (
	seedLockKey = "fare:seed:lock"
	seedLockTTL = 30 * time.Second
)

// Release only deletes the key when it still holds our fence token, so
// a replica whose TTL expired cannot drop a lock another replica took.
const seedReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// seedLock serializes default-rate seeding across replicas at startup.
// The TTL bounds how long a crashed replica can block the others.
type seedLock struct {
	client  *redis.Client
	release *redis.Script
}

func newSeedLock(client *redis.Client) *seedLock {
	if client == nil {
		return nil
	}
	return &seedLock{
		client:  client,
		release: redis.NewScript(seedReleaseScript),
	}
}

// acquire attempts to take the seed lock. On success it returns the
// fence token needed to release it.
func (l *seedLock) acquire(ctx context.Context) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", true, nil
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, seedLockKey, token, seedLockTTL).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *seedLock) releaseToken(ctx context.Context, token string) error {
	if l == nil || l.client == nil || token == "" {
		return nil
	}
	return l.release.Run(ctx, l.client, []string{seedLockKey}, token).Err()
}
