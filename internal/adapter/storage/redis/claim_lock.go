package redis

import (
	"context"
	"fmt"
	"time"

	"deposit-reconciler/config"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ClaimLock implements ports.ClaimLocker with SET NX PX, so several
// replicas serialize work on the same claim.
type ClaimLock struct {
	client *goredis.Client
	prefix string
	cfg    config.LockConfig
	log    zerolog.Logger
}

// NewClaimLock creates a Redis-backed per-claim lock.
func NewClaimLock(client *goredis.Client, cfg config.LockConfig, log zerolog.Logger) *ClaimLock {
	return &ClaimLock{
		client: client,
		prefix: "lock:deposit:",
		cfg:    cfg,
		log:    log,
	}
}

// Lock polls until the claim is held, lock.wait_timeout passes or ctx ends.
func (l *ClaimLock) Lock(ctx context.Context, depositID uuid.UUID) (func(), error) {
	key := l.prefix + depositID.String()
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.cfg.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, key, token, l.cfg.TTL).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, fmt.Errorf("acquire claim lock %s: %w", depositID, waitCtx.Err())
			}
			return nil, fmt.Errorf("redis claim lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("acquire claim lock %s: %w", depositID, waitCtx.Err())
		case <-ticker.C:
		}
	}
}

func (l *ClaimLock) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		// The key expires after lock.ttl anyway.
		l.log.Warn().Err(err).Str("key", key).Msg("Failed to release claim lock")
	}
}
