package adapters

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"sync"
	"time"
)

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

var extendLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

type redisJobLock struct {
	logger outbound.LoggerPort
	rdb    redis.UniversalClient
	ttl    time.Duration
}

// NewRedisJobLock serializes jobs across replicas. The lease is extended while the holder is alive.
func NewRedisJobLock(logger outbound.LoggerPort, rdb redis.UniversalClient, ttl time.Duration) outbound.JobLockPort {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &redisJobLock{
		logger: logger,
		rdb:    rdb,
		ttl:    ttl,
	}
}

func jobLockKey(requestID uuid.UUID) string {
	return "presentation:job-lock:" + requestID.String()
}

func (l *redisJobLock) Acquire(ctx context.Context, requestID uuid.UUID) (outbound.ReleaseFunc, error) {
	key := jobLockKey(requestID)
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "lock", "redis setnx", key, err)
	}
	if !ok {
		return nil, domain.Wrap(domain.KindJobInProgress, "lock", "acquire", requestID.String(), nil)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(key, token, stop, done)

	var once sync.Once
	return func() error {
		var releaseErr error
		once.Do(func() {
			close(stop)
			<-done
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			releaseErr = releaseLockScript.Run(releaseCtx, l.rdb, []string{key}, token).Err()
			if releaseErr != nil {
				l.logger.ErrorWithFields(releaseErr, "Failed to release job lock", map[string]interface{}{
					"request_id": requestID.String(),
				})
			}
		})
		return releaseErr
	}, nil
}

func (l *redisJobLock) keepAlive(key string, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := extendLockScript.Run(ctx, l.rdb, []string{key}, token, l.ttl.Milliseconds()).Err()
			cancel()
			if err != nil {
				l.logger.WarnWithFields("Failed to extend job lock", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}
}
