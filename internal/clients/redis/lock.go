package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/videolearn/backend/internal/logger"
)

// VideoLock enforces at most one background processing job per video id at
// a time (spec.md §9 Open Question: concurrent submissions of the same
// canonical video must not double-process).
type VideoLock interface {
	// Acquire returns true if the lock was obtained, along with a release
	// function that must be called regardless of outcome.
	Acquire(ctx context.Context, videoID string) (bool, func(), error)
	Close() error
}

type videoLock struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewVideoLock(log *logger.Logger) (VideoLock, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &videoLock{
		log: log.With("service", "RedisVideoLock"),
		rdb: rdb,
		ttl: 2 * time.Hour,
	}, nil
}

func (l *videoLock) Acquire(ctx context.Context, videoID string) (bool, func(), error) {
	key := "videolock:" + videoID
	ok, err := l.rdb.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return false, func() {}, fmt.Errorf("acquire lock: %w", err)
	}

	release := func() {
		if !ok {
			return
		}
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.rdb.Del(releaseCtx, key).Err(); err != nil {
			l.log.Warn("failed to release video lock", "video_id", videoID, "error", err)
		}
	}

	return ok, release, nil
}

func (l *videoLock) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
