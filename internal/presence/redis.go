package presence

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	seenKey    = "presence:seen"
	entriesKey = "presence:entries"
)

// RedisStore shares presence across instances. A sorted set scores client
// ids by last-seen unix millis; a hash holds the entry bodies.
type RedisStore struct {
	rdb     *redis.Client
	timeout time.Duration
	now     func() time.Time
}

func NewRedisStore(rdb *redis.Client, timeout time.Duration) *RedisStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RedisStore{rdb: rdb, timeout: timeout, now: time.Now}
}

// WithClock replaces the time source.
func (s *RedisStore) WithClock(now func() time.Time) *RedisStore {
	s.now = now
	return s
}

func (s *RedisStore) Heartbeat(ctx context.Context, e Entry) ([]Entry, error) {
	now := s.now()
	e.LastSeen = now
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, seenKey, redis.Z{Score: float64(now.UnixMilli()), Member: e.ID})
		pipe.HSet(ctx, entriesKey, e.ID, body)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Active(ctx)
}

func (s *RedisStore) Active(ctx context.Context) ([]Entry, error) {
	if err := s.Prune(ctx); err != nil {
		return nil, err
	}
	vals, err := s.rdb.HVals(ctx, entriesKey).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(vals))
	for _, v := range vals {
		var e Entry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			logrus.WithError(err).Warn("skipping malformed presence entry")
			continue
		}
		out = append(out, e)
	}
	return sortEntries(out), nil
}

// Prune removes ids whose score is older than the timeout.
func (s *RedisStore) Prune(ctx context.Context) error {
	cutoff := s.now().Add(-s.timeout).UnixMilli()
	stale, err := s.rdb.ZRangeByScore(ctx, seenKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff, 10),
	}).Result()
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	members := make([]interface{}, len(stale))
	for i, id := range stale {
		members[i] = id
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, seenKey, members...)
		pipe.HDel(ctx, entriesKey, stale...)
		return nil
	})
	if err == nil {
		logrus.WithField("count", len(stale)).Debug("pruned presence entries")
	}
	return err
}
