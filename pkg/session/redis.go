package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

const DefaultKeyPrefix = "uttt:session:"

// Store backed by redis, every key expires after the ttl (never if it's 0)
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStore{
		client: client,
		prefix: DefaultKeyPrefix,
		ttl:    ttl,
		log:    log,
	}
}

// Connect to the redis server at addr and check that it answers
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Save(ctx context.Context, pos uttt.Position) (string, error) {
	data, err := encode(pos)
	if err != nil {
		return "", err
	}

	id := newID()
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session: failed to save: %w", err)
	}
	s.log.Debug("session saved", zap.String("id", id), zap.Int("bytes", len(data)))
	return id, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (uttt.Position, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uttt.Position{}, ErrNotFound
		}
		return uttt.Position{}, fmt.Errorf("session: failed to load: %w", err)
	}

	pos, err := decode(data)
	if err != nil {
		s.log.Warn("corrupted session", zap.String("id", id), zap.Error(err))
		return uttt.Position{}, err
	}
	return pos, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("session: failed to delete: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
