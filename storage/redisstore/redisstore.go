package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/berhot/session-handoff/sessions"
	"github.com/berhot/session-handoff/storage"
)

var _ storage.Backend = (*Store)(nil)

// Store implements storage.Backend on Redis. Keys are namespaced by origin
// so every deployed app keeps its own copy, like browser storage does.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Store whose keys look like "<prefix>:<origin>:<key>".
func New(client redis.UniversalClient, prefix string, origin sessions.OriginID) *Store {
	return &Store{
		client: client,
		prefix: fmt.Sprintf("%s:%s", prefix, origin),
	}
}

func (s *Store) key(key string) string {
	return s.prefix + ":" + key
}

func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("key cannot be empty")
	}

	result, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w: %w", storage.ErrUnavailable, err)
	}

	return result, true, nil
}

func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w: %w", storage.ErrUnavailable, err)
	}
	return nil
}
