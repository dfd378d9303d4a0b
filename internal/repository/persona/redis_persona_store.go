// File: internal/repository/persona/redis_persona_store.go
package persona

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tafara-ai/tafara/internal/domain"
)

// redisPersonaStore keeps each user's private persona list under a single
// key as a JSON array. Whole-list writes give the same last-write-wins
// semantics the original browser cache had.
type redisPersonaStore struct {
	rdb *redis.Client
}

func NewRedisPersonaStore(rdb *redis.Client) PrivatePersonaStore {
	return &redisPersonaStore{rdb: rdb}
}

func personaKey(username string) string {
	return fmt.Sprintf("tafara:configs:%s", username)
}

func (s *redisPersonaStore) List(ctx context.Context, username string) ([]domain.PersonaConfig, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	raw, err := s.rdb.Get(ctx, personaKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return []domain.PersonaConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache read failed: %w", err)
	}

	var configs []domain.PersonaConfig
	if err := json.Unmarshal([]byte(raw), &configs); err != nil {
		return nil, fmt.Errorf("corrupt persona cache entry: %w", err)
	}
	return configs, nil
}

func (s *redisPersonaStore) Put(ctx context.Context, username string, configs []domain.PersonaConfig) error {
	if username == "" {
		return errors.New("username is required")
	}

	raw, err := json.Marshal(configs)
	if err != nil {
		return fmt.Errorf("encode personas: %w", err)
	}
	if err := s.rdb.Set(ctx, personaKey(username), raw, 0).Err(); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

func (s *redisPersonaStore) Get(ctx context.Context, username string, index int) (*domain.PersonaConfig, error) {
	configs, err := s.List(ctx, username)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(configs) {
		return nil, ErrPersonaNotFound
	}
	cfg := configs[index]
	return &cfg, nil
}

func (s *redisPersonaStore) Append(ctx context.Context, username string, config domain.PersonaConfig) (int, error) {
	configs, err := s.List(ctx, username)
	if err != nil {
		return 0, err
	}
	configs = append(configs, config)
	if err := s.Put(ctx, username, configs); err != nil {
		return 0, err
	}
	return len(configs) - 1, nil
}

// Delete removes the entry at index and compacts the list, shifting the
// identifiers of the entries after it.
func (s *redisPersonaStore) Delete(ctx context.Context, username string, index int) error {
	configs, err := s.List(ctx, username)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(configs) {
		return ErrPersonaNotFound
	}
	configs = append(configs[:index], configs[index+1:]...)
	return s.Put(ctx, username, configs)
}
