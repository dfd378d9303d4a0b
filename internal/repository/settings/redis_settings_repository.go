// File: internal/repository/settings/redis_settings_repository.go
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AppSettings replaces the ambient browser-resident globals (dark-mode flag,
// cached username) with an explicit per-user settings record.
type AppSettings struct {
	Username string `json:"username"`
	DarkMode bool   `json:"dark_mode"`
}

// SettingsRepository persists per-user application settings.
type SettingsRepository interface {
	Load(ctx context.Context, username string) (*AppSettings, error)
	Save(ctx context.Context, username string, settings *AppSettings) error
}

type redisSettingsRepository struct {
	rdb *redis.Client
}

func NewRedisSettingsRepository(rdb *redis.Client) SettingsRepository {
	return &redisSettingsRepository{rdb: rdb}
}

func settingsKey(username string) string {
	return fmt.Sprintf("tafara:settings:%s", username)
}

// Load returns defaults when no record exists yet.
func (r *redisSettingsRepository) Load(ctx context.Context, username string) (*AppSettings, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	raw, err := r.rdb.Get(ctx, settingsKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return &AppSettings{Username: username}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings read failed: %w", err)
	}

	var s AppSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("corrupt settings entry: %w", err)
	}
	return &s, nil
}

func (r *redisSettingsRepository) Save(ctx context.Context, username string, settings *AppSettings) error {
	if username == "" {
		return errors.New("username is required")
	}
	if settings == nil {
		return errors.New("settings cannot be nil")
	}

	settings.Username = username
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := r.rdb.Set(ctx, settingsKey(username), raw, 0).Err(); err != nil {
		return fmt.Errorf("settings write failed: %w", err)
	}
	return nil
}
