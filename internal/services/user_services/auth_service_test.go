// File: internal/services/user_services/auth_service_test.go
package user_services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tafara-ai/tafara/internal/domain"
)

type memoryUserRepo struct {
	nextID uint
	users  map[uint]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{nextID: 1, users: make(map[uint]*domain.User)}
}

func (m *memoryUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *memoryUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *memoryUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(context.Background(), username)
	return err == nil, nil
}

func (m *memoryUserRepo) UpdateAPIKey(_ context.Context, userID uint, apiKey string) error {
	if u, ok := m.users[userID]; ok {
		u.APIKey = apiKey
		return nil
	}
	return errors.New("user not found")
}

func newTestAuthService(repo *memoryUserRepo) *AuthService {
	return NewAuthService(repo, "test-secret", []string{"tafara_demo"}, nil)
}

func TestRegister_RequiresProviderKey(t *testing.T) {
	svc := newTestAuthService(newMemoryUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@example.com", "password123", "")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice", "a@example.com", "password123", "sk-wrong-prefix")
	assert.Error(t, err)

	account, err := svc.Register(ctx, "alice", "a@example.com", "password123", "sk-or-abc123")
	assert.NoError(t, err)
	assert.False(t, account.IsPresetAccount)
	assert.Equal(t, "sk-or-abc123", account.APIKey)
}

func TestRegister_PresetAccountSkipsKey(t *testing.T) {
	svc := newTestAuthService(newMemoryUserRepo())

	account, err := svc.Register(context.Background(), "tafara_demo", "", "password123", "")
	assert.NoError(t, err)
	assert.True(t, account.IsPresetAccount)
	assert.Empty(t, account.APIKey)
}

func TestRegister_UsernameRules(t *testing.T) {
	svc := newTestAuthService(newMemoryUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab", "", "password123", "sk-or-x")
	assert.Error(t, err, "too short")

	_, err = svc.Register(ctx, "has spaces", "", "password123", "sk-or-x")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice", "", "password123", "sk-or-x")
	assert.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "", "password123", "sk-or-x")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "", "password123", "sk-or-x")
	assert.NoError(t, err)

	account, token, err := svc.Login(ctx, "alice", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", account.Username)

	// The issued token round-trips through validation.
	userID, err := svc.ValidateJWTToken(token)
	assert.NoError(t, err)
	assert.Equal(t, account.ID, userID)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateAPIKey_ValidatesFormat(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	account, err := svc.Register(ctx, "alice", "", "password123", "sk-or-old")
	assert.NoError(t, err)

	assert.Error(t, svc.UpdateAPIKey(ctx, account.ID, "plain-text"))
	assert.NoError(t, svc.UpdateAPIKey(ctx, account.ID, "sk-or-new"))

	updated, err := svc.GetProfile(ctx, account.ID)
	assert.NoError(t, err)
	assert.Equal(t, "sk-or-new", updated.APIKey)
}
