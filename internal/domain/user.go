// File: internal/domain/user.go
package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is one row in user_profiles. Preset accounts are operator-designated
// and use the shared OpenRouter credential instead of their own APIKey.
type User struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	Username        string    `json:"username" gorm:"uniqueIndex;not null;size:64"`
	Email           string    `json:"email" gorm:"size:254"`
	Password        string    `json:"-" gorm:"not null"`
	APIKey          string    `json:"-" gorm:"column:api_key"`
	IsPresetAccount bool      `json:"is_preset_account" gorm:"column:is_preset_account;default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (User) TableName() string { return "user_profiles" }

// HashPassword securely hashes the user's password.
func (u *User) HashPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the stored hash.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) IsValid() error {
	if len(u.Username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if u.APIKey != "" && !ValidProviderKey(u.APIKey) {
		return errors.New("invalid OpenRouter API key format")
	}
	return nil
}

// ValidProviderKey reports whether key looks like an OpenRouter credential.
func ValidProviderKey(key string) bool {
	return strings.HasPrefix(key, "sk-or-")
}
