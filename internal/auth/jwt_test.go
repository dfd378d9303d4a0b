// File: internal/auth/jwt_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := []byte("test-secret-key")

	token, err := GenerateJWT(42, secret)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := ValidateToken(token, secret)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestGenerateJWT_ZeroUserID(t *testing.T) {
	_, err := GenerateJWT(0, []byte("secret"))
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(7, []byte("right-secret"))
	assert.NoError(t, err)

	_, err = ValidateToken(token, []byte("wrong-secret"))
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", []byte("secret"))
	assert.Error(t, err)
}
