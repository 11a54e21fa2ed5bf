package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword("hunter22", hash))
	assert.False(t, VerifyPassword("hunter23", hash))
	assert.False(t, VerifyPassword("hunter22", "not-a-hash"))
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	svc := &AuthService{secret: []byte("test-secret"), tokenTTL: time.Hour}

	signed, err := svc.GenerateJWT("user-42")
	assert.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-42", claims["user_id"])

	exp, err := claims.GetExpirationTime()
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestGenerateJWTRejectsWrongSecret(t *testing.T) {
	svc := &AuthService{secret: []byte("right"), tokenTTL: time.Hour}

	signed, err := svc.GenerateJWT("user-42")
	assert.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	assert.Error(t, err)
	if token != nil {
		assert.False(t, token.Valid)
	}
}
