package jwt

import (
	"testing"
	"time"

	"hospital-management-api/config"
	"hospital-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(accessExpiry time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestService(time.Minute)
	user := &entity.User{ID: uuid.New(), Email: "doc@example.com", Role: entity.RoleDoctor}

	token, tokenID, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleDoctor, claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, entity.Actor{ID: user.ID, Role: entity.RoleDoctor}, claims.Actor())
}

func TestRefreshTokenType(t *testing.T) {
	svc := newTestService(time.Minute)
	user := &entity.User{ID: uuid.New(), Role: entity.RolePatient}

	token, _, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, _, err := svc.GenerateAccessToken(&entity.User{ID: uuid.New(), Role: entity.RolePatient})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := newTestService(time.Minute).GenerateAccessToken(&entity.User{ID: uuid.New(), Role: entity.RoleAdmin})
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenKey(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	assert.Equal(t, "access_token:11111111-1111-1111-1111-111111111111:abc", TokenKey(AccessToken, id, "abc"))
	assert.Equal(t, "refresh_token:11111111-1111-1111-1111-111111111111:abc", TokenKey(RefreshToken, id, "abc"))
}
