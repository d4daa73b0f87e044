package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "daystar-test", time.Hour)

func Test_GenerateAccessToken(t *testing.T) {
	userID := id.NewUserID()

	token, err := jwtService.GenerateAccessToken(userID, "manager", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.NotEmpty(t, claims.ID, "tokens must carry a JTI for revocation")
}

func Test_ValidateToken_Rejections(t *testing.T) {
	t.Run("garbage token", func(t *testing.T) {
		_, err := jwtService.ValidateToken("not-a-token")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewJWTService("other-key", "daystar-test", time.Hour)
		token, err := other.GenerateAccessToken(id.NewUserID(), "babysitter", time.Now())
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(id.NewUserID(), "manager", time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.Contains(t, err.Error(), "expired")
	})
}

func Test_AdapterParsesTypedClaims(t *testing.T) {
	userID := id.NewUserID()
	token, err := jwtService.GenerateAccessToken(userID, "babysitter", time.Now())
	require.NoError(t, err)

	adapter := NewJWTServiceAdapter(jwtService)
	claims, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "babysitter", claims.Role)
	assert.NotEmpty(t, claims.JTI)
}
