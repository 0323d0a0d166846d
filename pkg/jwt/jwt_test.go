package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	Configure("test-secret", time.Hour)

	token, err := GenerateToken("u1", "an", "An", "staff", "Baby Boss Hội sở", []string{"order:create"}, "v1")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.Equal(t, []string{"order:create"}, claims.Privileges)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	Configure("one", time.Hour)
	token, err := GenerateToken("u1", "an", "An", "staff", "", nil, "v1")
	require.NoError(t, err)

	Configure("two", 0)
	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
