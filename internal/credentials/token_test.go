package credentials

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestInspect(t *testing.T) {
	exp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, tokenClaims{
		Email: "ann@example.com",
		Roles: []string{"accountant"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    "finance-api",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	info, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", info.Subject)
	assert.Equal(t, "ann@example.com", info.Email)
	assert.Equal(t, []string{"accountant"}, info.Roles)
	assert.True(t, info.ExpiresAt.Equal(exp))

	assert.False(t, info.Expired(exp.Add(-time.Minute)))
	assert.True(t, info.Expired(exp))
}

func TestInspectWithoutExpiry(t *testing.T) {
	info, err := Inspect(signedToken(t, jwt.RegisteredClaims{Subject: "svc"}))
	require.NoError(t, err)
	assert.True(t, info.ExpiresAt.IsZero())
	assert.False(t, info.Expired(time.Now()))
}

func TestInspectOpaqueToken(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	assert.ErrorIs(t, err, ErrOpaqueToken)
}
