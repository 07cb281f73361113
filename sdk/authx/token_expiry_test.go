package authx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenExpiry(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	).SignedString([]byte("not-our-secret"))
	require.NoError(t, err)

	exp, ok := TokenExpiry(signed)
	require.True(t, ok)
	require.True(t, expires.Equal(exp))

	withoutExp, err := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{Subject: "42"},
	).SignedString([]byte("not-our-secret"))
	require.NoError(t, err)
	_, ok = TokenExpiry(withoutExp)
	require.False(t, ok)

	_, ok = TokenExpiry(testToken)
	require.False(t, ok)
}
