package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	tok, err := j.Generate("6650a1f2c3d4e5f601234567")
	require.NoError(t, err)

	got, err := j.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, "6650a1f2c3d4e5f601234567", got)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	issued := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return issued }

	tok, err := j.Generate("user-1")
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = j.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	tok, err := NewJWT("secret", time.Hour).Generate("user-1")
	require.NoError(t, err)

	_, err = NewJWT("other", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_Malformed(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := j.Parse(tok)
		require.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestJWT_WrongSigningMethod(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "user-1",
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_MissingExpiry(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1"})
	tok, err := noExp.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = j.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}
