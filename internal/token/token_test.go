package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	svc := NewService("test-secret", "bibliotheque")

	signed, err := svc.Sign(42, "marie@example.com", "librarian")
	require.NoError(t, err)

	claims, err := svc.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "marie@example.com", claims.Email)
	assert.Equal(t, "librarian", claims.Role)
	assert.Equal(t, "bibliotheque", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := NewService("secret-a", "bibliotheque").Sign(1, "a@example.com", "user")
	require.NoError(t, err)

	_, err = NewService("secret-b", "bibliotheque").Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	signed, err := NewService("test-secret", "some-other-service").Sign(1, "a@example.com", "user")
	require.NoError(t, err)

	_, err = NewService("test-secret", "bibliotheque").Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	svc := NewService("test-secret", "bibliotheque")

	claims := Claims{
		UserID: 1,
		Email:  "a@example.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsUnexpectedMethod(t *testing.T) {
	svc := NewService("test-secret", "bibliotheque")

	// Token signed with "none" must never verify.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", "bibliotheque")
	_, err := svc.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
