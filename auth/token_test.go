package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, ttl time.Duration) *Issuer {
	t.Helper()
	iss, err := NewIssuer(Config{Secret: []byte("test-secret"), TTL: ttl, Issuer: "jobly"})
	require.NoError(t, err)
	return iss
}

func TestIssuer_RoundTrip(t *testing.T) {
	iss := newTestIssuer(t, time.Hour)

	token, err := iss.Sign("test_user", true)
	require.NoError(t, err)

	claims, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "test_user", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "jobly", claims.Issuer)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestIssuer_NoTTL(t *testing.T) {
	iss := newTestIssuer(t, 0)
	token, err := iss.Sign("u", false)
	require.NoError(t, err)

	claims, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.False(t, claims.IsAdmin)
}

func TestIssuer_Expired(t *testing.T) {
	iss := newTestIssuer(t, time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := iss.Sign("u", false)
	require.NoError(t, err)

	_, err = iss.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_WrongSecret(t *testing.T) {
	token, err := newTestIssuer(t, 0).Sign("u", true)
	require.NoError(t, err)

	other, err := NewIssuer(Config{Secret: []byte("another-secret")})
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsForeignIssuer(t *testing.T) {
	foreign, err := NewIssuer(Config{Secret: []byte("test-secret"), Issuer: "other"})
	require.NoError(t, err)
	token, err := foreign.Sign("u", true)
	require.NoError(t, err)

	_, err = newTestIssuer(t, 0).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unnamed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "u"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = newTestIssuer(t, 0).Verify(unnamed)
	assert.ErrorIs(t, err, ErrInvalidToken, "a token without iss is rejected too")
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	iss := newTestIssuer(t, 0)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Username: "u"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = iss.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "u", IsAdmin: true}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsMissingUsername(t *testing.T) {
	iss := newTestIssuer(t, 0)
	token, err := iss.Sign("", false)
	require.NoError(t, err)

	_, err = iss.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Garbage(t *testing.T) {
	_, err := newTestIssuer(t, 0).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	_, err := NewIssuer(Config{})
	assert.ErrorIs(t, err, ErrNoSecret)
}
