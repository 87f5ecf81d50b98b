package auth

import (
	"testing"
	"time"

	"awdtrack/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTManager_RoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	m := NewJWTManager("s3cret", time.Hour)
	m.now = fixedClock(now)

	sess := model.Session{ID: "sess-1", AccountID: "acc-1", Role: model.RoleSecretary, ExpiresAt: now.Add(time.Hour)}
	token, err := m.Generate(sess)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, model.RoleSecretary, claims.Role)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, time.Hour, m.TTL())
}

func TestJWTManager_Verify(t *testing.T) {
	now := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	sess := model.Session{ID: "sess-1", Role: model.RoleAdmin, ExpiresAt: now.Add(time.Hour)}

	issuerM := NewJWTManager("s3cret", time.Hour)
	issuerM.now = fixedClock(now)
	token, err := issuerM.Generate(sess)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("s3cret", time.Hour)
		m.now = fixedClock(now.Add(2 * time.Hour))
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		m := NewJWTManager("other", time.Hour)
		m.now = fixedClock(now)
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			SessionID: "sess-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuerM.Verify(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuerM.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
