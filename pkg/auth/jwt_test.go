package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "meetingroom")

	token, err := m.CreateAccessToken("alice", "regular_user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "regular_user", claims.Role)
	assert.Equal(t, "meetingroom", claims.Issuer)
}

func TestManager_ExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, "meetingroom")

	token, err := m.CreateAccessToken("alice", "regular_user")
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, "meetingroom")
	verifier := NewManager("secret-b", time.Hour, "meetingroom")

	token, err := issuer.CreateAccessToken("alice", "admin")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_GarbageToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "meetingroom")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
