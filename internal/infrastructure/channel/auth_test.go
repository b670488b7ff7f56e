package channel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peercore/internal/core/domain"
)

func TestAuthenticator_RoundTrip(t *testing.T) {
	auth := NewAuthenticator("test-secret", time.Minute)

	token, err := auth.GenerateToken(domain.PeerID(42))
	require.NoError(t, err)

	peerID, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, peerID)
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	auth := NewAuthenticator("test-secret", -time.Minute)

	token, err := auth.GenerateToken(domain.PeerID(1))
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthenticator_WrongSecretRejected(t *testing.T) {
	auth := NewAuthenticator("correct-secret", time.Minute)
	token, err := auth.GenerateToken(domain.PeerID(1))
	require.NoError(t, err)

	other := NewAuthenticator("wrong-secret", time.Minute)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
