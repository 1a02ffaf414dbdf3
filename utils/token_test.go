package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, "user-123", time.Hour)
	require.NoError(t, err)

	subject, err := VerifySessionToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, "user-123", time.Hour)
	require.NoError(t, err)

	_, err = VerifySessionToken("other-secret", token)
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, "user-123", -time.Minute)
	require.NoError(t, err)

	_, err = VerifySessionToken(testSecret, token)
	assert.Error(t, err)
}

func TestInvitationTokenEmbedsEmail(t *testing.T) {
	token, err := GenerateInvitationToken(testSecret, "a@b.com", 180*time.Second)
	require.NoError(t, err)

	email, err := VerifyInvitationToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)
}

// A stored record does not make a token valid: once past issuedAt+ttl the
// signature check alone must reject it.
func TestInvitationTokenExpired(t *testing.T) {
	token, err := GenerateInvitationToken(testSecret, "a@b.com", -time.Second)
	require.NoError(t, err)

	_, err = VerifyInvitationToken(testSecret, token)
	assert.Error(t, err)
}

func TestInvitationTokenTampered(t *testing.T) {
	token, err := GenerateInvitationToken(testSecret, "a@b.com", 180*time.Second)
	require.NoError(t, err)

	_, err = VerifyInvitationToken(testSecret, token+"x")
	assert.Error(t, err)
}

func TestSessionAndInvitationTokensNotInterchangeable(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, "user-123", time.Hour)
	require.NoError(t, err)

	// A session token carries no email claim.
	_, err = VerifyInvitationToken(testSecret, token)
	assert.Error(t, err)
}
