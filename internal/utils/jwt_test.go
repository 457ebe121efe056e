package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), tok.Exp, time.Minute)

	uid, err := ParseSessionToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret-a", 1, 1)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret-b", tok.Token)
	assert.Error(t, err)
}

func TestParseSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not.a.jwt")
	assert.Error(t, err)

	_, err = ParseSessionToken("secret", "")
	assert.Error(t, err)
}
