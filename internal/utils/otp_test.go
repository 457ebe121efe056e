package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "unexpected rune %q in %s", r, code)
		}
	}
}

func TestHashAndVerifyOTP(t *testing.T) {
	hash, err := HashOTP("123456", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.True(t, VerifyOTP(hash, "123456"))
	assert.False(t, VerifyOTP(hash, "654321"))
	assert.False(t, VerifyOTP("not-a-hash", "123456"))
}
