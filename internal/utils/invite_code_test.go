package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		assert.True(t, IsValidInviteCode(code), "code %q should validate", code)
		seen[code] = true
	}
	// 100 draws from a 32^8 space colliding would point at a broken generator.
	assert.Greater(t, len(seen), 90)
}

func TestGenerateInviteCode_ExcludesAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "1")
	}
}

func TestIsValidInviteCode(t *testing.T) {
	assert.True(t, IsValidInviteCode("ABCD2345"))
	assert.False(t, IsValidInviteCode("ABC"))
	assert.False(t, IsValidInviteCode("ABCD23456"))
	assert.False(t, IsValidInviteCode("ABCD234O"))
	assert.False(t, IsValidInviteCode(strings.ToLower("ABCD2345")))
}
