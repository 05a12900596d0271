package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/crewcard/crewcard-api/internal/constants"
)

// inviteCodeAlphabet excludes I, O, 0 and 1 so codes can be read aloud
// without ambiguity.
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode generates a random 8-character crew invite code.
// Uniqueness is enforced by the store; callers retry on conflict.
func GenerateInviteCode() (string, error) {
	bytes := make([]byte, constants.InviteCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	code := make([]byte, len(bytes))
	for i, b := range bytes {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}

// IsValidInviteCode reports whether a (already upper-cased) code has the
// expected shape: 8 characters, all from the invite alphabet.
func IsValidInviteCode(code string) bool {
	if len(code) != constants.InviteCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		found := false
		for j := 0; j < len(inviteCodeAlphabet); j++ {
			if code[i] == inviteCodeAlphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
