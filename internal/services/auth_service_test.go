package services

import (
	"testing"

	"github.com/crewcard/crewcard-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	env := setupServiceTestEnv(t)
	return NewAuthService(repository.NewUserRepository(env.db))
}

func TestSignup_NormalizesEmailAndHashesPassword(t *testing.T) {
	auth := setupAuthService(t)

	user, err := auth.Signup(SignupInput{
		DisplayName: "  Jordan  ",
		Email:       "  Jordan@Example.COM ",
		Password:    "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jordan", user.DisplayName)
	assert.Equal(t, "jordan@example.com", user.Email)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	auth := setupAuthService(t)

	_, err := auth.Signup(SignupInput{DisplayName: "Jordan", Email: "jordan@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = auth.Signup(SignupInput{DisplayName: "Other", Email: "JORDAN@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_ValidatesInput(t *testing.T) {
	auth := setupAuthService(t)

	_, err := auth.Signup(SignupInput{DisplayName: "   ", Email: "a@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrDisplayNameRequired)

	_, err = auth.Signup(SignupInput{DisplayName: "Jordan", Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin(t *testing.T) {
	auth := setupAuthService(t)

	created, err := auth.Signup(SignupInput{DisplayName: "Jordan", Email: "jordan@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	user, err := auth.Login(LoginInput{Email: "Jordan@Example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = auth.Login(LoginInput{Email: "jordan@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(LoginInput{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
