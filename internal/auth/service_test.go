package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasBury/AceBet/internal/user"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(user.NewSeededDirectory(), testSecret, ttl, logger)
}

// TestTokenRoundTrip tests that an issued token validates back to its subject
func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, 30*time.Minute)
	ctx := context.Background()

	token, err := svc.IssueToken(ctx, "johndoe", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", principal.Username)
}

// TestIssueTokenWrongPassword tests that a bad password fails with the same
// error as an unknown user
func TestIssueTokenWrongPassword(t *testing.T) {
	svc := newTestService(t, 30*time.Minute)

	_, err := svc.IssueToken(context.Background(), "johndoe", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueTokenUnknownUser(t *testing.T) {
	svc := newTestService(t, 30*time.Minute)

	_, err := svc.IssueToken(context.Background(), "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestValidateExpiredToken tests that an expired token is rejected
func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(t, -1*time.Minute)
	ctx := context.Background()

	token, err := svc.IssueToken(ctx, "johndoe", "secret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestValidateGarbageToken tests that malformed input is rejected
func TestValidateGarbageToken(t *testing.T) {
	svc := newTestService(t, 30*time.Minute)

	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestValidateTamperedToken tests that a token signed with another key fails
func TestValidateTamperedToken(t *testing.T) {
	svc := newTestService(t, 30*time.Minute)
	ctx := context.Background()

	other := NewService(user.NewSeededDirectory(), "another-secret-key-of-enough-length", 30*time.Minute, svc.logger)
	token, err := other.IssueToken(ctx, "johndoe", "secret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestValidateUnknownSubject tests that a valid token whose subject left the
// directory is rejected
func TestValidateUnknownSubject(t *testing.T) {
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	seeded := NewService(user.NewSeededDirectory(), testSecret, 30*time.Minute, logger)
	token, err := seeded.IssueToken(ctx, "johndoe", "secret")
	require.NoError(t, err)

	empty := NewService(user.NewMemoryDirectory(nil), testSecret, 30*time.Minute, logger)
	_, err = empty.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

// TestValidateInactiveUser tests that disabled principals are gated after the
// token itself checks out
func TestValidateInactiveUser(t *testing.T) {
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	disabled := user.NewMemoryDirectory([]user.Principal{{
		Username:       "johndoe",
		HashedPassword: "$2b$12$EixZaYVK1fsbw1ZfbX3OXePaWxn96p36WQoeG6Lruj3vjPGga31lW",
		Disabled:       true,
	}})
	svc := NewService(disabled, testSecret, 30*time.Minute, logger)

	token, err := svc.IssueToken(ctx, "johndoe", "secret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestTokenTTL(t *testing.T) {
	svc := newTestService(t, 45*time.Minute)
	assert.Equal(t, 45*time.Minute, svc.TokenTTL())
}
