package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ThomasBury/AceBet/internal/metrics"
	"github.com/ThomasBury/AceBet/internal/user"
)

// Service issues and validates bearer tokens against the credential directory.
// Tokens are stateless HS256 JWTs: {sub: username, exp: now + TTL}. There is no
// server-side revocation; callers re-authenticate after expiry.
type Service struct {
	users  user.Repository
	secret []byte
	ttl    time.Duration
	logger *logrus.Logger
}

// NewService creates a token service
func NewService(users user.Repository, secret string, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}
}

// IssueToken checks the credentials and returns a signed access token.
// Unknown usernames and wrong passwords both fail with ErrInvalidCredentials.
func (s *Service) IssueToken(ctx context.Context, username, password string) (string, error) {
	principal, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.HashedPassword), []byte(password)); err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   principal.Username,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	metrics.TokensIssuedTotal.Inc()
	s.logger.WithField("username", principal.Username).Debug("Access token issued")
	return signed, nil
}

// ValidateToken verifies the token signature and expiry, resolves the subject
// against the credential directory and gates disabled principals.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*user.Principal, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return nil, ErrInvalidToken
	}

	principal, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("unknown_subject").Inc()
		return nil, ErrUnknownSubject
	}

	if principal.Disabled {
		metrics.AuthFailuresTotal.WithLabelValues("inactive_user").Inc()
		return nil, ErrInactiveUser
	}

	return principal, nil
}

// TokenTTL returns the configured token lifetime
func (s *Service) TokenTTL() time.Duration {
	return s.ttl
}
