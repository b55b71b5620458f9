package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/acmecorp/user-management-api/internal/api/metrics"
	"github.com/acmecorp/user-management-api/internal/core/domain"
	"github.com/acmecorp/user-management-api/internal/core/ports"
	"github.com/acmecorp/user-management-api/internal/pkg/password"
)

// ErrSigningKeyMissing is a startup-class misconfiguration, not a
// request-time failure.
var ErrSigningKeyMissing = errors.New("jwt signing key is not configured")

// TokenDenylist abstracts the revocation store (Redis).
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthService implements registration, login, logout and token signing.
type AuthService struct {
	users     ports.UserService
	repo      ports.UserRepository
	hasher    password.Hasher
	denylist  TokenDenylist
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(
	users ports.UserService,
	repo ports.UserRepository,
	hasher password.Hasher,
	denylist TokenDenylist,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		repo:      repo,
		hasher:    hasher,
		denylist:  denylist,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates an account through the exact same path as the user
// directory, so role resolution, roleName denormalization and uniqueness
// checks behave identically.
func (s *AuthService) Register(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.users.CreateUser(ctx, in)
}

// Login verifies credentials and issues a bearer token. An unknown email and
// a wrong password return the identical error so callers cannot probe which
// one failed.
func (s *AuthService) Login(ctx context.Context, email, pass string) (string, error) {
	user, err := s.repo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.SignToken(ports.TokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		RoleName: user.RoleName,
	}, s.tokenTTL)
	if err != nil {
		return "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return token, nil
}

// Logout denylists the token until it would have expired anyway. An already
// expired token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, token, ttl); err != nil {
		return err
	}
	metrics.TokensRevokedTotal.Inc()
	return nil
}

// SignToken mints an HS256 token carrying the user identity.
func (s *AuthService) SignToken(payload ports.TokenPayload, ttl time.Duration) (string, error) {
	if s.jwtSecret == "" {
		return "", ErrSigningKeyMissing
	}

	claims := jwt.MapClaims{
		"sub":      payload.UserID,
		"username": payload.Username,
		"role":     payload.RoleName,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
