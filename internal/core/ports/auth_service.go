package ports

import (
	"context"
	"time"

	"github.com/acmecorp/user-management-api/internal/core/domain"
)

// TokenPayload is the identity embedded in issued bearer tokens.
type TokenPayload struct {
	UserID   string
	Username string
	RoleName string
}

type AuthService interface {
	// Register follows the same validation and creation path as
	// UserService.CreateUser and returns the created user without its hash.
	Register(ctx context.Context, in CreateUserInput) (*domain.User, error)
	// Login verifies credentials and issues a signed bearer token. Unknown
	// email and wrong password produce the identical error.
	Login(ctx context.Context, email, password string) (string, error)
	// Logout revokes a token until it would have expired anyway.
	Logout(ctx context.Context, token string, expiresAt time.Time) error
	// SignToken mints a token carrying payload; it fails only when the
	// signing key is misconfigured.
	SignToken(payload TokenPayload, ttl time.Duration) (string, error)
}
