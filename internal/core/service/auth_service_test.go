package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/acmecorp/user-management-api/internal/core/domain"
	"github.com/acmecorp/user-management-api/internal/core/ports"
)

type stubDenylist struct {
	revoked map[string]time.Duration
	err     error
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if d.err != nil {
		return d.err
	}
	d.revoked[token] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := d.revoked[token]
	return ok, nil
}

func newTestAuthService(users *stubUserRepo, roles *stubRoleRepo, denylist *stubDenylist) *AuthService {
	userSvc := NewUserService(users, roles, testHasher, discardLogger)
	return NewAuthService(userSvc, users, testHasher, denylist, "test-secret", time.Hour, discardLogger)
}

func TestAuthService_Register_SharesUserCreationPath(t *testing.T) {
	roles := newStubRoleRepo()
	roleID := seedRole(roles, "admin", nil, true)
	users := newStubUserRepo()
	svc := newTestAuthService(users, roles, newStubDenylist())

	created, err := svc.Register(context.Background(), ports.CreateUserInput{
		Username: "alice", Email: "a@example.com", Password: "s3cret-pass", Role: roleID,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.RoleName != "admin" {
		t.Fatalf("roleName not denormalized on register: %q", created.RoleName)
	}

	_, err = svc.Register(context.Background(), ports.CreateUserInput{
		Username: "alice", Email: "other@example.com", Password: "s3cret-pass", Role: roleID,
	})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthService_Register_UnknownRole(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubRoleRepo(), newStubDenylist())

	_, err := svc.Register(context.Background(), ports.CreateUserInput{
		Username: "alice", Email: "a@example.com", Password: "s3cret-pass", Role: "missing",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Login_IssuesToken(t *testing.T) {
	roles := newStubRoleRepo()
	roleID := seedRole(roles, "admin", nil, true)
	users := newStubUserRepo()
	hash, _ := testHasher.Hash("s3cret-pass")
	userID := users.seed(domain.User{Username: "alice", Email: "a@example.com", PasswordHash: hash, RoleID: roleID, RoleName: "admin", Active: true})
	svc := newTestAuthService(users, roles, newStubDenylist())

	token, err := svc.Login(context.Background(), "a@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims["sub"] != userID || claims["username"] != "alice" || claims["role"] != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || !exp.After(time.Now()) {
		t.Fatalf("token must carry a future expiry: %v", exp)
	}
}

func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	roles := newStubRoleRepo()
	roleID := seedRole(roles, "admin", nil, true)
	users := newStubUserRepo()
	hash, _ := testHasher.Hash("s3cret-pass")
	users.seed(domain.User{Username: "alice", Email: "a@example.com", PasswordHash: hash, RoleID: roleID})
	svc := newTestAuthService(users, roles, newStubDenylist())

	_, unknownErr := svc.Login(context.Background(), "ghost@example.com", "s3cret-pass")
	_, wrongErr := svc.Login(context.Background(), "a@example.com", "wrong-pass")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("both failures must be indistinguishable: %q vs %q", unknownErr, wrongErr)
	}
}

func TestAuthService_Logout_RevokesUntilExpiry(t *testing.T) {
	denylist := newStubDenylist()
	svc := newTestAuthService(newStubUserRepo(), newStubRoleRepo(), denylist)

	if err := svc.Logout(context.Background(), "token-abc", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("logout: %v", err)
	}
	ttl, ok := denylist.revoked["token-abc"]
	if !ok {
		t.Fatalf("token not revoked")
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected revocation ttl: %v", ttl)
	}
}

func TestAuthService_Logout_ExpiredTokenIsNoop(t *testing.T) {
	denylist := newStubDenylist()
	svc := newTestAuthService(newStubUserRepo(), newStubRoleRepo(), denylist)

	if err := svc.Logout(context.Background(), "stale-token", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(denylist.revoked) != 0 {
		t.Fatalf("expired token must not be stored: %v", denylist.revoked)
	}
}

func TestAuthService_SignToken_MissingSecret(t *testing.T) {
	userSvc := NewUserService(newStubUserRepo(), newStubRoleRepo(), testHasher, discardLogger)
	svc := NewAuthService(userSvc, newStubUserRepo(), testHasher, newStubDenylist(), "", time.Hour, discardLogger)

	_, err := svc.SignToken(ports.TokenPayload{UserID: "user_1"}, time.Hour)
	if !errors.Is(err, ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
}
