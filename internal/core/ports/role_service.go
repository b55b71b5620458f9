package ports

import (
	"context"

	"github.com/acmecorp/user-management-api/internal/core/domain"
)

// UpdateRoleInput carries the fields accepted by a role update. Name keeps
// its current value when empty and Active is only applied when provided
// (partial-merge, unlike user updates).
type UpdateRoleInput struct {
	Name          string
	AccessModules []string
	Active        *bool
}

type RoleService interface {
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
	CreateRole(ctx context.Context, name string, accessModules []string) (*domain.Role, error)
	UpdateRole(ctx context.Context, id string, in UpdateRoleInput) (*domain.Role, error)
	DeleteRole(ctx context.Context, id string) error
	AddAccessModule(ctx context.Context, id, module string) (*domain.Role, error)
	RemoveAccessModule(ctx context.Context, id, module string) (*domain.Role, error)
	// CascadeRoleName rewrites the denormalized roleName on every user
	// referencing roleID and returns the number of users touched.
	CascadeRoleName(ctx context.Context, roleID, name string) (int64, error)
}
