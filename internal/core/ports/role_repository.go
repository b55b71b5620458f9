package ports

import (
	"context"

	"github.com/acmecorp/user-management-api/internal/core/domain"
)

// RoleRepository defines the persistence surface for role records.
type RoleRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	// FindAll returns every role ordered newest createdAt first.
	FindAll(ctx context.Context) ([]domain.Role, error)
	Insert(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id string) error
	// AddModule performs an idempotent set-add and returns the updated role.
	AddModule(ctx context.Context, id, module string) (*domain.Role, error)
	// RemoveModule performs a set-remove and returns the updated role.
	RemoveModule(ctx context.Context, id, module string) (*domain.Role, error)
}
