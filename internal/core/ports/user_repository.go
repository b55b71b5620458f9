package ports

import (
	"context"

	"github.com/acmecorp/user-management-api/internal/core/domain"
)

// UserPatch is a partial update applied by the bulk operations. Nil fields
// are left untouched. RoleName is resolved by the service, never taken from
// the caller.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Active    *bool
	Role      *string
	RoleName  *string
}

// UserBulkOp pairs a user id with its own patch for unordered batch writes.
type UserBulkOp struct {
	UserID string
	Patch  UserPatch
}

// UserRepository defines the persistence surface for user records. Reads
// exclude the password hash except FindByEmailWithPassword, which backs the
// login flow.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*domain.User, error)
	// FindAll returns every user ordered newest createdAt first.
	FindAll(ctx context.Context) ([]domain.User, error)
	// Search matches a case-insensitive substring against email, username,
	// roleName, firstName and lastName.
	Search(ctx context.Context, text string) ([]domain.User, error)
	// FindExistingIDs reports which of the given ids exist.
	FindExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// ExistsByRole reports whether any user references the given role.
	ExistsByRole(ctx context.Context, roleID string) (bool, error)
	// UpdateRoleName rewrites the denormalized roleName on every user
	// referencing roleID. Returns the number of modified documents.
	UpdateRoleName(ctx context.Context, roleID, roleName string) (int64, error)
	// UpdateMany applies the same patch to all given ids in one write.
	UpdateMany(ctx context.Context, ids []string, patch UserPatch) (matched, modified int64, err error)
	// BulkUpdate submits one update per op as an unordered batch; a
	// non-matching op does not abort its siblings. Only aggregate counts are
	// reported.
	BulkUpdate(ctx context.Context, ops []UserBulkOp) (matched, modified int64, err error)
}
