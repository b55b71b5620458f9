package ports

import (
	"context"

	"github.com/acmecorp/user-management-api/internal/core/domain"
)

// CreateUserInput carries the validated fields for user creation. Role is the
// referenced role id; the service resolves and denormalizes its name.
type CreateUserInput struct {
	Username  string
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
}

// UpdateUserInput has full-replace semantics for the provided fields, unlike
// role updates. Password is re-hashed only when non-empty; Active is applied
// only when provided.
type UpdateUserInput struct {
	Username  string
	Email     string
	Role      string
	FirstName string
	LastName  string
	Password  string
	Active    *bool
}

// BulkSamePayloadInput applies one patch to many users.
type BulkSamePayloadInput struct {
	UserIDs []string
	Patch   UserPatch
}

// BulkUserEntry carries a per-user patch for the different-payload batch.
type BulkUserEntry struct {
	UserID string
	Patch  UserPatch
}

// BulkUpdateSummary reports the aggregate counts of a same-payload update.
type BulkUpdateSummary struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// BulkFailure names a user that could not be updated and why.
type BulkFailure struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

// BulkUpdateResult is the mixed outcome of a different-payload batch. The
// call as a whole succeeds; per-entry failures are reported here.
type BulkUpdateResult struct {
	Updated      int64         `json:"updated"`
	TotalMatched int64         `json:"totalMatched"`
	SuccessIDs   []string      `json:"successIds"`
	Failed       []BulkFailure `json:"failed"`
}

// ModuleAccess answers a single capability check.
type ModuleAccess struct {
	HasAccess bool `json:"hasAccess"`
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	SearchUsers(ctx context.Context, text string) ([]domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	CheckModuleAccess(ctx context.Context, userID, module string) (*ModuleAccess, error)
	BulkUpdateSamePayload(ctx context.Context, in BulkSamePayloadInput) (*BulkUpdateSummary, error)
	BulkUpdateDifferentPayload(ctx context.Context, entries []BulkUserEntry) (*BulkUpdateResult, error)
}
