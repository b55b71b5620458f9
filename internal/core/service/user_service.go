package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/acmecorp/user-management-api/internal/api/metrics"
	"github.com/acmecorp/user-management-api/internal/core/domain"
	"github.com/acmecorp/user-management-api/internal/core/ports"
	"github.com/acmecorp/user-management-api/internal/pkg/password"
)

// UserService implements user CRUD, search, capability checks, and the two
// bulk mutation operations.
type UserService struct {
	repo   ports.UserRepository
	roles  ports.RoleRepository
	hasher password.Hasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, roles ports.RoleRepository, hasher password.Hasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, roles: roles, hasher: hasher, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) SearchUsers(ctx context.Context, text string) ([]domain.User, error) {
	return s.repo.Search(ctx, strings.TrimSpace(text))
}

// resolveRole fetches the referenced role and returns its name for
// denormalization. Absent or inactive roles are rejected the same way.
func (s *UserService) resolveRole(ctx context.Context, roleID string) (string, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return "", domain.ErrInvalidRole
	}
	if !role.Active {
		return "", domain.ErrInvalidRole
	}
	return role.Name, nil
}

func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	roleName, err := s.resolveRole(ctx, in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		RoleID:       in.Role,
		RoleName:     roleName,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

// UpdateUser has full-replace semantics for the provided fields: username,
// email, role and names are always overwritten, active only when provided,
// and the password is re-hashed only when non-empty.
func (s *UserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	roleName, err := s.resolveRole(ctx, in.Role)
	if err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Email = strings.TrimSpace(in.Email)
	user.RoleID = in.Role
	user.RoleName = roleName
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// CheckModuleAccess resolves the user's role and tests membership of module
// in its access set. An unknown module or an inactive role yields hasAccess
// false, not an error; only an absent user fails.
func (s *UserService) CheckModuleAccess(ctx context.Context, userID, module string) (*ports.ModuleAccess, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInvalidUser
	}

	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil || !role.Active {
		return &ports.ModuleAccess{HasAccess: false}, nil
	}

	return &ports.ModuleAccess{HasAccess: role.HasModule(module)}, nil
}

// BulkUpdateSamePayload applies one patch to every listed user. All unknown
// ids are collected into a single BulkValidationError before anything is
// written; the write itself is one updateMany.
func (s *UserService) BulkUpdateSamePayload(ctx context.Context, in ports.BulkSamePayloadInput) (*ports.BulkUpdateSummary, error) {
	existing, err := s.repo.FindExistingIDs(ctx, in.UserIDs)
	if err != nil {
		return nil, err
	}

	var incorrect []string
	for _, id := range in.UserIDs {
		if _, ok := existing[id]; !ok {
			incorrect = append(incorrect, id)
		}
	}
	if len(incorrect) > 0 {
		metrics.BulkUserUpdatesTotal.WithLabelValues("same_payload", "failed").Add(float64(len(incorrect)))
		return nil, &domain.BulkValidationError{IncorrectUserIDs: incorrect}
	}

	patch := in.Patch
	if patch.Role != nil {
		roleName, err := s.resolveRole(ctx, *patch.Role)
		if err != nil {
			return nil, err
		}
		patch.RoleName = &roleName
	}

	matched, modified, err := s.repo.UpdateMany(ctx, in.UserIDs, patch)
	if err != nil {
		return nil, err
	}

	metrics.BulkUserUpdatesTotal.WithLabelValues("same_payload", "updated").Add(float64(modified))
	s.logger.Info().Int("users", len(in.UserIDs)).Int64("modified", modified).Msg("bulk same-payload update applied")
	return &ports.BulkUpdateSummary{MatchedCount: matched, ModifiedCount: modified}, nil
}

// BulkUpdateDifferentPayload submits one update per entry as an unordered
// batch so that one bad entry never aborts its siblings. Entries whose role
// cannot be resolved are routed to the failed list up front. The batch API
// reports aggregate counts only, so entries that matched no document are
// inferred afterwards as attempted − matched and moved to the failed list.
func (s *UserService) BulkUpdateDifferentPayload(ctx context.Context, entries []ports.BulkUserEntry) (*ports.BulkUpdateResult, error) {
	roles, err := s.roles.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, domain.ErrInvalidRole
	}
	nameByID := make(map[string]string, len(roles))
	for _, r := range roles {
		nameByID[r.ID] = r.Name
	}

	result := &ports.BulkUpdateResult{
		SuccessIDs: []string{},
		Failed:     []ports.BulkFailure{},
	}

	ops := make([]ports.UserBulkOp, 0, len(entries))
	for _, entry := range entries {
		var roleName string
		if entry.Patch.Role != nil {
			roleName = nameByID[*entry.Patch.Role]
		}
		if roleName == "" {
			result.Failed = append(result.Failed, ports.BulkFailure{
				UserID: entry.UserID,
				Reason: domain.ErrInvalidRole.Error(),
			})
			continue
		}

		patch := entry.Patch
		patch.RoleName = &roleName
		ops = append(ops, ports.UserBulkOp{UserID: entry.UserID, Patch: patch})
		result.SuccessIDs = append(result.SuccessIDs, entry.UserID)
	}

	if len(ops) > 0 {
		matched, modified, err := s.repo.BulkUpdate(ctx, ops)
		if err != nil {
			return nil, err
		}

		if failedCount := len(result.SuccessIDs) - int(matched); failedCount > 0 {
			for _, id := range result.SuccessIDs[len(result.SuccessIDs)-failedCount:] {
				result.Failed = append(result.Failed, ports.BulkFailure{
					UserID: id,
					Reason: domain.ErrInvalidUser.Error(),
				})
			}
			result.SuccessIDs = result.SuccessIDs[:matched]
		}
		result.Updated = modified
		result.TotalMatched = matched
	}

	metrics.BulkUserUpdatesTotal.WithLabelValues("different_payload", "updated").Add(float64(len(result.SuccessIDs)))
	metrics.BulkUserUpdatesTotal.WithLabelValues("different_payload", "failed").Add(float64(len(result.Failed)))
	s.logger.Info().
		Int("success", len(result.SuccessIDs)).
		Int("failed", len(result.Failed)).
		Msg("bulk different-payload update applied")
	return result, nil
}
