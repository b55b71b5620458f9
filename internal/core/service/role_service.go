package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/acmecorp/user-management-api/internal/api/metrics"
	"github.com/acmecorp/user-management-api/internal/core/domain"
	"github.com/acmecorp/user-management-api/internal/core/ports"
)

// UserDirectory is the slice of the user repository the role service needs:
// the referential-integrity check on delete and the rename cascade target.
type UserDirectory interface {
	ExistsByRole(ctx context.Context, roleID string) (bool, error)
	UpdateRoleName(ctx context.Context, roleID, roleName string) (int64, error)
}

// RoleService implements role CRUD, access-module set mutations, and the
// role-name rename cascade.
type RoleService struct {
	repo   ports.RoleRepository
	users  UserDirectory
	logger zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, users UserDirectory, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, users: users, logger: logger}
}

func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.repo.FindAll(ctx)
}

func (s *RoleService) CreateRole(ctx context.Context, name string, accessModules []string) (*domain.Role, error) {
	if domain.HasDuplicates(accessModules) {
		return nil, domain.ErrDuplicateModules
	}

	now := time.Now().UTC()
	role := &domain.Role{
		Name:          name,
		AccessModules: accessModules,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.Insert(ctx, role)
	if err != nil {
		return nil, err
	}

	metrics.RolesCreatedTotal.Inc()
	s.logger.Info().Str("role_id", created.ID).Str("name", created.Name).Msg("role created")
	return created, nil
}

// UpdateRole applies a partial merge: an empty name keeps the current one and
// active is only applied when provided. A successful name change triggers the
// rename cascade as a best-effort side effect.
func (s *RoleService) UpdateRole(ctx context.Context, id string, in ports.UpdateRoleInput) (*domain.Role, error) {
	if domain.HasDuplicates(in.AccessModules) {
		return nil, domain.ErrDuplicateModules
	}

	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	renamed := in.Name != "" && in.Name != role.Name
	if in.Name != "" {
		role.Name = in.Name
	}
	role.AccessModules = in.AccessModules
	if in.Active != nil {
		role.Active = *in.Active
	}
	role.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, role); err != nil {
		return nil, err
	}

	if renamed {
		// Failure to propagate leaves users with a stale roleName until the
		// next rename; the update itself still succeeds.
		modified, err := s.CascadeRoleName(ctx, id, role.Name)
		if err != nil {
			s.logger.Error().Err(err).Str("role_id", id).Str("name", role.Name).Msg("roleName cascade failed")
		} else {
			s.logger.Info().Str("role_id", id).Str("name", role.Name).Int64("users", modified).Msg("roleName cascade applied")
		}
	}

	return role, nil
}

// CascadeRoleName rewrites the denormalized roleName on every user that
// references roleID. It is invoked explicitly by the update path, never as a
// persistence hook.
func (s *RoleService) CascadeRoleName(ctx context.Context, roleID, name string) (int64, error) {
	modified, err := s.users.UpdateRoleName(ctx, roleID, name)
	if err != nil {
		return 0, err
	}
	metrics.RoleRenameCascadedUsers.Add(float64(modified))
	return modified, nil
}

// DeleteRole removes a role unless a user still references it. The reference
// check runs immediately before the delete to keep the race window small; it
// is not atomic with the delete.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	assigned, err := s.users.ExistsByRole(ctx, id)
	if err != nil {
		return err
	}
	if assigned {
		return domain.ErrRoleAssigned
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("role_id", id).Msg("role deleted")
	return nil
}

func (s *RoleService) AddAccessModule(ctx context.Context, id, module string) (*domain.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.HasModule(module) {
		return nil, domain.ErrModuleExists
	}
	return s.repo.AddModule(ctx, id, module)
}

func (s *RoleService) RemoveAccessModule(ctx context.Context, id, module string) (*domain.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !role.HasModule(module) {
		return nil, domain.ErrModuleNotFound
	}
	return s.repo.RemoveModule(ctx, id, module)
}
