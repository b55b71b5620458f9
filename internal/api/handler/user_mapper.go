package handler

import (
	"github.com/acmecorp/user-management-api/internal/core/domain"
	"github.com/acmecorp/user-management-api/internal/core/ports"
)

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      roleRefResponse{ID: u.RoleID, Name: u.RoleName},
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func toUserListResponse(users []domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}

func toRoleResponse(r *domain.Role) roleResponse {
	return roleResponse{
		ID:            r.ID,
		Name:          r.Name,
		AccessModules: r.AccessModules,
		Active:        r.Active,
		CreatedAt:     r.CreatedAt,
	}
}

func toRoleListResponse(roles []domain.Role) []roleResponse {
	out := make([]roleResponse, len(roles))
	for i := range roles {
		out[i] = toRoleResponse(&roles[i])
	}
	return out
}

func toBulkResultResponse(r *ports.BulkUpdateResult) bulkResultResponse {
	failed := make([]bulkFailureResponse, len(r.Failed))
	for i, f := range r.Failed {
		failed[i] = bulkFailureResponse{UserID: f.UserID, Reason: f.Reason}
	}
	return bulkResultResponse{
		Updated:      r.Updated,
		TotalMatched: r.TotalMatched,
		SuccessIDs:   r.SuccessIDs,
		Failed:       failed,
	}
}

// --- Request → Service input ---

func toPatch(req bulkPatchRequest) ports.UserPatch {
	return ports.UserPatch{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Active:    req.Active,
		Role:      req.Role,
	}
}
