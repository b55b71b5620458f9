package handler

import "time"

// --- Request types ---

type createUserRequest struct {
	Username  string `json:"username"  validate:"required,username"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8"`
	Role      string `json:"role"      validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// updateUserRequest has full-replace semantics for the provided fields.
// Password is optional; when present the stored hash is replaced.
type updateUserRequest struct {
	Username  string `json:"username" validate:"required,username"`
	Email     string `json:"email"    validate:"required,email"`
	Role      string `json:"role"     validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password" validate:"omitempty,min=8"`
	Active    *bool  `json:"active"`
}

// bulkPatchRequest is the nil-aware patch shared by both bulk endpoints.
type bulkPatchRequest struct {
	Username  *string `json:"username,omitempty"  validate:"omitempty,username"`
	Email     *string `json:"email,omitempty"     validate:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Active    *bool   `json:"active,omitempty"`
	Role      *string `json:"role,omitempty"`
}

type bulkSamePayloadRequest struct {
	UserIDs     []string         `json:"userIds"     validate:"required,min=1"`
	UserDetails bulkPatchRequest `json:"userDetails" validate:"required"`
}

type bulkUserEntryRequest struct {
	UserID      string           `json:"userId"      validate:"required"`
	UserDetails bulkPatchRequest `json:"userDetails" validate:"required"`
}

type bulkDifferentPayloadRequest struct {
	Users []bulkUserEntryRequest `json:"users" validate:"required,min=1,dive"`
}

// --- Response types ---

type roleRefResponse struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type userResponse struct {
	ID        string          `json:"_id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"firstName,omitempty"`
	LastName  string          `json:"lastName,omitempty"`
	Role      roleRefResponse `json:"role"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
}

type moduleAccessResponse struct {
	HasAccess bool `json:"hasAccess"`
}

type bulkSummaryResponse struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type bulkFailureResponse struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

type bulkResultResponse struct {
	Updated      int64                 `json:"updated"`
	TotalMatched int64                 `json:"totalMatched"`
	SuccessIDs   []string              `json:"successIds"`
	Failed       []bulkFailureResponse `json:"failed"`
}
