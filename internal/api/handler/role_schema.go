package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses; the central error handler renders the same shape.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Msg        string `json:"msg"`
	Errors     any    `json:"errors,omitempty"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

// --- Request types ---

type createRoleRequest struct {
	Name          string   `json:"name"          validate:"required"`
	AccessModules []string `json:"accessModules" validate:"required"`
}

// updateRoleRequest carries partial-merge semantics: an empty name keeps the
// current one and active is only applied when present.
type updateRoleRequest struct {
	Name          string   `json:"name"`
	AccessModules []string `json:"accessModules" validate:"required"`
	Active        *bool    `json:"active"`
}

type accessModuleRequest struct {
	AccessModule string `json:"accessModule" validate:"required"`
}

// --- Response types ---

type roleResponse struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	AccessModules []string  `json:"accessModules"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

type accessModulesResponse struct {
	AccessModules []string `json:"accessModules"`
}
