package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acmecorp/user-management-api/internal/core/ports"
)

// RoleHandler handles HTTP requests for role operations.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /role/all.
//
// @Summary      List all roles, newest first
// @Tags         roles
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {array}   roleResponse
// @Failure      401  {object}  errorResponse
// @Router       /role/all [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.service.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleListResponse(roles))
}

// Create handles POST /role/create.
//
// @Summary      Create a new role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        body  body      createRoleRequest  true  "Role details"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /role/create [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, err := h.service.CreateRole(c.Request().Context(), req.Name, req.AccessModules)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoleResponse(role))
}

// Update handles PUT /role/update/:id.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      string             true  "Role id"
// @Param        body  body      updateRoleRequest  true  "Role details"
// @Success      200   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /role/update/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, err := h.service.UpdateRole(c.Request().Context(), c.Param("id"), ports.UpdateRoleInput{
		Name:          req.Name,
		AccessModules: req.AccessModules,
		Active:        req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Delete handles DELETE /role/remove/:id.
//
// @Summary      Delete a role not referenced by any user
// @Tags         roles
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "Role id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /role/remove/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteRole(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Role has been successfully deleted"})
}

// AddModule handles PATCH /role/:id/access-module/add.
//
// @Summary      Add an access module to a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      string               true  "Role id"
// @Param        body  body      accessModuleRequest  true  "Access module"
// @Success      200   {object}  accessModulesResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /role/{id}/access-module/add [patch]
func (h *RoleHandler) AddModule(c echo.Context) error {
	var req accessModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, err := h.service.AddAccessModule(c.Request().Context(), c.Param("id"), req.AccessModule)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accessModulesResponse{AccessModules: role.AccessModules})
}

// RemoveModule handles PATCH /role/:id/access-module/remove.
//
// @Summary      Remove an access module from a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      string               true  "Role id"
// @Param        body  body      accessModuleRequest  true  "Access module"
// @Success      200   {object}  accessModulesResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /role/{id}/access-module/remove [patch]
func (h *RoleHandler) RemoveModule(c echo.Context) error {
	var req accessModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, err := h.service.RemoveAccessModule(c.Request().Context(), c.Param("id"), req.AccessModule)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accessModulesResponse{AccessModules: role.AccessModules})
}
