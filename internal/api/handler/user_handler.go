package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acmecorp/user-management-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user directory operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /user/all.
//
// @Summary      List all users, newest first
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Router       /user/all [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(users))
}

// Search handles GET /user/search?search=text.
//
// @Summary      Search users by substring
// @Description  Case-insensitive substring match on email, username, roleName, firstName and lastName.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search text"
// @Success      200     {array}   userResponse
// @Failure      401     {object}  errorResponse
// @Router       /user/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	users, err := h.service.SearchUsers(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(users))
}

// Create handles POST /user/create.
//
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /user/create [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update handles PUT /user/update/:id.
//
// @Summary      Update a user (full replace of provided fields)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "User details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /user/update/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Active:    req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /user/remove/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/remove/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "User has been successfully deleted"})
}

// ModuleAccess handles GET /user/:id/module-access/:module.
//
// @Summary      Check whether a user's role grants an access module
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "User id"
// @Param        module  path      string  true  "Access module"
// @Success      200     {object}  moduleAccessResponse
// @Failure      400     {object}  errorResponse
// @Router       /user/{id}/module-access/{module} [get]
func (h *UserHandler) ModuleAccess(c echo.Context) error {
	access, err := h.service.CheckModuleAccess(c.Request().Context(), c.Param("id"), c.Param("module"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moduleAccessResponse{HasAccess: access.HasAccess})
}

// BulkUpdateSame handles PATCH /user/bulk-update-same-payload.
//
// @Summary      Apply one patch to many users
// @Description  Fails as a whole when any user id is unknown; all unknown ids are reported together.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkSamePayloadRequest  true  "User ids and shared patch"
// @Success      200   {object}  bulkSummaryResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /user/bulk-update-same-payload [patch]
func (h *UserHandler) BulkUpdateSame(c echo.Context) error {
	var req bulkSamePayloadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	summary, err := h.service.BulkUpdateSamePayload(c.Request().Context(), ports.BulkSamePayloadInput{
		UserIDs: req.UserIDs,
		Patch:   toPatch(req.UserDetails),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bulkSummaryResponse{
		MatchedCount:  summary.MatchedCount,
		ModifiedCount: summary.ModifiedCount,
	})
}

// BulkUpdateDifferent handles PATCH /user/bulk-update-different-payload.
//
// @Summary      Apply a distinct patch per user
// @Description  Entries run as an unordered batch; one entry's failure never aborts its siblings. Mixed outcomes are reported per entry.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkDifferentPayloadRequest  true  "Per-user patches"
// @Success      200   {object}  bulkResultResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /user/bulk-update-different-payload [patch]
func (h *UserHandler) BulkUpdateDifferent(c echo.Context) error {
	var req bulkDifferentPayloadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	entries := make([]ports.BulkUserEntry, len(req.Users))
	for i, u := range req.Users {
		entries[i] = ports.BulkUserEntry{UserID: u.UserID, Patch: toPatch(u.UserDetails)}
	}

	result, err := h.service.BulkUpdateDifferentPayload(c.Request().Context(), entries)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBulkResultResponse(result))
}
