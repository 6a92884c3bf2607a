package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteadmin/internal/pagination"
	"siteadmin/internal/permission"
	"siteadmin/internal/services"
)

// UserHandler handles admin user management requests.
type UserHandler struct {
	userService services.AdminUserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.AdminUserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents the request payload for creating an admin user.
type CreateUserRequest struct {
	Email       string                         `json:"email" binding:"required,email,max=255"`
	Password    string                         `json:"password" binding:"required,min=8,max=128"`
	Name        string                         `json:"name" binding:"max=100"`
	Role        string                         `json:"role" binding:"required,role"`
	Permissions map[permission.PageName]string `json:"permissions" binding:"omitempty,dive,keys,required,endkeys,access_level"`
}

// UpdateUserRequest represents the request payload for updating an admin
// user. Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Email       *string                        `json:"email" binding:"omitempty,email,max=255"`
	Password    *string                        `json:"password" binding:"omitempty,min=8,max=128"`
	Name        *string                        `json:"name" binding:"omitempty,max=100"`
	Role        *string                        `json:"role" binding:"omitempty,role"`
	Permissions map[permission.PageName]string `json:"permissions" binding:"omitempty,dive,keys,required,endkeys,access_level"`
	IsActive    *bool                          `json:"is_active"`
}

// ListUsersQuery holds the query parameters of the user listing.
type ListUsersQuery struct {
	pagination.PageRequest
	Role string `form:"role" binding:"omitempty,role"`
}

func toPermissionMap(in map[permission.PageName]string) permission.Map {
	if in == nil {
		return nil
	}
	out := make(permission.Map, len(in))
	for page, level := range in {
		if a, ok := permission.ParseAccessLevel(level); ok {
			out[page] = a
		}
	}
	return out
}

func parseRole(s string) permission.Role {
	role, _ := permission.ParseRole(s)
	return role
}

// ListUsers returns a page of admin users
// @Summary     List admin users
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       role      query string false "admin, seo or custom"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AdminUser] "Users"
// @Failure     403 {object} middleware.ErrorResponse "Forbidden"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := bindQuery(c, &q); err != nil {
		respondWithError(c, err)
		return
	}

	var role *permission.Role
	if q.Role != "" {
		r := parseRole(q.Role)
		role = &r
	}

	result, err := h.userService.ListUsers(c.Request.Context(), role, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetUser returns one admin user
// @Summary     Get admin user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} models.AdminUser "User"
// @Failure     404 {object} middleware.ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// CreateUser creates an admin user
// @Summary     Create admin user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} models.AdminUser "User created"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     409 {object} middleware.ErrorResponse "Email in use"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), actor, services.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Role:        parseRole(req.Role),
		Permissions: toPermissionMap(req.Permissions),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, user)
}

// UpdateUser updates an admin user
// @Summary     Update admin user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "User ID"
// @Param       request body UpdateUserRequest true "Fields to change"
// @Success     200 {object} models.AdminUser "User updated"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     404 {object} middleware.ErrorResponse "User not found"
// @Failure     409 {object} middleware.ErrorResponse "Email in use or last admin"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	input := services.UpdateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Permissions: toPermissionMap(req.Permissions),
		IsActive:    req.IsActive,
	}
	if req.Role != nil {
		role := parseRole(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), actor, id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// DeleteUser deletes an admin user
// @Summary     Delete admin user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} middleware.SuccessResponse "User deleted"
// @Failure     400 {object} middleware.ErrorResponse "Cannot delete yourself"
// @Failure     404 {object} middleware.ErrorResponse "User not found"
// @Failure     409 {object} middleware.ErrorResponse "Last admin"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), actor, id); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
