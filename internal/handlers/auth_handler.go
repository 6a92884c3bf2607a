package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/middleware"
	"siteadmin/internal/models"
	"siteadmin/internal/permission"
	"siteadmin/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService services.AdminUserServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.AdminUserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the authentication response with token
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      *models.AdminUser `json:"user"`
}

// PermissionsResponse describes what the caller may do on every page.
type PermissionsResponse struct {
	Role        permission.Role                            `json:"role"`
	Permissions permission.Map                             `json:"permissions"`
	Actions     map[permission.PageName][]permission.Level `json:"actions"`
}

// Login handles user login
// @Summary     Login
// @Description Authenticate an admin user and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Login credentials"
// @Success     200 {object} LoginResponse "Authenticated"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     401 {object} middleware.ErrorResponse "Invalid credentials"
// @Failure     500 {object} middleware.ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.AttemptLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, expiresAt, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	respondOK(c, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Me returns the authenticated user's profile
// @Summary     Current user
// @Description Get the profile of the authenticated user
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.AdminUser "Current user"
// @Failure     401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure     404 {object} middleware.ErrorResponse "User not found"
// @Router      /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, user)
}

// Permissions returns the caller's effective access for every page. The
// answer comes from the same evaluator as the route gates.
// @Summary     Effective permissions
// @Description Get the resolved access level and allowed actions per page
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} PermissionsResponse "Effective permissions"
// @Failure     401 {object} middleware.ErrorResponse "Unauthorized"
// @Router      /auth/permissions [get]
func (h *AuthHandler) Permissions(c *gin.Context) {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	respondOK(c, http.StatusOK, PermissionsResponse{
		Role:        subject.Role(),
		Permissions: permission.Effective(subject),
		Actions:     permission.Actions(subject),
	})
}
