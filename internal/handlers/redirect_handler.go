package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteadmin/internal/pagination"
	"siteadmin/internal/services"
)

// RedirectHandler handles redirect requests.
type RedirectHandler struct {
	redirectService services.RedirectServicer
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(redirectService services.RedirectServicer) *RedirectHandler {
	return &RedirectHandler{redirectService: redirectService}
}

// CreateRedirectRequest represents the request payload for creating a redirect.
type CreateRedirectRequest struct {
	FromPath   string `json:"from_path" binding:"required,page_path"`
	ToPath     string `json:"to_path" binding:"required,page_path"`
	StatusCode int    `json:"status_code" binding:"omitempty,redirect_status"`
}

// ListRedirects returns a page of redirects
// @Summary     List redirects
// @Tags        redirects
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Redirect] "Redirects"
// @Failure     403 {object} middleware.ErrorResponse "Forbidden"
// @Router      /redirects [get]
func (h *RedirectHandler) ListRedirects(c *gin.Context) {
	var page pagination.PageRequest
	if err := bindQuery(c, &page); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.redirectService.ListRedirects(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// CreateRedirect creates a redirect
// @Summary     Create redirect
// @Tags        redirects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRedirectRequest true "Redirect details"
// @Success     201 {object} models.Redirect "Redirect created"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input or redirect loop"
// @Failure     409 {object} middleware.ErrorResponse "Source path already redirects"
// @Router      /redirects [post]
func (h *RedirectHandler) CreateRedirect(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRedirectRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	redirect, err := h.redirectService.CreateRedirect(c.Request.Context(), actor, req.FromPath, req.ToPath, req.StatusCode)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, redirect)
}

// DeleteRedirect deletes a redirect
// @Summary     Delete redirect
// @Tags        redirects
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Redirect ID"
// @Success     200 {object} middleware.SuccessResponse "Redirect deleted"
// @Failure     404 {object} middleware.ErrorResponse "Redirect not found"
// @Router      /redirects/{id} [delete]
func (h *RedirectHandler) DeleteRedirect(c *gin.Context) {
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

	if err := h.redirectService.DeleteRedirect(c.Request.Context(), actor, id); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
