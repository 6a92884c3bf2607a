package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
	"siteadmin/internal/services"
)

// ActivityHandler serves the audit log.
type ActivityHandler struct {
	activityService services.ActivityServicer
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService services.ActivityServicer) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListActivityQuery holds the filters of the activity listing.
type ListActivityQuery struct {
	pagination.PageRequest
	EntityType  string     `form:"entity_type" binding:"omitempty,max=32"`
	EntityID    string     `form:"entity_id" binding:"omitempty,max=64"`
	Action      string     `form:"action" binding:"omitempty,max=32"`
	Path        string     `form:"path" binding:"omitempty,page_path"`
	PerformedBy string     `form:"performed_by" binding:"omitempty,max=64"`
	Since       *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until       *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ListActivity returns a filtered page of audit entries, newest first
// @Summary     List activity
// @Tags        activity
// @Produce     json
// @Security    BearerAuth
// @Param       entity_type  query string false "Entity type"
// @Param       entity_id    query string false "Entity ID"
// @Param       action       query string false "Action"
// @Param       path         query string false "Site path"
// @Param       performed_by query string false "User ID"
// @Param       since        query string false "RFC 3339 lower bound"
// @Param       until        query string false "RFC 3339 upper bound"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Entries"
// @Failure     400 {object} middleware.ErrorResponse "Invalid filter"
// @Failure     403 {object} middleware.ErrorResponse "Forbidden"
// @Router      /activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	var q ListActivityQuery
	if err := bindQuery(c, &q); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.activityService.ListActivity(c.Request.Context(), services.ActivityFilter{
		EntityType:  q.EntityType,
		EntityID:    q.EntityID,
		Action:      models.AuditAction(q.Action),
		Path:        q.Path,
		PerformedBy: q.PerformedBy,
		Since:       q.Since,
		Until:       q.Until,
	}, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetActivity returns one audit entry
// @Summary     Get activity entry
// @Tags        activity
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} models.AuditLog "Entry"
// @Failure     404 {object} middleware.ErrorResponse "Entry not found"
// @Router      /activity/{id} [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.activityService.GetActivity(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, entry)
}
