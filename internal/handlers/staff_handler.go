package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteadmin/internal/pagination"
	"siteadmin/internal/services"
)

// StaffHandler handles staff profile requests.
type StaffHandler struct {
	staffService services.StaffServicer
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(staffService services.StaffServicer) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// StaffRequest represents the request payload for creating or updating a
// staff member.
type StaffRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Slug      string `json:"slug" binding:"required,slug"`
	Position  string `json:"position" binding:"max=100"`
	Bio       string `json:"bio" binding:"max=5000"`
	Photo     string `json:"photo" binding:"max=500"`
	Email     string `json:"email" binding:"omitempty,email"`
	SortOrder int    `json:"sort_order" binding:"gte=0"`
	IsActive  *bool  `json:"is_active"`
}

// ListStaffQuery holds the query parameters of the staff listing.
type ListStaffQuery struct {
	pagination.PageRequest
	ActiveOnly bool `form:"active_only"`
}

func (r StaffRequest) input() services.StaffInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return services.StaffInput{
		Name:      r.Name,
		Slug:      r.Slug,
		Position:  r.Position,
		Bio:       r.Bio,
		Photo:     r.Photo,
		Email:     r.Email,
		SortOrder: r.SortOrder,
		IsActive:  active,
	}
}

// ListStaff returns a page of staff members in display order
// @Summary     List staff
// @Tags        staff
// @Produce     json
// @Security    BearerAuth
// @Param       active_only query bool false "Only active members"
// @Param       page        query int  false "Page number (default 1)"
// @Param       page_size   query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.StaffMember] "Staff members"
// @Failure     403 {object} middleware.ErrorResponse "Forbidden"
// @Router      /staff [get]
func (h *StaffHandler) ListStaff(c *gin.Context) {
	var q ListStaffQuery
	if err := bindQuery(c, &q); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.staffService.ListStaff(c.Request.Context(), q.ActiveOnly, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetStaff returns one staff member
// @Summary     Get staff member
// @Tags        staff
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Staff member ID"
// @Success     200 {object} models.StaffMember "Staff member"
// @Failure     404 {object} middleware.ErrorResponse "Staff member not found"
// @Router      /staff/{id} [get]
func (h *StaffHandler) GetStaff(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.staffService.GetStaff(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, member)
}

// CreateStaff creates a staff member
// @Summary     Create staff member
// @Tags        staff
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body StaffRequest true "Staff member details"
// @Success     201 {object} models.StaffMember "Staff member created"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     409 {object} middleware.ErrorResponse "Slug in use"
// @Router      /staff [post]
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StaffRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.staffService.CreateStaff(c.Request.Context(), actor, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, member)
}

// UpdateStaff replaces a staff member
// @Summary     Update staff member
// @Tags        staff
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string       true "Staff member ID"
// @Param       request body StaffRequest true "Staff member details"
// @Success     200 {object} models.StaffMember "Staff member updated"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     404 {object} middleware.ErrorResponse "Staff member not found"
// @Router      /staff/{id} [put]
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
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

	var req StaffRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.staffService.UpdateStaff(c.Request.Context(), actor, id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, member)
}

// DeleteStaff deletes a staff member
// @Summary     Delete staff member
// @Tags        staff
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Staff member ID"
// @Success     200 {object} middleware.SuccessResponse "Staff member deleted"
// @Failure     404 {object} middleware.ErrorResponse "Staff member not found"
// @Router      /staff/{id} [delete]
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
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

	if err := h.staffService.DeleteStaff(c.Request.Context(), actor, id); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
