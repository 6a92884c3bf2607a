package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
	"siteadmin/internal/services"
)

// SEOHandler handles per-path SEO metadata requests.
type SEOHandler struct {
	seoService services.SEOServicer
}

// NewSEOHandler creates a new SEOHandler.
func NewSEOHandler(seoService services.SEOServicer) *SEOHandler {
	return &SEOHandler{seoService: seoService}
}

// OpenGraphRequest holds the Open Graph fields of a page.
type OpenGraphRequest struct {
	Title       string `json:"title" binding:"max=200"`
	Description string `json:"description" binding:"max=500"`
	Image       string `json:"image" binding:"max=500"`
}

// UpsertSEORequest represents the full metadata of one path.
type UpsertSEORequest struct {
	Path            string           `json:"path" binding:"required,page_path"`
	MetaTitle       string           `json:"meta_title" binding:"max=200"`
	MetaDescription string           `json:"meta_description" binding:"max=500"`
	Keywords        string           `json:"keywords" binding:"max=500"`
	CanonicalURL    string           `json:"canonical_url" binding:"omitempty,url,max=500"`
	NoIndex         bool             `json:"no_index"`
	OpenGraph       OpenGraphRequest `json:"open_graph"`
}

// PathRequest names a single path.
type PathRequest struct {
	Path string `json:"path" binding:"required,page_path"`
}

// PathsRequest names the paths of a bulk operation.
type PathsRequest struct {
	Paths []string `json:"paths" binding:"required,min=1,max=500,dive,page_path"`
}

// BulkUpdateSEORequest represents fields applied to many paths. Omitted
// fields are left unchanged.
type BulkUpdateSEORequest struct {
	Paths                []string `json:"paths" binding:"required,min=1,max=500,dive,page_path"`
	MetaTitle            *string  `json:"meta_title" binding:"omitempty,max=200"`
	MetaDescription      *string  `json:"meta_description" binding:"omitempty,max=500"`
	Keywords             *string  `json:"keywords" binding:"omitempty,max=500"`
	NoIndex              *bool    `json:"no_index"`
	OpenGraphTitle       *string  `json:"og_title" binding:"omitempty,max=200"`
	OpenGraphDescription *string  `json:"og_description" binding:"omitempty,max=500"`
	OpenGraphImage       *string  `json:"og_image" binding:"omitempty,max=500"`
}

// ChangeSlugRequest moves the metadata of one path to another.
type ChangeSlugRequest struct {
	OldPath        string `json:"old_path" binding:"required,page_path"`
	NewPath        string `json:"new_path" binding:"required,page_path"`
	CreateRedirect bool   `json:"create_redirect"`
}

// ListSEOQuery holds the query parameters of the page listing.
type ListSEOQuery struct {
	pagination.PageRequest
	Search string `form:"search" binding:"max=200"`
}

// ListPages returns a page of SEO records ordered by path
// @Summary     List SEO pages
// @Tags        seo
// @Produce     json
// @Security    BearerAuth
// @Param       search    query string false "Match on path or meta title"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SEOPage] "Pages"
// @Failure     403 {object} middleware.ErrorResponse "Forbidden"
// @Router      /seo [get]
func (h *SEOHandler) ListPages(c *gin.Context) {
	var q ListSEOQuery
	if err := bindQuery(c, &q); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.seoService.ListPages(c.Request.Context(), q.Search, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetPage returns the metadata of one path
// @Summary     Get SEO page
// @Tags        seo
// @Produce     json
// @Security    BearerAuth
// @Param       path query string true "Site path"
// @Success     200 {object} models.SEOPage "Page"
// @Failure     400 {object} middleware.ErrorResponse "Invalid path"
// @Failure     404 {object} middleware.ErrorResponse "No metadata for path"
// @Router      /seo/page [get]
func (h *SEOHandler) GetPage(c *gin.Context) {
	var q struct {
		Path string `form:"path" binding:"required,page_path"`
	}
	if err := bindQuery(c, &q); err != nil {
		respondWithError(c, err)
		return
	}

	page, err := h.seoService.GetPage(c.Request.Context(), q.Path)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

// UpsertPage creates or replaces the metadata of a path
// @Summary     Upsert SEO page
// @Tags        seo
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertSEORequest true "Page metadata"
// @Success     200 {object} models.SEOPage "Page updated"
// @Success     201 {object} models.SEOPage "Page created"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Router      /seo [put]
func (h *SEOHandler) UpsertPage(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertSEORequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	page, created, err := h.seoService.UpsertPage(c.Request.Context(), actor, services.SEOInput{
		Path:            req.Path,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
		CanonicalURL:    req.CanonicalURL,
		NoIndex:         req.NoIndex,
		OpenGraph: models.OpenGraph{
			Title:       req.OpenGraph.Title,
			Description: req.OpenGraph.Description,
			Image:       req.OpenGraph.Image,
		},
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondOK(c, status, page)
}

// ResetPage restores the default metadata of a path
// @Summary     Reset SEO page
// @Tags        seo
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PathRequest true "Path to reset"
// @Success     200 {object} models.SEOPage "Page reset"
// @Failure     404 {object} middleware.ErrorResponse "No metadata for path"
// @Router      /seo/reset [post]
func (h *SEOHandler) ResetPage(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PathRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	page, err := h.seoService.ResetPage(c.Request.Context(), actor, req.Path)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

// BulkUpdate applies fields to many paths
// @Summary     Bulk update SEO pages
// @Tags        seo
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkUpdateSEORequest true "Paths and fields"
// @Success     200 {object} services.BulkResult "Affected paths"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Router      /seo/bulk-update [post]
func (h *SEOHandler) BulkUpdate(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkUpdateSEORequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.seoService.BulkUpdate(c.Request.Context(), actor, req.Paths, services.SEOPatch{
		MetaTitle:            req.MetaTitle,
		MetaDescription:      req.MetaDescription,
		Keywords:             req.Keywords,
		NoIndex:              req.NoIndex,
		OpenGraphTitle:       req.OpenGraphTitle,
		OpenGraphDescription: req.OpenGraphDescription,
		OpenGraphImage:       req.OpenGraphImage,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// BulkReset restores default metadata on many paths
// @Summary     Bulk reset SEO pages
// @Tags        seo
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PathsRequest true "Paths"
// @Success     200 {object} services.BulkResult "Affected paths"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Router      /seo/bulk-reset [post]
func (h *SEOHandler) BulkReset(c *gin.Context) {
	h.bulk(c, h.seoService.BulkReset)
}

// BulkDelete removes the metadata of many paths
// @Summary     Bulk delete SEO pages
// @Tags        seo
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PathsRequest true "Paths"
// @Success     200 {object} services.BulkResult "Affected paths"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Router      /seo/bulk-delete [post]
func (h *SEOHandler) BulkDelete(c *gin.Context) {
	h.bulk(c, h.seoService.BulkDelete)
}

func (h *SEOHandler) bulk(c *gin.Context, op func(ctx context.Context, actor services.Actor, paths []string) (*services.BulkResult, error)) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PathsRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := op(c.Request.Context(), actor, req.Paths)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ChangeSlug moves the metadata of a path and optionally redirects the old one
// @Summary     Change SEO page path
// @Tags        seo
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangeSlugRequest true "Old and new path"
// @Success     200 {object} services.SlugChangeResult "Page moved"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     404 {object} middleware.ErrorResponse "No metadata for old path"
// @Failure     409 {object} middleware.ErrorResponse "New path in use"
// @Router      /seo/slug [put]
func (h *SEOHandler) ChangeSlug(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangeSlugRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.seoService.ChangeSlug(c.Request.Context(), actor, req.OldPath, req.NewPath, req.CreateRedirect)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}
