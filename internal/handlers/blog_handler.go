package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
	"siteadmin/internal/services"
)

// BlogHandler handles blog post requests.
type BlogHandler struct {
	blogService services.BlogServicer
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogService services.BlogServicer) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// BlogRequest represents the request payload for creating or updating a post.
type BlogRequest struct {
	Title           string   `json:"title" binding:"required,min=1,max=200"`
	Slug            string   `json:"slug" binding:"required,slug"`
	Excerpt         string   `json:"excerpt" binding:"max=500"`
	Content         string   `json:"content"`
	CoverImage      string   `json:"cover_image" binding:"max=500"`
	Author          string   `json:"author" binding:"max=100"`
	Tags            []string `json:"tags" binding:"max=20,dive,min=1,max=50"`
	Status          string   `json:"status" binding:"omitempty,blog_status"`
	MetaTitle       string   `json:"meta_title" binding:"max=200"`
	MetaDescription string   `json:"meta_description" binding:"max=500"`
	// CreateRedirect sends the old public path to the new one when the
	// slug changes. Ignored on create.
	CreateRedirect bool `json:"create_redirect"`
}

// ListBlogsQuery holds the query parameters of the post listing.
type ListBlogsQuery struct {
	pagination.PageRequest
	Status string `form:"status" binding:"omitempty,blog_status"`
	Search string `form:"search" binding:"max=200"`
}

// BulkDeleteBlogsRequest represents the request payload for deleting many posts.
type BulkDeleteBlogsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,max=100,dive,uuid"`
}

func (r BlogRequest) input() services.BlogInput {
	return services.BlogInput{
		Title:           r.Title,
		Slug:            r.Slug,
		Excerpt:         r.Excerpt,
		Content:         r.Content,
		CoverImage:      r.CoverImage,
		Author:          r.Author,
		Tags:            r.Tags,
		Status:          models.BlogStatus(r.Status),
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
	}
}

// ListPosts returns a page of blog posts
// @Summary     List blog posts
// @Tags        blogs
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "draft or published"
// @Param       search    query string false "Match on title or slug"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BlogPost] "Posts"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     403 {object} middleware.ErrorResponse "Forbidden"
// @Router      /blogs [get]
func (h *BlogHandler) ListPosts(c *gin.Context) {
	var q ListBlogsQuery
	if err := bindQuery(c, &q); err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.BlogFilter{Search: q.Search}
	if q.Status != "" {
		status := models.BlogStatus(q.Status)
		filter.Status = &status
	}

	result, err := h.blogService.ListPosts(c.Request.Context(), filter, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetPost returns one blog post
// @Summary     Get blog post
// @Tags        blogs
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post ID"
// @Success     200 {object} models.BlogPost "Post"
// @Failure     400 {object} middleware.ErrorResponse "Invalid ID"
// @Failure     404 {object} middleware.ErrorResponse "Post not found"
// @Router      /blogs/{id} [get]
func (h *BlogHandler) GetPost(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	post, err := h.blogService.GetPost(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, post)
}

// CreatePost creates a blog post
// @Summary     Create blog post
// @Tags        blogs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BlogRequest true "Post details"
// @Success     201 {object} models.BlogPost "Post created"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     409 {object} middleware.ErrorResponse "Slug in use"
// @Router      /blogs [post]
func (h *BlogHandler) CreatePost(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BlogRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	post, err := h.blogService.CreatePost(c.Request.Context(), actor, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, post)
}

// UpdatePost replaces a blog post
// @Summary     Update blog post
// @Description Replace the editable fields of a post. A slug change is audited and may create a redirect.
// @Tags        blogs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string      true "Post ID"
// @Param       request body BlogRequest true "Post details"
// @Success     200 {object} models.BlogPost "Post updated"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Failure     404 {object} middleware.ErrorResponse "Post not found"
// @Failure     409 {object} middleware.ErrorResponse "Slug in use"
// @Router      /blogs/{id} [put]
func (h *BlogHandler) UpdatePost(c *gin.Context) {
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

	var req BlogRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	post, err := h.blogService.UpdatePost(c.Request.Context(), actor, id, req.input(), req.CreateRedirect)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, post)
}

// DeletePost deletes a blog post
// @Summary     Delete blog post
// @Tags        blogs
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Post ID"
// @Success     200 {object} middleware.SuccessResponse "Post deleted"
// @Failure     404 {object} middleware.ErrorResponse "Post not found"
// @Router      /blogs/{id} [delete]
func (h *BlogHandler) DeletePost(c *gin.Context) {
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

	if err := h.blogService.DeletePost(c.Request.Context(), actor, id); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// BulkDeletePosts deletes many blog posts
// @Summary     Bulk delete blog posts
// @Tags        blogs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkDeleteBlogsRequest true "Post IDs"
// @Success     200 {object} middleware.SuccessResponse "Number of deleted posts"
// @Failure     400 {object} middleware.ErrorResponse "Invalid input"
// @Router      /blogs/bulk-delete [post]
func (h *BlogHandler) BulkDeletePosts(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkDeleteBlogsRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.blogService.BulkDeletePosts(c.Request.Context(), actor, req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": deleted})
}
