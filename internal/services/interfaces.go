package services

import (
	"context"
	"time"

	"siteadmin/internal/audit"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
	"siteadmin/internal/permission"
)

// Actor identifies the admin user performing a mutation.
type Actor = audit.Actor

// CreateUserInput holds the fields of a new admin user.
type CreateUserInput struct {
	Email       string
	Password    string
	Name        string
	Role        permission.Role
	Permissions permission.Map
}

// UpdateUserInput holds optional changes to an admin user. Nil fields are
// left unchanged.
type UpdateUserInput struct {
	Email       *string
	Password    *string
	Name        *string
	Role        *permission.Role
	Permissions permission.Map
	IsActive    *bool
}

// AdminUserServicer defines the contract for admin user management and login.
type AdminUserServicer interface {
	AttemptLogin(ctx context.Context, email, password string) (*models.AdminUser, error)
	GetUserByID(ctx context.Context, id string) (*models.AdminUser, error)
	ListUsers(ctx context.Context, role *permission.Role, page pagination.PageRequest) (*pagination.PageResponse[models.AdminUser], error)
	CreateUser(ctx context.Context, actor Actor, input CreateUserInput) (*models.AdminUser, error)
	UpdateUser(ctx context.Context, actor Actor, id string, input UpdateUserInput) (*models.AdminUser, error)
	DeleteUser(ctx context.Context, actor Actor, id string) error
}

// BlogInput holds the editable fields of a blog post.
type BlogInput struct {
	Title           string
	Slug            string
	Excerpt         string
	Content         string
	CoverImage      string
	Author          string
	Tags            []string
	Status          models.BlogStatus
	MetaTitle       string
	MetaDescription string
}

// BlogFilter holds optional filters for listing blog posts.
type BlogFilter struct {
	Status *models.BlogStatus
	Search string
}

// BlogServicer defines the contract for blog post management.
type BlogServicer interface {
	ListPosts(ctx context.Context, filter BlogFilter, page pagination.PageRequest) (*pagination.PageResponse[models.BlogPost], error)
	GetPost(ctx context.Context, id string) (*models.BlogPost, error)
	CreatePost(ctx context.Context, actor Actor, input BlogInput) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, actor Actor, id string, input BlogInput, createRedirect bool) (*models.BlogPost, error)
	DeletePost(ctx context.Context, actor Actor, id string) error
	BulkDeletePosts(ctx context.Context, actor Actor, ids []string) (int, error)
}

// StaffInput holds the editable fields of a staff member.
type StaffInput struct {
	Name      string
	Slug      string
	Position  string
	Bio       string
	Photo     string
	Email     string
	SortOrder int
	IsActive  bool
}

// StaffServicer defines the contract for staff profile management.
type StaffServicer interface {
	ListStaff(ctx context.Context, activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.StaffMember], error)
	GetStaff(ctx context.Context, id string) (*models.StaffMember, error)
	CreateStaff(ctx context.Context, actor Actor, input StaffInput) (*models.StaffMember, error)
	UpdateStaff(ctx context.Context, actor Actor, id string, input StaffInput) (*models.StaffMember, error)
	DeleteStaff(ctx context.Context, actor Actor, id string) error
}

// SEOInput holds the full metadata of one site path.
type SEOInput struct {
	Path            string
	MetaTitle       string
	MetaDescription string
	Keywords        string
	CanonicalURL    string
	NoIndex         bool
	OpenGraph       models.OpenGraph
}

// SEOPatch holds metadata fields applied to many paths at once. Nil fields
// are left unchanged.
type SEOPatch struct {
	MetaTitle            *string
	MetaDescription      *string
	Keywords             *string
	NoIndex              *bool
	OpenGraphImage       *string
	OpenGraphTitle       *string
	OpenGraphDescription *string
}

// BulkResult reports the outcome of a bulk operation.
type BulkResult struct {
	AffectedPaths []string `json:"affected_paths"`
	Affected      int      `json:"affected"`
}

// SlugChangeResult reports a path change and the redirect it created.
type SlugChangeResult struct {
	Page     *models.SEOPage  `json:"page"`
	Redirect *models.Redirect `json:"redirect,omitempty"`
}

// SEOServicer defines the contract for per-path SEO metadata management.
type SEOServicer interface {
	ListPages(ctx context.Context, search string, page pagination.PageRequest) (*pagination.PageResponse[models.SEOPage], error)
	GetPage(ctx context.Context, path string) (*models.SEOPage, error)
	UpsertPage(ctx context.Context, actor Actor, input SEOInput) (*models.SEOPage, bool, error)
	ResetPage(ctx context.Context, actor Actor, path string) (*models.SEOPage, error)
	BulkUpdate(ctx context.Context, actor Actor, paths []string, patch SEOPatch) (*BulkResult, error)
	BulkReset(ctx context.Context, actor Actor, paths []string) (*BulkResult, error)
	BulkDelete(ctx context.Context, actor Actor, paths []string) (*BulkResult, error)
	ChangeSlug(ctx context.Context, actor Actor, oldPath, newPath string, createRedirect bool) (*SlugChangeResult, error)
}

// RedirectServicer defines the contract for redirect management.
type RedirectServicer interface {
	ListRedirects(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Redirect], error)
	CreateRedirect(ctx context.Context, actor Actor, fromPath, toPath string, statusCode int) (*models.Redirect, error)
	DeleteRedirect(ctx context.Context, actor Actor, id string) error
}

// DashboardStats summarizes site content for the dashboard.
type DashboardStats struct {
	BlogPosts       int64             `json:"blog_posts"`
	PublishedPosts  int64             `json:"published_posts"`
	DraftPosts      int64             `json:"draft_posts"`
	ActiveStaff     int64             `json:"active_staff"`
	SEOPages        int64             `json:"seo_pages"`
	NoIndexPages    int64             `json:"no_index_pages"`
	Redirects       int64             `json:"redirects"`
	AdminUsers      int64             `json:"admin_users"`
	ChangesThisWeek int64             `json:"changes_this_week"`
	RecentActivity  []models.AuditLog `json:"recent_activity"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// DashboardServicer defines the contract for dashboard statistics.
type DashboardServicer interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	ClearCache(ctx context.Context) error
}

// ActivityFilter holds optional filters for the activity log.
type ActivityFilter struct {
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Path        string
	PerformedBy string
	Since       *time.Time
	Until       *time.Time
}

// ActivityServicer defines the contract for reading the audit log.
type ActivityServicer interface {
	ListActivity(ctx context.Context, filter ActivityFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
	GetActivity(ctx context.Context, id string) (*models.AuditLog, error)
}
