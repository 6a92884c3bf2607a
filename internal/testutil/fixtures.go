package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"siteadmin/internal/models"
	"siteadmin/internal/permission"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAdminUser creates an active user with the admin role.
func CreateTestAdminUser(t *testing.T, db *gorm.DB) *models.AdminUser {
	t.Helper()
	return CreateTestUserWithRole(t, db, permission.RoleAdmin, nil)
}

// CreateTestUserWithRole creates an active user with the given role and
// permission map and a unique email.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role permission.Role, perms permission.Map) *models.AdminUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if perms == nil {
		perms = permission.Map{}
	}
	n := nextID()
	user := &models.AdminUser{
		Email:       fmt.Sprintf("user%d@test.com", n),
		Password:    string(hash),
		Name:        fmt.Sprintf("Test User %d", n),
		Role:        role,
		Permissions: datatypes.NewJSONType(perms),
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBlogPost creates a draft blog post with a unique slug.
func CreateTestBlogPost(t *testing.T, db *gorm.DB) *models.BlogPost {
	t.Helper()

	n := nextID()
	post := &models.BlogPost{
		Title:   fmt.Sprintf("Test Post %d", n),
		Slug:    fmt.Sprintf("test-post-%d", n),
		Excerpt: "An excerpt",
		Content: "Body text",
		Author:  "Test Author",
		Tags:    datatypes.NewJSONType([]string{"news"}),
		Status:  models.BlogStatusDraft,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create test blog post: %v", err)
	}
	return post
}

// CreateTestStaffMember creates an active staff member with a unique slug.
func CreateTestStaffMember(t *testing.T, db *gorm.DB) *models.StaffMember {
	t.Helper()

	n := nextID()
	member := &models.StaffMember{
		Name:      fmt.Sprintf("Staff %d", n),
		Slug:      fmt.Sprintf("staff-%d", n),
		Position:  "Engineer",
		SortOrder: int(n),
		IsActive:  true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test staff member: %v", err)
	}
	return member
}

// CreateTestSEOPage creates SEO metadata for a unique path.
func CreateTestSEOPage(t *testing.T, db *gorm.DB) *models.SEOPage {
	t.Helper()
	return CreateTestSEOPageWithPath(t, db, fmt.Sprintf("/page-%d", nextID()))
}

// CreateTestSEOPageWithPath creates SEO metadata for path.
func CreateTestSEOPageWithPath(t *testing.T, db *gorm.DB, path string) *models.SEOPage {
	t.Helper()

	page := &models.SEOPage{
		Path:            path,
		MetaTitle:       "Title for " + path,
		MetaDescription: "Description for " + path,
		Keywords:        "test",
		OpenGraph:       models.OpenGraph{Title: "OG " + path},
	}
	if err := db.Create(page).Error; err != nil {
		t.Fatalf("failed to create test seo page: %v", err)
	}
	return page
}

// CreateTestRedirect creates a permanent redirect between two unique paths.
func CreateTestRedirect(t *testing.T, db *gorm.DB) *models.Redirect {
	t.Helper()

	n := nextID()
	r := &models.Redirect{
		FromPath:   fmt.Sprintf("/old-%d", n),
		ToPath:     fmt.Sprintf("/new-%d", n),
		StatusCode: 301,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create test redirect: %v", err)
	}
	return r
}

// CreateTestAuditLog writes an audit entry directly, bypassing the recorder.
func CreateTestAuditLog(t *testing.T, db *gorm.DB, action models.AuditAction, entityType, performedBy string, at time.Time) *models.AuditLog {
	t.Helper()

	entry := &models.AuditLog{
		Action:      action,
		EntityType:  entityType,
		PerformedBy: performedBy,
		CreatedAt:   at,
	}
	entry.SetMetadata(nil)
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test audit log: %v", err)
	}
	return entry
}
