package handlers

import (
	"context"

	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
	"siteadmin/internal/permission"
	"siteadmin/internal/services"
)

// --- mock admin user service ---

type mockUserService struct {
	attemptLoginFn func(email, password string) (*models.AdminUser, error)
	getUserByIDFn  func(id string) (*models.AdminUser, error)
	listUsersFn    func(role *permission.Role, page pagination.PageRequest) (*pagination.PageResponse[models.AdminUser], error)
	createUserFn   func(actor services.Actor, input services.CreateUserInput) (*models.AdminUser, error)
	updateUserFn   func(actor services.Actor, id string, input services.UpdateUserInput) (*models.AdminUser, error)
	deleteUserFn   func(actor services.Actor, id string) error
}

func (m *mockUserService) AttemptLogin(_ context.Context, email, password string) (*models.AdminUser, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.AdminUser{}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.AdminUser, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.AdminUser{}, nil
}

func (m *mockUserService) ListUsers(_ context.Context, role *permission.Role, page pagination.PageRequest) (*pagination.PageResponse[models.AdminUser], error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(role, page)
	}
	resp := pagination.NewPageResponse([]models.AdminUser{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockUserService) CreateUser(_ context.Context, actor services.Actor, input services.CreateUserInput) (*models.AdminUser, error) {
	if m.createUserFn != nil {
		return m.createUserFn(actor, input)
	}
	return &models.AdminUser{}, nil
}

func (m *mockUserService) UpdateUser(_ context.Context, actor services.Actor, id string, input services.UpdateUserInput) (*models.AdminUser, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(actor, id, input)
	}
	return &models.AdminUser{}, nil
}

func (m *mockUserService) DeleteUser(_ context.Context, actor services.Actor, id string) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(actor, id)
	}
	return nil
}

// --- mock blog service ---

type mockBlogService struct {
	listPostsFn       func(filter services.BlogFilter, page pagination.PageRequest) (*pagination.PageResponse[models.BlogPost], error)
	getPostFn         func(id string) (*models.BlogPost, error)
	createPostFn      func(actor services.Actor, input services.BlogInput) (*models.BlogPost, error)
	updatePostFn      func(actor services.Actor, id string, input services.BlogInput, createRedirect bool) (*models.BlogPost, error)
	deletePostFn      func(actor services.Actor, id string) error
	bulkDeletePostsFn func(actor services.Actor, ids []string) (int, error)
}

func (m *mockBlogService) ListPosts(_ context.Context, filter services.BlogFilter, page pagination.PageRequest) (*pagination.PageResponse[models.BlogPost], error) {
	if m.listPostsFn != nil {
		return m.listPostsFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.BlogPost{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBlogService) GetPost(_ context.Context, id string) (*models.BlogPost, error) {
	if m.getPostFn != nil {
		return m.getPostFn(id)
	}
	return &models.BlogPost{}, nil
}

func (m *mockBlogService) CreatePost(_ context.Context, actor services.Actor, input services.BlogInput) (*models.BlogPost, error) {
	if m.createPostFn != nil {
		return m.createPostFn(actor, input)
	}
	return &models.BlogPost{}, nil
}

func (m *mockBlogService) UpdatePost(_ context.Context, actor services.Actor, id string, input services.BlogInput, createRedirect bool) (*models.BlogPost, error) {
	if m.updatePostFn != nil {
		return m.updatePostFn(actor, id, input, createRedirect)
	}
	return &models.BlogPost{}, nil
}

func (m *mockBlogService) DeletePost(_ context.Context, actor services.Actor, id string) error {
	if m.deletePostFn != nil {
		return m.deletePostFn(actor, id)
	}
	return nil
}

func (m *mockBlogService) BulkDeletePosts(_ context.Context, actor services.Actor, ids []string) (int, error) {
	if m.bulkDeletePostsFn != nil {
		return m.bulkDeletePostsFn(actor, ids)
	}
	return len(ids), nil
}

// --- mock staff service ---

type mockStaffService struct {
	listStaffFn   func(activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.StaffMember], error)
	getStaffFn    func(id string) (*models.StaffMember, error)
	createStaffFn func(actor services.Actor, input services.StaffInput) (*models.StaffMember, error)
	updateStaffFn func(actor services.Actor, id string, input services.StaffInput) (*models.StaffMember, error)
	deleteStaffFn func(actor services.Actor, id string) error
}

func (m *mockStaffService) ListStaff(_ context.Context, activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.StaffMember], error) {
	if m.listStaffFn != nil {
		return m.listStaffFn(activeOnly, page)
	}
	resp := pagination.NewPageResponse([]models.StaffMember{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockStaffService) GetStaff(_ context.Context, id string) (*models.StaffMember, error) {
	if m.getStaffFn != nil {
		return m.getStaffFn(id)
	}
	return &models.StaffMember{}, nil
}

func (m *mockStaffService) CreateStaff(_ context.Context, actor services.Actor, input services.StaffInput) (*models.StaffMember, error) {
	if m.createStaffFn != nil {
		return m.createStaffFn(actor, input)
	}
	return &models.StaffMember{}, nil
}

func (m *mockStaffService) UpdateStaff(_ context.Context, actor services.Actor, id string, input services.StaffInput) (*models.StaffMember, error) {
	if m.updateStaffFn != nil {
		return m.updateStaffFn(actor, id, input)
	}
	return &models.StaffMember{}, nil
}

func (m *mockStaffService) DeleteStaff(_ context.Context, actor services.Actor, id string) error {
	if m.deleteStaffFn != nil {
		return m.deleteStaffFn(actor, id)
	}
	return nil
}

// --- mock SEO service ---

type mockSEOService struct {
	listPagesFn  func(search string, page pagination.PageRequest) (*pagination.PageResponse[models.SEOPage], error)
	getPageFn    func(path string) (*models.SEOPage, error)
	upsertPageFn func(actor services.Actor, input services.SEOInput) (*models.SEOPage, bool, error)
	resetPageFn  func(actor services.Actor, path string) (*models.SEOPage, error)
	bulkUpdateFn func(actor services.Actor, paths []string, patch services.SEOPatch) (*services.BulkResult, error)
	bulkResetFn  func(actor services.Actor, paths []string) (*services.BulkResult, error)
	bulkDeleteFn func(actor services.Actor, paths []string) (*services.BulkResult, error)
	changeSlugFn func(actor services.Actor, oldPath, newPath string, createRedirect bool) (*services.SlugChangeResult, error)
}

func (m *mockSEOService) ListPages(_ context.Context, search string, page pagination.PageRequest) (*pagination.PageResponse[models.SEOPage], error) {
	if m.listPagesFn != nil {
		return m.listPagesFn(search, page)
	}
	resp := pagination.NewPageResponse([]models.SEOPage{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockSEOService) GetPage(_ context.Context, path string) (*models.SEOPage, error) {
	if m.getPageFn != nil {
		return m.getPageFn(path)
	}
	return &models.SEOPage{Path: path}, nil
}

func (m *mockSEOService) UpsertPage(_ context.Context, actor services.Actor, input services.SEOInput) (*models.SEOPage, bool, error) {
	if m.upsertPageFn != nil {
		return m.upsertPageFn(actor, input)
	}
	return &models.SEOPage{Path: input.Path}, true, nil
}

func (m *mockSEOService) ResetPage(_ context.Context, actor services.Actor, path string) (*models.SEOPage, error) {
	if m.resetPageFn != nil {
		return m.resetPageFn(actor, path)
	}
	return &models.SEOPage{Path: path}, nil
}

func (m *mockSEOService) BulkUpdate(_ context.Context, actor services.Actor, paths []string, patch services.SEOPatch) (*services.BulkResult, error) {
	if m.bulkUpdateFn != nil {
		return m.bulkUpdateFn(actor, paths, patch)
	}
	return &services.BulkResult{AffectedPaths: paths, Affected: len(paths)}, nil
}

func (m *mockSEOService) BulkReset(_ context.Context, actor services.Actor, paths []string) (*services.BulkResult, error) {
	if m.bulkResetFn != nil {
		return m.bulkResetFn(actor, paths)
	}
	return &services.BulkResult{AffectedPaths: paths, Affected: len(paths)}, nil
}

func (m *mockSEOService) BulkDelete(_ context.Context, actor services.Actor, paths []string) (*services.BulkResult, error) {
	if m.bulkDeleteFn != nil {
		return m.bulkDeleteFn(actor, paths)
	}
	return &services.BulkResult{AffectedPaths: paths, Affected: len(paths)}, nil
}

func (m *mockSEOService) ChangeSlug(_ context.Context, actor services.Actor, oldPath, newPath string, createRedirect bool) (*services.SlugChangeResult, error) {
	if m.changeSlugFn != nil {
		return m.changeSlugFn(actor, oldPath, newPath, createRedirect)
	}
	return &services.SlugChangeResult{Page: &models.SEOPage{Path: newPath}}, nil
}

// --- mock redirect service ---

type mockRedirectService struct {
	listRedirectsFn  func(page pagination.PageRequest) (*pagination.PageResponse[models.Redirect], error)
	createRedirectFn func(actor services.Actor, fromPath, toPath string, statusCode int) (*models.Redirect, error)
	deleteRedirectFn func(actor services.Actor, id string) error
}

func (m *mockRedirectService) ListRedirects(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Redirect], error) {
	if m.listRedirectsFn != nil {
		return m.listRedirectsFn(page)
	}
	resp := pagination.NewPageResponse([]models.Redirect{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockRedirectService) CreateRedirect(_ context.Context, actor services.Actor, fromPath, toPath string, statusCode int) (*models.Redirect, error) {
	if m.createRedirectFn != nil {
		return m.createRedirectFn(actor, fromPath, toPath, statusCode)
	}
	return &models.Redirect{FromPath: fromPath, ToPath: toPath, StatusCode: statusCode}, nil
}

func (m *mockRedirectService) DeleteRedirect(_ context.Context, actor services.Actor, id string) error {
	if m.deleteRedirectFn != nil {
		return m.deleteRedirectFn(actor, id)
	}
	return nil
}

// --- mock dashboard service ---

type mockDashboardService struct {
	getStatsFn   func() (*services.DashboardStats, error)
	clearCacheFn func() error
}

func (m *mockDashboardService) GetStats(_ context.Context) (*services.DashboardStats, error) {
	if m.getStatsFn != nil {
		return m.getStatsFn()
	}
	return &services.DashboardStats{RecentActivity: []models.AuditLog{}}, nil
}

func (m *mockDashboardService) ClearCache(_ context.Context) error {
	if m.clearCacheFn != nil {
		return m.clearCacheFn()
	}
	return nil
}

// --- mock activity service ---

type mockActivityService struct {
	listActivityFn func(filter services.ActivityFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
	getActivityFn  func(id string) (*models.AuditLog, error)
}

func (m *mockActivityService) ListActivity(_ context.Context, filter services.ActivityFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if m.listActivityFn != nil {
		return m.listActivityFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.AuditLog{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockActivityService) GetActivity(_ context.Context, id string) (*models.AuditLog, error) {
	if m.getActivityFn != nil {
		return m.getActivityFn(id)
	}
	return &models.AuditLog{ID: id}, nil
}

// verify interface compliance
var (
	_ services.AdminUserServicer = (*mockUserService)(nil)
	_ services.BlogServicer      = (*mockBlogService)(nil)
	_ services.StaffServicer     = (*mockStaffService)(nil)
	_ services.SEOServicer       = (*mockSEOService)(nil)
	_ services.RedirectServicer  = (*mockRedirectService)(nil)
	_ services.DashboardServicer = (*mockDashboardService)(nil)
	_ services.ActivityServicer  = (*mockActivityService)(nil)
)
