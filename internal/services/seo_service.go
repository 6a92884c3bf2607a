package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"siteadmin/internal/audit"
	"siteadmin/internal/changes"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
)

var seoTrackedFields = []string{
	"meta_title",
	"meta_description",
	"keywords",
	"canonical_url",
	"no_index",
	"open_graph.title",
	"open_graph.description",
	"open_graph.image",
}

// seoService handles per-path SEO metadata.
type seoService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewSEOService creates a new SEOServicer.
func NewSEOService(db *gorm.DB, recorder *audit.Recorder) SEOServicer {
	return &seoService{db: db, recorder: recorder}
}

// ListPages retrieves a paginated list of pages ordered by path.
func (s *seoService) ListPages(ctx context.Context, search string, page pagination.PageRequest) (*pagination.PageResponse[models.SEOPage], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.SEOPage{})
	if q := strings.TrimSpace(search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(path) LIKE ? OR LOWER(meta_title) LIKE ?", like, like)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var pages []models.SEOPage
	if err := base.Order("path ASC").Scopes(pagination.Paginate(page)).Find(&pages).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(pages, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPage retrieves the metadata of a path.
func (s *seoService) GetPage(ctx context.Context, path string) (*models.SEOPage, error) {
	path = NormalizePath(path)
	if path == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "path is required")
	}
	return findSEOPage(s.db.WithContext(ctx), path)
}

// UpsertPage creates or replaces the metadata of a path. The bool reports
// whether the page was created.
func (s *seoService) UpsertPage(ctx context.Context, actor Actor, input SEOInput) (*models.SEOPage, bool, error) {
	input.Path = NormalizePath(input.Path)
	if input.Path == "" {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "path is required")
	}

	var before *models.SEOPage
	page, err := findSEOPage(s.db.WithContext(ctx), input.Path)
	switch {
	case err == nil:
		snapshot := *page
		before = &snapshot
	case errors.Is(err, apperrors.ErrSEOPageNotFound):
		page = &models.SEOPage{Path: input.Path}
	default:
		return nil, false, err
	}

	applySEO(page, input)
	if err := s.db.WithContext(ctx).Save(page).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	action := models.AuditActionUpdate
	if before == nil {
		action = models.AuditActionCreate
	}
	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  seoEntry(action, page, actor),
		Old:    before,
		New:    page,
		Fields: seoTrackedFields,
	})
	return page, before == nil, nil
}

// ResetPage restores the default metadata of a path, keeping the record.
func (s *seoService) ResetPage(ctx context.Context, actor Actor, path string) (*models.SEOPage, error) {
	path = NormalizePath(path)
	page, err := findSEOPage(s.db.WithContext(ctx), path)
	if err != nil {
		return nil, err
	}
	before := *page

	resetSEO(page)
	if err := s.db.WithContext(ctx).Save(page).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  seoEntry(models.AuditActionReset, page, actor),
		Old:    &before,
		New:    page,
		Fields: seoTrackedFields,
	})
	return page, nil
}

// BulkUpdate applies patch to every existing page among paths and records a
// single bulk entry. Paths without a page are skipped.
func (s *seoService) BulkUpdate(ctx context.Context, actor Actor, paths []string, patch SEOPatch) (*BulkResult, error) {
	fieldChanges := patch.fieldChanges()
	if len(fieldChanges) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one field must be set")
	}

	result, err := s.bulk(ctx, paths, func(tx *gorm.DB, pages []models.SEOPage) error {
		for i := range pages {
			patch.apply(&pages[i])
			if err := tx.Save(&pages[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || result.Affected == 0 {
		return result, err
	}

	s.recordBulk(ctx, actor, models.AuditActionBulkUpdate, result, fieldChanges)
	return result, nil
}

// BulkReset restores default metadata on every existing page among paths.
func (s *seoService) BulkReset(ctx context.Context, actor Actor, paths []string) (*BulkResult, error) {
	result, err := s.bulk(ctx, paths, func(tx *gorm.DB, pages []models.SEOPage) error {
		for i := range pages {
			resetSEO(&pages[i])
			if err := tx.Save(&pages[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || result.Affected == 0 {
		return result, err
	}

	s.recordBulk(ctx, actor, models.AuditActionBulkReset, result, nil)
	return result, nil
}

// BulkDelete removes every existing page among paths.
func (s *seoService) BulkDelete(ctx context.Context, actor Actor, paths []string) (*BulkResult, error) {
	result, err := s.bulk(ctx, paths, func(tx *gorm.DB, pages []models.SEOPage) error {
		ids := make([]string, 0, len(pages))
		for _, p := range pages {
			ids = append(ids, p.ID)
		}
		return tx.Where("id IN ?", ids).Delete(&models.SEOPage{}).Error
	})
	if err != nil || result.Affected == 0 {
		return result, err
	}

	s.recordBulk(ctx, actor, models.AuditActionBulkDelete, result, nil)
	return result, nil
}

// ChangeSlug moves the metadata of oldPath to newPath. With createRedirect,
// requests for oldPath are sent to newPath.
func (s *seoService) ChangeSlug(ctx context.Context, actor Actor, oldPath, newPath string, createRedirect bool) (*SlugChangeResult, error) {
	oldPath, newPath = NormalizePath(oldPath), NormalizePath(newPath)
	if oldPath == "" || newPath == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "old_path and new_path are required")
	}
	if oldPath == newPath {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "new_path must differ from old_path")
	}

	var page *models.SEOPage
	var move *redirectMove
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		page, err = findSEOPage(tx, oldPath)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.SEOPage{}).Where("path = ?", newPath).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicatePath
		}

		page.Path = newPath
		if err := tx.Save(page).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if createRedirect {
			move, err = moveRedirect(tx, oldPath, newPath)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordSlugChange(ctx, s.recorder, actor, models.EntitySEOPage, page.ID,
		oldPath, newPath, oldPath, newPath, move)

	result := &SlugChangeResult{Page: page}
	if move != nil {
		result.Redirect = move.Redirect
	}
	return result, nil
}

// bulk loads the pages at paths and runs fn over them in one transaction.
func (s *seoService) bulk(ctx context.Context, paths []string, fn func(tx *gorm.DB, pages []models.SEOPage) error) (*BulkResult, error) {
	paths = normalizePaths(paths)
	if len(paths) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one path is required")
	}

	result := &BulkResult{AffectedPaths: []string{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pages []models.SEOPage
		if err := tx.Where("path IN ?", paths).Order("path ASC").Find(&pages).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(pages) == 0 {
			return nil
		}
		if err := fn(tx, pages); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, p := range pages {
			result.AffectedPaths = append(result.AffectedPaths, p.Path)
		}
		result.Affected = len(pages)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *seoService) recordBulk(ctx context.Context, actor Actor, action models.AuditAction, result *BulkResult, fieldChanges []changes.FieldChange) {
	_ = s.recorder.Record(ctx, audit.Entry{
		Action:     action,
		EntityType: models.EntitySEOPage,
		Changes:    fieldChanges,
		Metadata: &models.AuditMetadata{
			IsBulkOperation: true,
			AffectedPaths:   result.AffectedPaths,
			AffectedCount:   result.Affected,
		},
		Actor: actor,
	})
}

func applySEO(p *models.SEOPage, input SEOInput) {
	p.MetaTitle = strings.TrimSpace(input.MetaTitle)
	p.MetaDescription = strings.TrimSpace(input.MetaDescription)
	p.Keywords = strings.TrimSpace(input.Keywords)
	p.CanonicalURL = strings.TrimSpace(input.CanonicalURL)
	p.NoIndex = input.NoIndex
	p.OpenGraph = input.OpenGraph
}

// resetSEO clears every metadata field so the site falls back to its
// generated defaults.
func resetSEO(p *models.SEOPage) {
	applySEO(p, SEOInput{Path: p.Path})
}

func (p SEOPatch) apply(page *models.SEOPage) {
	if p.MetaTitle != nil {
		page.MetaTitle = *p.MetaTitle
	}
	if p.MetaDescription != nil {
		page.MetaDescription = *p.MetaDescription
	}
	if p.Keywords != nil {
		page.Keywords = *p.Keywords
	}
	if p.NoIndex != nil {
		page.NoIndex = *p.NoIndex
	}
	if p.OpenGraphTitle != nil {
		page.OpenGraph.Title = *p.OpenGraphTitle
	}
	if p.OpenGraphDescription != nil {
		page.OpenGraph.Description = *p.OpenGraphDescription
	}
	if p.OpenGraphImage != nil {
		page.OpenGraph.Image = *p.OpenGraphImage
	}
}

// fieldChanges lists the patched fields with their new values. Old values differ
// per page and are not recorded on bulk entries.
func (p SEOPatch) fieldChanges() []changes.FieldChange {
	var out []changes.FieldChange
	add := func(field string, v any) {
		out = append(out, changes.FieldChange{Field: field, NewValue: v})
	}
	if p.MetaTitle != nil {
		add("meta_title", *p.MetaTitle)
	}
	if p.MetaDescription != nil {
		add("meta_description", *p.MetaDescription)
	}
	if p.Keywords != nil {
		add("keywords", *p.Keywords)
	}
	if p.NoIndex != nil {
		add("no_index", *p.NoIndex)
	}
	if p.OpenGraphTitle != nil {
		add("open_graph.title", *p.OpenGraphTitle)
	}
	if p.OpenGraphDescription != nil {
		add("open_graph.description", *p.OpenGraphDescription)
	}
	if p.OpenGraphImage != nil {
		add("open_graph.image", *p.OpenGraphImage)
	}
	return out
}

func findSEOPage(db *gorm.DB, path string) (*models.SEOPage, error) {
	var page models.SEOPage
	if err := db.Where("path = ?", path).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSEOPageNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &page, nil
}

func seoEntry(action models.AuditAction, p *models.SEOPage, actor Actor) audit.Entry {
	return audit.Entry{
		Action:     action,
		EntityType: models.EntitySEOPage,
		EntityID:   p.ID,
		Path:       p.Path,
		Actor:      actor,
	}
}
