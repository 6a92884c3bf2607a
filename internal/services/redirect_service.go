package services

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"siteadmin/internal/audit"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
)

var redirectTrackedFields = []string{"from_path", "to_path", "status_code"}

// redirectService handles redirect management.
type redirectService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewRedirectService creates a new RedirectServicer.
func NewRedirectService(db *gorm.DB, recorder *audit.Recorder) RedirectServicer {
	return &redirectService{db: db, recorder: recorder}
}

// ListRedirects retrieves a paginated list of redirects ordered by source path.
func (s *redirectService) ListRedirects(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Redirect], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Redirect{})
	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var redirects []models.Redirect
	if err := base.Order("from_path ASC").Scopes(pagination.Paginate(page)).Find(&redirects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(redirects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CreateRedirect adds a redirect. Self-redirects and redirects that would
// bounce straight back are rejected.
func (s *redirectService) CreateRedirect(ctx context.Context, actor Actor, fromPath, toPath string, statusCode int) (*models.Redirect, error) {
	fromPath, toPath = NormalizePath(fromPath), NormalizePath(toPath)
	if fromPath == "" || toPath == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_path and to_path are required")
	}
	if fromPath == toPath {
		return nil, apperrors.ErrRedirectLoop
	}
	if statusCode == 0 {
		statusCode = http.StatusMovedPermanently
	}
	if statusCode != http.StatusMovedPermanently && statusCode != http.StatusFound {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status_code must be 301 or 302")
	}

	redirect := &models.Redirect{FromPath: fromPath, ToPath: toPath, StatusCode: statusCode}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Redirect{}).Where("from_path = ?", fromPath).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.WithMessage(apperrors.ErrDuplicatePath, "A redirect from this path already exists")
		}

		if err := tx.Model(&models.Redirect{}).
			Where("from_path = ? AND to_path = ?", toPath, fromPath).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.WithMessage(apperrors.ErrRedirectLoop, "The target path already redirects back to the source")
		}

		if err := tx.Create(redirect).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  redirectEntry(models.AuditActionRedirectCreate, redirect, actor),
		New:    redirect,
		Fields: redirectTrackedFields,
	})
	return redirect, nil
}

// DeleteRedirect removes a redirect.
func (s *redirectService) DeleteRedirect(ctx context.Context, actor Actor, id string) error {
	var redirect models.Redirect
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&redirect).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRedirectNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.WithContext(ctx).Delete(&redirect).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  redirectEntry(models.AuditActionDelete, &redirect, actor),
		Old:    &redirect,
		Fields: redirectTrackedFields,
	})
	return nil
}

// redirectMove lists the redirect rows a slug change touched.
type redirectMove struct {
	Redirect *models.Redirect
	// Previous is the redirect from the old path before it was updated; nil
	// when Redirect was created.
	Previous   *models.Redirect
	Retargeted []redirectUpdate
	Removed    []models.Redirect
}

type redirectUpdate struct {
	Before models.Redirect
	After  models.Redirect
}

// moveRedirect points oldPath at newPath after a slug change. Redirects that
// targeted oldPath are retargeted so no chains form, and any redirect away
// from newPath is dropped because newPath is live again.
func moveRedirect(tx *gorm.DB, oldPath, newPath string) (*redirectMove, error) {
	move := &redirectMove{}

	if err := tx.Where("from_path = ?", newPath).Find(&move.Removed).Error; err != nil {
		return nil, err
	}
	if len(move.Removed) > 0 {
		if err := tx.Where("from_path = ?", newPath).Delete(&models.Redirect{}).Error; err != nil {
			return nil, err
		}
	}

	var chained []models.Redirect
	if err := tx.Where("to_path = ?", oldPath).Order("from_path ASC").Find(&chained).Error; err != nil {
		return nil, err
	}
	for _, r := range chained {
		before := r
		r.ToPath = newPath
		if err := tx.Save(&r).Error; err != nil {
			return nil, err
		}
		move.Retargeted = append(move.Retargeted, redirectUpdate{Before: before, After: r})
	}

	var redirect models.Redirect
	err := tx.Where("from_path = ?", oldPath).First(&redirect).Error
	switch {
	case err == nil:
		previous := redirect
		move.Previous = &previous
		redirect.ToPath = newPath
		redirect.StatusCode = http.StatusMovedPermanently
		if err := tx.Save(&redirect).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		redirect = models.Redirect{FromPath: oldPath, ToPath: newPath, StatusCode: http.StatusMovedPermanently}
		if err := tx.Create(&redirect).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	move.Redirect = &redirect
	return move, nil
}

// Created reports whether the move inserted a new redirect.
func (m *redirectMove) Created() bool {
	return m != nil && m.Redirect != nil && m.Previous == nil
}

// fromPaths returns the source paths of the retargeted and removed rows.
func (m *redirectMove) fromPaths() (retargeted, removed []string) {
	if m == nil {
		return nil, nil
	}
	for _, u := range m.Retargeted {
		retargeted = append(retargeted, u.After.FromPath)
	}
	for _, r := range m.Removed {
		removed = append(removed, r.FromPath)
	}
	return retargeted, removed
}

// recordRedirectMove writes one entry per redirect row the move touched.
func recordRedirectMove(ctx context.Context, recorder *audit.Recorder, actor Actor, move *redirectMove) {
	if move == nil {
		return
	}
	for i := range move.Removed {
		r := move.Removed[i]
		_ = recorder.RecordChange(ctx, audit.ChangeEntry{
			Entry:  redirectEntry(models.AuditActionDelete, &r, actor),
			Old:    &r,
			Fields: redirectTrackedFields,
		})
	}
	for i := range move.Retargeted {
		u := move.Retargeted[i]
		_ = recorder.RecordChange(ctx, audit.ChangeEntry{
			Entry:  redirectEntry(models.AuditActionUpdate, &u.After, actor),
			Old:    &u.Before,
			New:    &u.After,
			Fields: redirectTrackedFields,
		})
	}
	if move.Created() {
		_ = recorder.RecordChange(ctx, audit.ChangeEntry{
			Entry:  redirectEntry(models.AuditActionRedirectCreate, move.Redirect, actor),
			New:    move.Redirect,
			Fields: redirectTrackedFields,
		})
		return
	}
	_ = recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  redirectEntry(models.AuditActionUpdate, move.Redirect, actor),
		Old:    move.Previous,
		New:    move.Redirect,
		Fields: redirectTrackedFields,
	})
}

func redirectEntry(action models.AuditAction, r *models.Redirect, actor Actor) audit.Entry {
	return audit.Entry{
		Action:     action,
		EntityType: models.EntityRedirect,
		EntityID:   r.ID,
		Path:       r.FromPath,
		Actor:      actor,
	}
}
