package services

import (
	"context"
	"errors"

	"siteadmin/internal/audit"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
)

// activityService reads the audit log.
type activityService struct {
	store audit.Store
}

// NewActivityService creates a new ActivityServicer over an audit store.
func NewActivityService(store audit.Store) ActivityServicer {
	return &activityService{store: store}
}

// ListActivity retrieves a paginated, filtered view of the audit log, newest
// first.
func (s *activityService) ListActivity(ctx context.Context, filter ActivityFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	page.Defaults()

	if filter.Action != "" && !filter.Action.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown action")
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "until must not be before since")
	}

	entries, total, err := s.store.Query(ctx, audit.Filter{
		EntityType:  filter.EntityType,
		EntityID:    filter.EntityID,
		Action:      filter.Action,
		Path:        NormalizePath(filter.Path),
		PerformedBy: filter.PerformedBy,
		Since:       filter.Since,
		Until:       filter.Until,
		Page:        page,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, total)
	return &result, nil
}

// GetActivity retrieves one audit entry.
func (s *activityService) GetActivity(ctx context.Context, id string) (*models.AuditLog, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			return nil, apperrors.ErrAuditEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}
