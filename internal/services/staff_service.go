package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"siteadmin/internal/audit"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
)

var staffTrackedFields = []string{"name", "slug", "position", "bio", "photo", "email", "sort_order", "is_active"}

// staffService handles staff profile management.
type staffService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewStaffService creates a new StaffServicer.
func NewStaffService(db *gorm.DB, recorder *audit.Recorder) StaffServicer {
	return &staffService{db: db, recorder: recorder}
}

// ListStaff retrieves a paginated list of staff members in display order.
func (s *staffService) ListStaff(ctx context.Context, activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.StaffMember], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.StaffMember{})
	if activeOnly {
		base = base.Where("is_active = ?", true)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var members []models.StaffMember
	if err := base.Order("sort_order ASC, name ASC").Scopes(pagination.Paginate(page)).Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(members, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetStaff retrieves a staff member by ID.
func (s *staffService) GetStaff(ctx context.Context, id string) (*models.StaffMember, error) {
	return findStaff(s.db.WithContext(ctx), id)
}

// CreateStaff creates a staff member.
func (s *staffService) CreateStaff(ctx context.Context, actor Actor, input StaffInput) (*models.StaffMember, error) {
	if err := validateStaffInput(&input); err != nil {
		return nil, err
	}
	if err := ensureSlugFree(s.db.WithContext(ctx), &models.StaffMember{}, input.Slug, ""); err != nil {
		return nil, err
	}

	member := &models.StaffMember{}
	applyStaff(member, input)
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  staffEntry(models.AuditActionCreate, member, actor),
		New:    member,
		Fields: staffTrackedFields,
	})
	return member, nil
}

// UpdateStaff replaces the editable fields of a staff member.
func (s *staffService) UpdateStaff(ctx context.Context, actor Actor, id string, input StaffInput) (*models.StaffMember, error) {
	if err := validateStaffInput(&input); err != nil {
		return nil, err
	}

	member, err := findStaff(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	before := *member

	if input.Slug != before.Slug {
		if err := ensureSlugFree(s.db.WithContext(ctx), &models.StaffMember{}, input.Slug, id); err != nil {
			return nil, err
		}
	}

	applyStaff(member, input)
	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  staffEntry(models.AuditActionUpdate, member, actor),
		Old:    &before,
		New:    member,
		Fields: staffTrackedFields,
	})
	return member, nil
}

// DeleteStaff removes a staff member.
func (s *staffService) DeleteStaff(ctx context.Context, actor Actor, id string) error {
	member, err := findStaff(s.db.WithContext(ctx), id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  staffEntry(models.AuditActionDelete, member, actor),
		Old:    member,
		Fields: staffTrackedFields,
	})
	return nil
}

func applyStaff(m *models.StaffMember, input StaffInput) {
	m.Name = input.Name
	m.Slug = input.Slug
	m.Position = input.Position
	m.Bio = input.Bio
	m.Photo = input.Photo
	m.Email = input.Email
	m.SortOrder = input.SortOrder
	m.IsActive = input.IsActive
}

func validateStaffInput(input *StaffInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Slug == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name and slug are required")
	}
	return nil
}

func findStaff(db *gorm.DB, id string) (*models.StaffMember, error) {
	var member models.StaffMember
	if err := db.Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

func staffEntry(action models.AuditAction, m *models.StaffMember, actor Actor) audit.Entry {
	return audit.Entry{
		Action:     action,
		EntityType: models.EntityStaff,
		EntityID:   m.ID,
		Path:       StaffPath(m.Slug),
		Actor:      actor,
	}
}
