package audit

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
)

// GormStore keeps audit entries in the relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert writes a new entry.
func (s *GormStore) Insert(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// Query returns one page of entries matching filter, newest first, and the
// total number of matches.
func (s *GormStore) Query(ctx context.Context, filter Filter) ([]models.AuditLog, int64, error) {
	filter.Page.Defaults()

	query := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Path != "" {
		query = query.Where("path = ?", filter.Path)
	}
	if filter.PerformedBy != "" {
		query = query.Where("performed_by = ?", filter.PerformedBy)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("created_at <= ?", *filter.Until)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLog
	if err := query.Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(filter.Page)).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Get returns the entry with the given id.
func (s *GormStore) Get(ctx context.Context, id string) (*models.AuditLog, error) {
	var entry models.AuditLog
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
