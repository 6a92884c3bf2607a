package audit

import (
	"context"
	"errors"
	"time"

	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
)

// ErrNotFound is returned by Store.Get when no entry has the given id.
var ErrNotFound = errors.New("audit entry not found")

// Filter narrows an audit log query. Zero-valued fields are ignored.
type Filter struct {
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Path        string
	PerformedBy string
	Since       *time.Time
	Until       *time.Time
	Page        pagination.PageRequest
}

// Store persists and queries audit entries. Entries are append-only.
type Store interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	Query(ctx context.Context, filter Filter) ([]models.AuditLog, int64, error)
	Get(ctx context.Context, id string) (*models.AuditLog, error)
}
