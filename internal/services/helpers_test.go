package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"siteadmin/internal/audit"
	"siteadmin/internal/models"
)

var testActor = Actor{UserID: "actor-1", IPAddress: "127.0.0.1"}

func newTestRecorder(db *gorm.DB) *audit.Recorder {
	return audit.NewRecorder(audit.NewGormStore(db), nil)
}

// brokenAuditStore fails every write, as an unreachable audit database would.
type brokenAuditStore struct{}

func (brokenAuditStore) Insert(ctx context.Context, entry *models.AuditLog) error {
	return errors.New("audit store unavailable")
}

func (brokenAuditStore) Query(ctx context.Context, filter audit.Filter) ([]models.AuditLog, int64, error) {
	return nil, 0, errors.New("audit store unavailable")
}

func (brokenAuditStore) Get(ctx context.Context, id string) (*models.AuditLog, error) {
	return nil, errors.New("audit store unavailable")
}

// auditEntries returns the stored audit entries in write order, optionally
// restricted to one action.
func auditEntries(t *testing.T, db *gorm.DB, action models.AuditAction) []models.AuditLog {
	t.Helper()
	var entries []models.AuditLog
	q := db.Order("created_at ASC, id ASC")
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if err := q.Find(&entries).Error; err != nil {
		t.Fatalf("failed to load audit entries: %v", err)
	}
	return entries
}

func changeFields(entry models.AuditLog) []string {
	var fields []string
	for _, c := range entry.ChangeList() {
		fields = append(fields, c.Field)
	}
	return fields
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
