package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
)

// RequireAppError stops the test unless err carries an *AppError and
// returns it for further checks.
func RequireAppError(t *testing.T, err error) *apperrors.AppError {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatal("want an application error, got success")
	case !errors.As(err, &appErr):
		t.Fatalf("want an application error, got %T (%v)", err, err)
	}
	return appErr
}

// AssertAppError fails unless err is an application error with code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()

	if got := RequireAppError(t, err); got.Code != code {
		t.Errorf("error code = %s (%q), want %s", got.Code, got.Message, code)
	}
}

// AssertAppErrorIs fails unless err matches sentinel by code and would be
// served with the sentinel's HTTP status.
func AssertAppErrorIs(t *testing.T, err error, sentinel *apperrors.AppError) {
	t.Helper()

	got := RequireAppError(t, err)
	if got.Code != sentinel.Code || got.StatusCode != sentinel.StatusCode {
		t.Errorf("error = %s/%d (%q), want %s/%d", got.Code, got.StatusCode, got.Message, sentinel.Code, sentinel.StatusCode)
	}
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAuditCount checks how many audit entries of action exist for an
// entity type. An empty entityType counts every entity.
func AssertAuditCount(t *testing.T, db *gorm.DB, action models.AuditAction, entityType string, want int64) {
	t.Helper()

	q := db.Model(&models.AuditLog{}).Where("action = ?", action)
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	var got int64
	if err := q.Count(&got).Error; err != nil {
		t.Fatalf("counting %s audit entries: %v", action, err)
	}
	if got != want {
		t.Errorf("%s audit entries for %q = %d, want %d", action, entityType, got, want)
	}
}
