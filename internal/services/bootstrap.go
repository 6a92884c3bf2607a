package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"siteadmin/internal/audit"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/permission"
)

// SystemActor is recorded as the performer of changes made at startup.
var SystemActor = Actor{UserID: "system"}

// BootstrapAdminInput holds the credentials of the first admin account.
type BootstrapAdminInput struct {
	Email    string
	Password string
	Name     string
}

// EnsureBootstrapAdmin creates an active admin from input when the database
// has no active admin yet. It returns the created user, or nil when an
// active admin already exists.
func EnsureBootstrapAdmin(ctx context.Context, db *gorm.DB, recorder *audit.Recorder, input BootstrapAdminInput) (*models.AdminUser, error) {
	if normalizeEmail(input.Email) == "" || input.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bootstrap admin needs an email and a password")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("role = ? AND is_active = ?", permission.RoleAdmin, true).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, nil
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Administrator"
	}
	svc := &adminUserService{db: db, recorder: recorder, now: time.Now}
	return svc.CreateUser(ctx, SystemActor, CreateUserInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     name,
		Role:     permission.RoleAdmin,
	})
}
