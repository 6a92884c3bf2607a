package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"siteadmin/internal/audit"
	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
	"siteadmin/internal/permission"
)

// userTrackedFields are the admin user fields recorded in the audit log. The
// password hash is never recorded.
var userTrackedFields = []string{"email", "name", "role", "permissions", "is_active"}

// adminUserService handles admin user management and login.
type adminUserService struct {
	db       *gorm.DB
	recorder *audit.Recorder
	now      func() time.Time
}

// NewAdminUserService creates a new AdminUserServicer.
func NewAdminUserService(db *gorm.DB, recorder *audit.Recorder) AdminUserServicer {
	return &adminUserService{db: db, recorder: recorder, now: time.Now}
}

// AttemptLogin verifies credentials and stamps the last login time. Unknown
// emails, inactive users and wrong passwords all return ErrInvalidCredentials.
func (s *adminUserService) AttemptLogin(ctx context.Context, email, password string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", normalizeEmail(email), true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).UpdateColumn("last_login_at", now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.LastLoginAt = &now
	return &user, nil
}

// GetUserByID retrieves an admin user by ID.
func (s *adminUserService) GetUserByID(ctx context.Context, id string) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// ListUsers retrieves a paginated list of admin users, optionally by role.
func (s *adminUserService) ListUsers(ctx context.Context, role *permission.Role, page pagination.PageRequest) (*pagination.PageResponse[models.AdminUser], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.AdminUser{})
	if role != nil {
		base = base.Where("role = ?", *role)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.AdminUser
	if err := base.Order("email ASC").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CreateUser creates an admin user with a hashed password.
func (s *adminUserService) CreateUser(ctx context.Context, actor Actor, input CreateUserInput) (*models.AdminUser, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if _, ok := permission.ParseRole(string(input.Role)); !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid role")
	}

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.AdminUser{
		Email:       email,
		Password:    string(hashedPassword),
		Name:        strings.TrimSpace(input.Name),
		Role:        input.Role,
		Permissions: datatypes.NewJSONType(storedPermissions(input.Role, input.Permissions)),
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  userEntry(models.AuditActionCreate, user, actor),
		New:    user,
		Fields: userTrackedFields,
	})
	return user, nil
}

// UpdateUser applies the non-nil fields of input. Demoting or deactivating
// the last active admin is rejected.
func (s *adminUserService) UpdateUser(ctx context.Context, actor Actor, id string, input UpdateUserInput) (*models.AdminUser, error) {
	var before, user models.AdminUser

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		before = user

		if input.Email != nil {
			email := normalizeEmail(*input.Email)
			if email == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "email cannot be empty")
			}
			if email != user.Email {
				if err := s.ensureEmailFreeTx(tx, email, user.ID); err != nil {
					return err
				}
				user.Email = email
			}
		}
		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Password != nil {
			if *input.Password == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "password cannot be empty")
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			user.Password = string(hashed)
		}
		if input.Role != nil {
			if _, ok := permission.ParseRole(string(*input.Role)); !ok {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid role")
			}
			user.Role = *input.Role
		}
		if input.Role != nil || input.Permissions != nil {
			perms := input.Permissions
			if perms == nil {
				perms = user.PermissionMap()
			}
			user.Permissions = datatypes.NewJSONType(storedPermissions(user.Role, perms))
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}

		if isActiveAdmin(&before) && !isActiveAdmin(&user) {
			if err := ensureAnotherAdmin(tx, user.ID); err != nil {
				return err
			}
		}

		if err := tx.Save(&user).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  userEntry(models.AuditActionUpdate, &user, actor),
		Old:    &before,
		New:    &user,
		Fields: userTrackedFields,
	})
	return &user, nil
}

// DeleteUser removes an admin user. Users cannot delete themselves, and the
// last active admin cannot be deleted.
func (s *adminUserService) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if actor.UserID == id {
		return apperrors.ErrSelfDelete
	}

	var user models.AdminUser
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if isActiveAdmin(&user) {
			if err := ensureAnotherAdmin(tx, user.ID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&user).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.recorder.RecordChange(ctx, audit.ChangeEntry{
		Entry:  userEntry(models.AuditActionDelete, &user, actor),
		Old:    &user,
		Fields: userTrackedFields,
	})
	return nil
}

func (s *adminUserService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	return s.ensureEmailFreeTx(s.db.WithContext(ctx), email, exceptID)
}

func (s *adminUserService) ensureEmailFreeTx(tx *gorm.DB, email, exceptID string) error {
	var count int64
	q := tx.Model(&models.AdminUser{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateEmail
	}
	return nil
}

func isActiveAdmin(u *models.AdminUser) bool {
	return u.IsActive && u.Role == permission.RoleAdmin
}

// ensureAnotherAdmin returns ErrLastAdmin unless an active admin other than
// exceptID exists.
func ensureAnotherAdmin(tx *gorm.DB, exceptID string) error {
	var count int64
	if err := tx.Model(&models.AdminUser{}).
		Where("role = ? AND is_active = ? AND id <> ?", permission.RoleAdmin, true, exceptID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrLastAdmin
	}
	return nil
}

// storedPermissions returns the map persisted for role. Only custom users
// keep a map; admin and seo resolve their access from the role.
func storedPermissions(role permission.Role, perms permission.Map) permission.Map {
	if role != permission.RoleCustom {
		return permission.Map{}
	}
	return perms.Normalize()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userEntry(action models.AuditAction, u *models.AdminUser, actor Actor) audit.Entry {
	return audit.Entry{
		Action:     action,
		EntityType: models.EntityAdminUser,
		EntityID:   u.ID,
		Actor:      actor,
	}
}
