package models

import (
	"time"

	"gorm.io/datatypes"

	"siteadmin/internal/permission"
)

// AdminUser is an account that can sign in to the admin panel.
type AdminUser struct {
	Base
	Email       string                             `gorm:"uniqueIndex;not null" json:"email"`
	Password    string                             `gorm:"not null" json:"-"`
	Name        string                             `json:"name"`
	Role        permission.Role                    `gorm:"size:20;not null;index" json:"role"`
	Permissions datatypes.JSONType[permission.Map] `json:"permissions"`
	IsActive    bool                               `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time                         `json:"last_login_at,omitempty"`
}

// PermissionMap returns the stored permission map, never nil.
func (u *AdminUser) PermissionMap() permission.Map {
	m := u.Permissions.Data()
	if m == nil {
		return permission.Map{}
	}
	return m
}

// Subject returns the permission subject for this user.
func (u *AdminUser) Subject() permission.Subject {
	return permission.NewSubject(u.Role, u.PermissionMap())
}
