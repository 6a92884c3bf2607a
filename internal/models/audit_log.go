package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"siteadmin/internal/changes"
	"siteadmin/internal/uuid"
)

// ErrAuditLogImmutable is returned by the model hooks when something tries
// to modify or remove a stored audit entry.
var ErrAuditLogImmutable = errors.New("audit log entries are immutable")

// AuditAction is the kind of mutation an audit entry records.
type AuditAction string

// Audit actions.
const (
	AuditActionCreate         AuditAction = "create"
	AuditActionUpdate         AuditAction = "update"
	AuditActionDelete         AuditAction = "delete"
	AuditActionReset          AuditAction = "reset"
	AuditActionBulkUpdate     AuditAction = "bulk_update"
	AuditActionBulkDelete     AuditAction = "bulk_delete"
	AuditActionBulkReset      AuditAction = "bulk_reset"
	AuditActionSlugChange     AuditAction = "slug_change"
	AuditActionRedirectCreate AuditAction = "redirect_create"
)

// AuditActions lists every action.
var AuditActions = []AuditAction{
	AuditActionCreate,
	AuditActionUpdate,
	AuditActionDelete,
	AuditActionReset,
	AuditActionBulkUpdate,
	AuditActionBulkDelete,
	AuditActionBulkReset,
	AuditActionSlugChange,
	AuditActionRedirectCreate,
}

// IsValid reports whether a is a known action.
func (a AuditAction) IsValid() bool {
	for _, known := range AuditActions {
		if a == known {
			return true
		}
	}
	return false
}

// Entity types recorded in the audit log.
const (
	EntitySEOPage   = "seo_page"
	EntityBlogPost  = "blog_post"
	EntityStaff     = "staff_member"
	EntityRedirect  = "redirect"
	EntityAdminUser = "admin_user"
)

// AuditMetadata carries optional context about a mutation.
type AuditMetadata struct {
	IsBulkOperation bool     `json:"is_bulk_operation,omitempty" bson:"is_bulk_operation,omitempty"`
	AffectedPaths   []string `json:"affected_paths,omitempty" bson:"affected_paths,omitempty"`
	AffectedCount   int      `json:"affected_count,omitempty" bson:"affected_count,omitempty"`
	RedirectCreated bool     `json:"redirect_created,omitempty" bson:"redirect_created,omitempty"`
	OldSlug         string   `json:"old_slug,omitempty" bson:"old_slug,omitempty"`
	NewSlug         string   `json:"new_slug,omitempty" bson:"new_slug,omitempty"`

	// RetargetedRedirects and RemovedRedirects list the from_path of other
	// redirects a slug change rewrote or dropped.
	RetargetedRedirects []string `json:"retargeted_redirects,omitempty" bson:"retargeted_redirects,omitempty"`
	RemovedRedirects    []string `json:"removed_redirects,omitempty" bson:"removed_redirects,omitempty"`
}

// AuditLog records one tracked mutation. Entries are written once and never
// updated or deleted by the application.
type AuditLog struct {
	ID          string                                    `gorm:"type:uuid;primaryKey" json:"id"`
	Action      AuditAction                               `gorm:"size:32;not null;index" json:"action"`
	EntityType  string                                    `gorm:"size:32;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID    *string                                   `gorm:"index:idx_audit_entity" json:"entity_id,omitempty"`
	Path        *string                                   `gorm:"index" json:"path,omitempty"`
	Changes     datatypes.JSONType[[]changes.FieldChange] `json:"changes"`
	Metadata    datatypes.JSONType[AuditMetadata]         `json:"metadata"`
	PerformedBy string                                    `gorm:"not null;index" json:"performed_by"`
	IPAddress   string                                    `json:"ip_address,omitempty"`
	CreatedAt   time.Time                                 `gorm:"not null;index" json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new entries.
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New()
	}
	return nil
}

// BeforeUpdate rejects any update of a stored entry.
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}

// BeforeDelete rejects deletion of a stored entry.
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}

// ChangeList returns the recorded field changes, never nil.
func (a *AuditLog) ChangeList() []changes.FieldChange {
	c := a.Changes.Data()
	if c == nil {
		return []changes.FieldChange{}
	}
	return c
}

// MetadataValue returns the recorded metadata.
func (a *AuditLog) MetadataValue() AuditMetadata {
	return a.Metadata.Data()
}

// SetMetadata stores m. A nil m stores empty metadata.
func (a *AuditLog) SetMetadata(m *AuditMetadata) {
	if m == nil {
		a.Metadata = datatypes.NewJSONType(AuditMetadata{})
		return
	}
	a.Metadata = datatypes.NewJSONType(*m)
}
