// Package audit records tracked mutations of admin content. Recording is
// best-effort: a failed write is logged and counted, never surfaced to the
// operation that triggered it.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"siteadmin/internal/changes"
	"siteadmin/internal/logger"
	"siteadmin/internal/metrics"
	"siteadmin/internal/models"
)

// Actor identifies who performed a mutation and from where.
type Actor struct {
	UserID    string
	IPAddress string
}

// Entry describes one mutation to record.
type Entry struct {
	Action     models.AuditAction
	EntityType string
	EntityID   string
	Path       string
	Changes    []changes.FieldChange
	Metadata   *models.AuditMetadata
	Actor      Actor
}

// ChangeEntry is an Entry whose field changes are derived from a before and
// after snapshot of the entity.
type ChangeEntry struct {
	Entry
	Old    any
	New    any
	Fields []string
}

// Outcome reports what happened to an entry. Callers may ignore it.
type Outcome struct {
	Recorded bool
	Skipped  bool
	ID       string
	Err      error
}

// Recorder writes audit entries to a Store.
type Recorder struct {
	store Store
	now   func() time.Time
	log   *zap.SugaredLogger
}

// NewRecorder creates a Recorder. A nil now uses time.Now.
func NewRecorder(store Store, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{store: store, now: now, log: logger.Named("audit")}
}

// Record persists e. It never returns an error to the caller; failures are
// reported in the Outcome and in the audit write failure metric.
func (r *Recorder) Record(ctx context.Context, e Entry) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = r.fail(e, fmt.Errorf("audit store panic: %v", p))
		}
	}()

	if !e.Action.IsValid() {
		return r.fail(e, fmt.Errorf("unknown audit action %q", e.Action))
	}
	if e.EntityType == "" {
		return r.fail(e, fmt.Errorf("audit entry for %s has no entity type", e.Action))
	}

	entry := toModel(e, r.now())
	if err := r.store.Insert(ctx, entry); err != nil {
		return r.fail(e, err)
	}

	metrics.AuditEntriesTotal.WithLabelValues(string(e.Action)).Inc()
	return Outcome{Recorded: true, ID: entry.ID}
}

// RecordChange diffs Old against New over Fields and records the result.
// An update with no tracked changes is skipped.
func (r *Recorder) RecordChange(ctx context.Context, e ChangeEntry) Outcome {
	diff := changes.Detect(e.Old, e.New, e.Fields)
	if e.Action == models.AuditActionUpdate && len(diff) == 0 {
		return Outcome{Skipped: true}
	}
	e.Changes = diff
	return r.Record(ctx, e.Entry)
}

func (r *Recorder) fail(e Entry, err error) Outcome {
	metrics.AuditWriteFailures.WithLabelValues(string(e.Action)).Inc()
	r.log.Errorw("failed to record audit entry",
		"error", err,
		"action", e.Action,
		"entity_type", e.EntityType,
		"entity_id", e.EntityID,
		"path", e.Path,
		"performed_by", e.Actor.UserID,
	)
	return Outcome{Err: err}
}

func toModel(e Entry, at time.Time) *models.AuditLog {
	entry := &models.AuditLog{
		Action:      e.Action,
		EntityType:  e.EntityType,
		PerformedBy: e.Actor.UserID,
		IPAddress:   e.Actor.IPAddress,
		CreatedAt:   at.UTC(),
	}
	if e.EntityID != "" {
		id := e.EntityID
		entry.EntityID = &id
	}
	if e.Path != "" {
		p := e.Path
		entry.Path = &p
	}
	entry.Changes = newChangeList(e.Changes)
	entry.SetMetadata(e.Metadata)
	return entry
}

func newChangeList(c []changes.FieldChange) datatypes.JSONType[[]changes.FieldChange] {
	if c == nil {
		c = []changes.FieldChange{}
	}
	return datatypes.NewJSONType(c)
}
