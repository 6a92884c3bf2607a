package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"siteadmin/internal/changes"
	"siteadmin/internal/metrics"
	"siteadmin/internal/models"
	dbtest "siteadmin/internal/testutil"
)

type failingStore struct {
	err   error
	panic bool
	calls int
}

func (s *failingStore) Insert(ctx context.Context, entry *models.AuditLog) error {
	s.calls++
	if s.panic {
		panic("store exploded")
	}
	return s.err
}

func (s *failingStore) Query(ctx context.Context, filter Filter) ([]models.AuditLog, int64, error) {
	return nil, 0, s.err
}

func (s *failingStore) Get(ctx context.Context, id string) (*models.AuditLog, error) {
	return nil, s.err
}

type seoMeta struct {
	MetaTitle string `json:"meta_title"`
	Keywords  string `json:"keywords"`
	OpenGraph struct {
		Title string `json:"title"`
	} `json:"open_graph"`
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecorder_Record(t *testing.T) {
	db := dbtest.SetupTestDB(t)
	defer dbtest.TeardownTestDB(t, db)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(NewGormStore(db), fixedClock(at))

	out := rec.Record(context.Background(), Entry{
		Action:     models.AuditActionCreate,
		EntityType: models.EntitySEOPage,
		EntityID:   "page-1",
		Path:       "/about",
		Changes:    []changes.FieldChange{{Field: "meta_title", NewValue: "About"}},
		Actor:      Actor{UserID: "user-1", IPAddress: "10.0.0.1"},
	})
	if !out.Recorded || out.Err != nil || out.ID == "" {
		t.Fatalf("expected recorded outcome with id, got %+v", out)
	}

	var stored models.AuditLog
	if err := db.First(&stored, "id = ?", out.ID).Error; err != nil {
		t.Fatalf("failed to load entry: %v", err)
	}
	if !stored.CreatedAt.Equal(at) {
		t.Errorf("expected created_at %v from the injected clock, got %v", at, stored.CreatedAt)
	}
	if stored.Path == nil || *stored.Path != "/about" {
		t.Errorf("expected path /about, got %v", stored.Path)
	}
	if stored.PerformedBy != "user-1" || stored.IPAddress != "10.0.0.1" {
		t.Errorf("unexpected actor fields: %q %q", stored.PerformedBy, stored.IPAddress)
	}
	if got := stored.ChangeList(); len(got) != 1 || got[0].Field != "meta_title" {
		t.Errorf("unexpected changes: %+v", got)
	}
}

func TestRecorder_Record_OptionalFields(t *testing.T) {
	db := dbtest.SetupTestDB(t)
	defer dbtest.TeardownTestDB(t, db)

	rec := NewRecorder(NewGormStore(db), nil)
	out := rec.Record(context.Background(), Entry{
		Action:     models.AuditActionBulkDelete,
		EntityType: models.EntitySEOPage,
		Metadata:   &models.AuditMetadata{IsBulkOperation: true, AffectedPaths: []string{"/a", "/b"}, AffectedCount: 2},
		Actor:      Actor{UserID: "user-1"},
	})
	if !out.Recorded {
		t.Fatalf("expected entry to be recorded, got %+v", out)
	}

	var stored models.AuditLog
	if err := db.First(&stored, "id = ?", out.ID).Error; err != nil {
		t.Fatalf("failed to load entry: %v", err)
	}
	if stored.EntityID != nil || stored.Path != nil {
		t.Errorf("expected no entity id or path, got %v %v", stored.EntityID, stored.Path)
	}
	meta := stored.MetadataValue()
	if !meta.IsBulkOperation || len(meta.AffectedPaths) != 2 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if stored.ChangeList() == nil {
		t.Error("expected non-nil change list")
	}
}

func TestRecorder_StoreFailureIsSwallowed(t *testing.T) {
	store := &failingStore{err: errors.New("connection refused")}
	rec := NewRecorder(store, nil)

	before := testutil.ToFloat64(metrics.AuditWriteFailures.WithLabelValues(string(models.AuditActionUpdate)))
	out := rec.Record(context.Background(), Entry{
		Action:     models.AuditActionUpdate,
		EntityType: models.EntitySEOPage,
		Actor:      Actor{UserID: "user-1"},
	})
	after := testutil.ToFloat64(metrics.AuditWriteFailures.WithLabelValues(string(models.AuditActionUpdate)))

	if out.Recorded {
		t.Error("expected entry not to be recorded")
	}
	if out.Err == nil || out.Err.Error() != "connection refused" {
		t.Errorf("expected store error in outcome, got %v", out.Err)
	}
	if after-before != 1 {
		t.Errorf("expected failure counter to increase by 1, got %v", after-before)
	}
}

func TestRecorder_StorePanicIsSwallowed(t *testing.T) {
	rec := NewRecorder(&failingStore{panic: true}, nil)

	out := rec.Record(context.Background(), Entry{
		Action:     models.AuditActionDelete,
		EntityType: models.EntityBlogPost,
	})
	if out.Recorded || out.Err == nil {
		t.Errorf("expected failed outcome, got %+v", out)
	}
}

func TestRecorder_RejectsMalformedEntries(t *testing.T) {
	store := &failingStore{}
	rec := NewRecorder(store, nil)

	tests := []struct {
		name  string
		entry Entry
	}{
		{"unknown action", Entry{Action: "rename", EntityType: models.EntitySEOPage}},
		{"missing entity type", Entry{Action: models.AuditActionCreate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := rec.Record(context.Background(), tt.entry)
			if out.Recorded || out.Err == nil {
				t.Errorf("expected rejected outcome, got %+v", out)
			}
		})
	}
	if store.calls != 0 {
		t.Errorf("expected store not to be called, got %d calls", store.calls)
	}
}

func TestRecorder_RecordChange(t *testing.T) {
	db := dbtest.SetupTestDB(t)
	defer dbtest.TeardownTestDB(t, db)

	rec := NewRecorder(NewGormStore(db), nil)
	fields := []string{"meta_title", "keywords", "open_graph.title"}

	old := seoMeta{MetaTitle: "A", Keywords: "x"}
	old.OpenGraph.Title = "T"
	updated := seoMeta{MetaTitle: "B", Keywords: "x"}
	updated.OpenGraph.Title = "T"

	t.Run("update with changes", func(t *testing.T) {
		out := rec.RecordChange(context.Background(), ChangeEntry{
			Entry:  Entry{Action: models.AuditActionUpdate, EntityType: models.EntitySEOPage, Path: "/about"},
			Old:    old,
			New:    updated,
			Fields: fields,
		})
		if !out.Recorded {
			t.Fatalf("expected recorded outcome, got %+v", out)
		}
		var stored models.AuditLog
		if err := db.First(&stored, "id = ?", out.ID).Error; err != nil {
			t.Fatalf("failed to load entry: %v", err)
		}
		got := stored.ChangeList()
		if len(got) != 1 || got[0].Field != "meta_title" || got[0].OldValue != "A" || got[0].NewValue != "B" {
			t.Errorf("unexpected changes: %+v", got)
		}
	})

	t.Run("update without changes is skipped", func(t *testing.T) {
		out := rec.RecordChange(context.Background(), ChangeEntry{
			Entry:  Entry{Action: models.AuditActionUpdate, EntityType: models.EntitySEOPage, Path: "/about"},
			Old:    old,
			New:    old,
			Fields: fields,
		})
		if !out.Skipped || out.Recorded {
			t.Errorf("expected skipped outcome, got %+v", out)
		}
	})

	t.Run("create records present fields", func(t *testing.T) {
		out := rec.RecordChange(context.Background(), ChangeEntry{
			Entry:  Entry{Action: models.AuditActionCreate, EntityType: models.EntitySEOPage, Path: "/new"},
			Old:    nil,
			New:    updated,
			Fields: fields,
		})
		if !out.Recorded {
			t.Fatalf("expected recorded outcome, got %+v", out)
		}
		var stored models.AuditLog
		if err := db.First(&stored, "id = ?", out.ID).Error; err != nil {
			t.Fatalf("failed to load entry: %v", err)
		}
		if len(stored.ChangeList()) != 3 {
			t.Errorf("expected 3 changes on create, got %+v", stored.ChangeList())
		}
	})
}
