package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/pagination"
	"siteadmin/internal/permission"
	"siteadmin/internal/services"
)

func setupActivityRouter(handler *ActivityHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUser(testUserID, permission.RoleAdmin))
	auth.GET("/activity", handler.ListActivity)
	auth.GET("/activity/:id", handler.GetActivity)
	return r
}

func TestActivityHandler_ListActivity(t *testing.T) {
	t.Run("forwards filters", func(t *testing.T) {
		var got services.ActivityFilter
		activitySvc := &mockActivityService{
			listActivityFn: func(filter services.ActivityFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.AuditLog{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		r := setupActivityRouter(NewActivityHandler(activitySvc))

		rec := doRequest(r, "GET", "/activity?entity_type=seo_page&action=update&path=/about&since=2026-01-02T00:00:00Z&until=2026-02-01T00:00:00Z", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.EntityType != models.EntitySEOPage || got.Action != models.AuditActionUpdate || got.Path != "/about" {
			t.Errorf("unexpected filter: %+v", got)
		}
		wantSince := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
		if got.Since == nil || !got.Since.Equal(wantSince) {
			t.Errorf("expected since %v, got %v", wantSince, got.Since)
		}
		if got.Until == nil {
			t.Error("expected until to be set")
		}
	})

	t.Run("rejects malformed time", func(t *testing.T) {
		r := setupActivityRouter(NewActivityHandler(&mockActivityService{}))

		rec := doRequest(r, "GET", "/activity?since=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes service validation errors through", func(t *testing.T) {
		activitySvc := &mockActivityService{
			listActivityFn: func(filter services.ActivityFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown action")
			},
		}
		r := setupActivityRouter(NewActivityHandler(activitySvc))

		rec := doRequest(r, "GET", "/activity?action=explode", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestActivityHandler_GetActivity(t *testing.T) {
	activitySvc := &mockActivityService{
		getActivityFn: func(id string) (*models.AuditLog, error) {
			return nil, apperrors.ErrAuditEntryNotFound
		},
	}
	r := setupActivityRouter(NewActivityHandler(activitySvc))

	rec := doRequest(r, "GET", "/activity/"+testPostID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "AUDIT_ENTRY_NOT_FOUND")

	rec = doRequest(r, "GET", "/activity/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
