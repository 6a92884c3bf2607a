package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "siteadmin/internal/errors"
	"siteadmin/internal/models"
	"siteadmin/internal/permission"
	"siteadmin/internal/services"
)

func setupRedirectRouter(handler *RedirectHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUser(testUserID, permission.RoleSEO))
	auth.GET("/redirects", handler.ListRedirects)
	auth.POST("/redirects", handler.CreateRedirect)
	auth.DELETE("/redirects/:id", handler.DeleteRedirect)
	return r
}

func TestRedirectHandler_CreateRedirect(t *testing.T) {
	t.Run("forwards status code", func(t *testing.T) {
		var gotStatus int
		redirectSvc := &mockRedirectService{
			createRedirectFn: func(_ services.Actor, fromPath, toPath string, statusCode int) (*models.Redirect, error) {
				gotStatus = statusCode
				return &models.Redirect{FromPath: fromPath, ToPath: toPath, StatusCode: statusCode}, nil
			},
		}
		r := setupRedirectRouter(NewRedirectHandler(redirectSvc))

		rec := doRequest(r, "POST", "/redirects", `{"from_path":"/old","to_path":"/new","status_code":302}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStatus != 302 {
			t.Errorf("expected 302, got %d", gotStatus)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"unsupported status", `{"from_path":"/old","to_path":"/new","status_code":307}`},
		{"missing target", `{"from_path":"/old"}`},
		{"bad path", `{"from_path":"/old page","to_path":"/new"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupRedirectRouter(NewRedirectHandler(&mockRedirectService{}))

			rec := doRequest(r, "POST", "/redirects", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 400 on loop", func(t *testing.T) {
		redirectSvc := &mockRedirectService{
			createRedirectFn: func(_ services.Actor, fromPath, toPath string, statusCode int) (*models.Redirect, error) {
				return nil, apperrors.ErrRedirectLoop
			},
		}
		r := setupRedirectRouter(NewRedirectHandler(redirectSvc))

		rec := doRequest(r, "POST", "/redirects", `{"from_path":"/same","to_path":"/same"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REDIRECT_LOOP")
	})
}

func TestRedirectHandler_DeleteRedirect(t *testing.T) {
	redirectSvc := &mockRedirectService{
		deleteRedirectFn: func(_ services.Actor, id string) error {
			return apperrors.ErrRedirectNotFound
		},
	}
	r := setupRedirectRouter(NewRedirectHandler(redirectSvc))

	rec := doRequest(r, "DELETE", "/redirects/"+testPostID, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "REDIRECT_NOT_FOUND")
}
