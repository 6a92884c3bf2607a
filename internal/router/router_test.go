package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"siteadmin/internal/audit"
	"siteadmin/internal/cache"
	"siteadmin/internal/config"
	"siteadmin/internal/handlers"
	"siteadmin/internal/logger"
	"siteadmin/internal/middleware"
	"siteadmin/internal/models"
	"siteadmin/internal/permission"
	"siteadmin/internal/services"
	"siteadmin/internal/testutil"
	"siteadmin/internal/validator"
)

const metricsToken = "scrape-key"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp wires the full stack against db.
func setupApp(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	config.Set(&config.Config{
		Env:              "test",
		JWTSecret:        config.Secret("test-secret"),
		JWTExpirationDur: time.Hour,
	})

	store := audit.NewGormStore(db)
	recorder := audit.NewRecorder(store, nil)

	userService := services.NewAdminUserService(db, recorder)
	return New(Handlers{
		Auth:      handlers.NewAuthHandler(userService),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(db, store, cache.NewMemory(cache.SystemClock{}), time.Minute, cache.SystemClock{})),
		Blog:      handlers.NewBlogHandler(services.NewBlogService(db, recorder)),
		Staff:     handlers.NewStaffHandler(services.NewStaffService(db, recorder)),
		SEO:       handlers.NewSEOHandler(services.NewSEOService(db, recorder)),
		Redirect:  handlers.NewRedirectHandler(services.NewRedirectService(db, recorder)),
		User:      handlers.NewUserHandler(userService),
		Activity:  handlers.NewActivityHandler(services.NewActivityService(store)),
	}, Options{
		CORSOrigins:  []string{"http://localhost:3000"},
		MetricsToken: metricsToken,
		Users:        userService,
	})
}

func tokenFor(t *testing.T, user *models.AdminUser) string {
	t.Helper()
	token, _, err := middleware.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func TestPublicRoutes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	r := setupApp(t, db)

	t.Run("health", func(t *testing.T) {
		rec := doRequest(r, "GET", "/api/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("metrics requires the scrape key", func(t *testing.T) {
		rec := doRequest(r, "GET", "/metrics", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without key, got %d", rec.Code)
		}

		req := httptest.NewRequest("GET", "/metrics", nil)
		req.Header.Set("X-API-Key", metricsToken)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 with key, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "siteadmin_http_requests_total") {
			t.Error("expected request counter in scrape output")
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/blogs", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
			t.Errorf("expected allowed origin header, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
		}
	})
}

func TestLoginFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	r := setupApp(t, db)
	user := testutil.CreateTestUserWithRole(t, db, permission.RoleSEO, nil)

	rec := doRequest(r, "POST", "/api/v1/auth/login", "",
		`{"email":"`+user.Email+`","password":"`+testutil.TestPassword+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}

	rec = doRequest(r, "GET", "/api/v1/auth/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}

	rec = doRequest(r, "GET", "/api/v1/auth/permissions", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("permissions: expected 200, got %d", rec.Code)
	}
	perms := parseJSON(t, rec)["data"].(map[string]interface{})["permissions"].(map[string]interface{})
	if perms["seo"] != "full" || perms["users"] != "read" {
		t.Errorf("unexpected effective permissions: %v", perms)
	}
}

func TestAuthRequired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	r := setupApp(t, db)

	for _, path := range []string{"/api/v1/auth/me", "/api/v1/blogs", "/api/v1/activity", "/api/v1/dashboard/stats"} {
		rec := doRequest(r, "GET", path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
	}

	rec := doRequest(r, "GET", "/api/v1/blogs", "not-a-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad token, got %d", rec.Code)
	}
}

func TestRevokedAccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	r := setupApp(t, db)

	admin := testutil.CreateTestAdminUser(t, db)
	adminToken := tokenFor(t, admin)
	seo := testutil.CreateTestUserWithRole(t, db, permission.RoleSEO, nil)
	seoToken := tokenFor(t, seo)

	if rec := doRequest(r, "GET", "/api/v1/blogs", seoToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 before deactivation, got %d", rec.Code)
	}

	rec := doRequest(r, "PUT", "/api/v1/users/"+seo.ID, adminToken, `{"is_active":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deactivating user, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doRequest(r, "GET", "/api/v1/blogs", seoToken, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after deactivation, got %d", rec.Code)
	}

	second := testutil.CreateTestAdminUser(t, db)
	secondToken := tokenFor(t, second)
	rec = doRequest(r, "PUT", "/api/v1/users/"+second.ID, adminToken, `{"role":"seo"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 demoting user, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doRequest(r, "DELETE", "/api/v1/users/"+admin.ID, secondToken, ""); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a demoted admin token, got %d", rec.Code)
	}
}

func TestPermissionGates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	r := setupApp(t, db)

	admin := tokenFor(t, testutil.CreateTestAdminUser(t, db))
	seo := tokenFor(t, testutil.CreateTestUserWithRole(t, db, permission.RoleSEO, nil))
	writer := tokenFor(t, testutil.CreateTestUserWithRole(t, db, permission.RoleCustom, permission.Map{
		permission.PageBlogs: permission.AccessWrite,
	}))
	post := testutil.CreateTestBlogPost(t, db)

	tests := []struct {
		name       string
		token      string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"admin reads stats", admin, "GET", "/api/v1/dashboard/stats", "", http.StatusOK},
		{"admin clears cache", admin, "POST", "/api/v1/dashboard/cache/clear", "", http.StatusOK},
		{"admin lists users", admin, "GET", "/api/v1/users", "", http.StatusOK},
		{"seo reads blogs", seo, "GET", "/api/v1/blogs", "", http.StatusOK},
		{"seo reads users", seo, "GET", "/api/v1/users", "", http.StatusOK},
		{"seo cannot create staff", seo, "POST", "/api/v1/staff", `{"name":"Ada","slug":"ada"}`, http.StatusForbidden},
		{"seo cannot clear cache", seo, "POST", "/api/v1/dashboard/cache/clear", "", http.StatusForbidden},
		{"seo cannot delete blogs", seo, "DELETE", "/api/v1/blogs/" + post.ID, "", http.StatusForbidden},
		{"seo bulk deletes seo pages", seo, "POST", "/api/v1/seo/bulk-delete", `{"paths":["/nowhere"]}`, http.StatusOK},
		{"seo cannot create redirects", seo, "POST", "/api/v1/redirects", `{"from_path":"/a","to_path":"/b"}`, http.StatusForbidden},
		{"custom writer reads blogs", writer, "GET", "/api/v1/blogs/" + post.ID, "", http.StatusOK},
		{"custom writer cannot delete blogs", writer, "DELETE", "/api/v1/blogs/" + post.ID, "", http.StatusForbidden},
		{"custom writer cannot read staff", writer, "GET", "/api/v1/staff", "", http.StatusForbidden},
		{"custom writer cannot read activity", writer, "GET", "/api/v1/activity", "", http.StatusForbidden},
		{"admin deletes blogs", admin, "DELETE", "/api/v1/blogs/" + post.ID, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(r, tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("forbidden names page and level", func(t *testing.T) {
		rec := doRequest(r, "POST", "/api/v1/staff", seo, `{"name":"Ada","slug":"ada"}`)
		errBody := parseJSON(t, rec)["error"].(map[string]interface{})
		if errBody["code"] != "FORBIDDEN" || errBody["message"] != "Access denied: write on staff" {
			t.Errorf("unexpected error body: %v", errBody)
		}
	})
}

func TestMutationsAreAudited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	r := setupApp(t, db)
	admin := testutil.CreateTestAdminUser(t, db)
	token := tokenFor(t, admin)

	rec := doRequest(r, "PUT", "/api/v1/seo", token, `{"path":"/pricing","meta_title":"Pricing"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, "GET", "/api/v1/activity?entity_type=seo_page", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := parseJSON(t, rec)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(items))
	}
	entry := items[0].(map[string]interface{})
	if entry["action"] != "create" || entry["performed_by"] != admin.ID || entry["path"] != "/pricing" {
		t.Errorf("unexpected entry: %v", entry)
	}
}
