// Package router assembles the gin engine: middleware, public endpoints and
// the permission-gated /api/v1 routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"siteadmin/internal/handlers"
	"siteadmin/internal/middleware"
	"siteadmin/internal/permission"

	_ "siteadmin/internal/docs" // swagger docs
)

// Handlers holds every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Blog      *handlers.BlogHandler
	Staff     *handlers.StaffHandler
	SEO       *handlers.SEOHandler
	Redirect  *handlers.RedirectHandler
	User      *handlers.UserHandler
	Activity  *handlers.ActivityHandler
}

// Options configures the router's ambient middleware.
type Options struct {
	CORSOrigins  []string
	MetricsToken string

	// Users, when set, re-checks on every request that the token's user
	// still exists and is active.
	Users middleware.UserLookup
}

// New builds the engine.
func New(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())
	r.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       1 * time.Hour,
	}))

	r.GET("/metrics", middleware.MetricsAuth(opts.MetricsToken), gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())
	if opts.Users != nil {
		protected.Use(middleware.ActiveUser(opts.Users))
	}

	protected.GET("/auth/me", h.Auth.Me)
	protected.GET("/auth/permissions", h.Auth.Permissions)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/stats", gate(permission.PageDashboard, permission.LevelRead), h.Dashboard.GetStats)
	dashboard.POST("/cache/clear", gate(permission.PagePerformance, permission.LevelWrite), h.Dashboard.ClearCache)

	blogs := protected.Group("/blogs")
	blogs.GET("", gate(permission.PageBlogs, permission.LevelRead), h.Blog.ListPosts)
	blogs.POST("", gate(permission.PageBlogs, permission.LevelWrite), h.Blog.CreatePost)
	blogs.POST("/bulk-delete", gate(permission.PageBlogs, permission.LevelDelete), h.Blog.BulkDeletePosts)
	blogs.GET("/:id", gate(permission.PageBlogs, permission.LevelRead), h.Blog.GetPost)
	blogs.PUT("/:id", gate(permission.PageBlogs, permission.LevelWrite), h.Blog.UpdatePost)
	blogs.DELETE("/:id", gate(permission.PageBlogs, permission.LevelDelete), h.Blog.DeletePost)

	staff := protected.Group("/staff")
	staff.GET("", gate(permission.PageStaff, permission.LevelRead), h.Staff.ListStaff)
	staff.POST("", gate(permission.PageStaff, permission.LevelWrite), h.Staff.CreateStaff)
	staff.GET("/:id", gate(permission.PageStaff, permission.LevelRead), h.Staff.GetStaff)
	staff.PUT("/:id", gate(permission.PageStaff, permission.LevelWrite), h.Staff.UpdateStaff)
	staff.DELETE("/:id", gate(permission.PageStaff, permission.LevelDelete), h.Staff.DeleteStaff)

	seo := protected.Group("/seo")
	seo.GET("", gate(permission.PageSEO, permission.LevelRead), h.SEO.ListPages)
	seo.GET("/page", gate(permission.PageSEO, permission.LevelRead), h.SEO.GetPage)
	seo.PUT("", gate(permission.PageSEO, permission.LevelWrite), h.SEO.UpsertPage)
	seo.POST("/reset", gate(permission.PageSEO, permission.LevelWrite), h.SEO.ResetPage)
	seo.POST("/bulk-update", gate(permission.PageSEO, permission.LevelWrite), h.SEO.BulkUpdate)
	seo.POST("/bulk-reset", gate(permission.PageSEO, permission.LevelWrite), h.SEO.BulkReset)
	seo.POST("/bulk-delete", gate(permission.PageSEO, permission.LevelDelete), h.SEO.BulkDelete)
	seo.PUT("/slug", gate(permission.PageSEO, permission.LevelWrite), h.SEO.ChangeSlug)

	redirects := protected.Group("/redirects")
	redirects.GET("", gate(permission.PageRedirects, permission.LevelRead), h.Redirect.ListRedirects)
	redirects.POST("", gate(permission.PageRedirects, permission.LevelWrite), h.Redirect.CreateRedirect)
	redirects.DELETE("/:id", gate(permission.PageRedirects, permission.LevelDelete), h.Redirect.DeleteRedirect)

	users := protected.Group("/users")
	users.GET("", gate(permission.PageUsers, permission.LevelRead), h.User.ListUsers)
	users.POST("", gate(permission.PageUsers, permission.LevelWrite), h.User.CreateUser)
	users.GET("/:id", gate(permission.PageUsers, permission.LevelRead), h.User.GetUser)
	users.PUT("/:id", gate(permission.PageUsers, permission.LevelWrite), h.User.UpdateUser)
	users.DELETE("/:id", gate(permission.PageUsers, permission.LevelDelete), h.User.DeleteUser)

	activity := protected.Group("/activity", gate(permission.PageActivity, permission.LevelRead))
	activity.GET("", h.Activity.ListActivity)
	activity.GET("/:id", h.Activity.GetActivity)

	return r
}

func gate(page permission.PageName, level permission.Level) gin.HandlerFunc {
	return middleware.RequirePermission(page, level)
}
