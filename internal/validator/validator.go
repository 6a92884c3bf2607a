// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"siteadmin/internal/permission"
)

var (
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	// pagePathRegex accepts site paths with or without a leading slash.
	pagePathRegex = regexp.MustCompile(`^/?[A-Za-z0-9._~\-/]*$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("role", validateRole)
	_ = v.RegisterValidation("access_level", validateAccessLevel)
	_ = v.RegisterValidation("page_path", validatePagePath)
	_ = v.RegisterValidation("slug", validateSlug)
	_ = v.RegisterValidation("blog_status", validateBlogStatus)
	_ = v.RegisterValidation("redirect_status", validateRedirectStatus)
}

func validateRole(fl validator.FieldLevel) bool {
	_, ok := permission.ParseRole(fl.Field().String())
	return ok
}

func validateAccessLevel(fl validator.FieldLevel) bool {
	_, ok := permission.ParseAccessLevel(fl.Field().String())
	return ok
}

func validatePagePath(fl validator.FieldLevel) bool {
	p := strings.TrimSpace(fl.Field().String())
	if p == "" || len(p) > 512 || strings.Contains(p, "//") {
		return false
	}
	return pagePathRegex.MatchString(p)
}

func validateSlug(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) <= 200 && slugRegex.MatchString(s)
}

func validateBlogStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "published":
		return true
	}
	return false
}

func validateRedirectStatus(fl validator.FieldLevel) bool {
	switch fl.Field().Int() {
	case 301, 302:
		return true
	}
	return false
}
