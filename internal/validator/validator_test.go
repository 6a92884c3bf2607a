package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestStringTags(t *testing.T) {
	v := newValidate()

	tests := []struct {
		tag   string
		value string
		valid bool
	}{
		{"role", "admin", true},
		{"role", "SEO", true},
		{"role", "custom", true},
		{"role", "owner", false},
		{"access_level", "none", true},
		{"access_level", "full", true},
		{"access_level", "delete", false},
		{"page_path", "/about", true},
		{"page_path", "blog/hello-world", true},
		{"page_path", "/", true},
		{"page_path", "", false},
		{"page_path", "/a//b", false},
		{"page_path", "/has space", false},
		{"page_path", "/query?x=1", false},
		{"slug", "hello-world-2", true},
		{"slug", "Hello", false},
		{"slug", "double--dash", false},
		{"slug", "-leading", false},
		{"blog_status", "draft", true},
		{"blog_status", "published", true},
		{"blog_status", "archived", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.value, func(t *testing.T) {
			err := v.Var(tt.value, tt.tag)
			if tt.valid && err != nil {
				t.Errorf("expected %q to pass %s, got %v", tt.value, tt.tag, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to fail %s", tt.value, tt.tag)
			}
		})
	}
}

func TestRedirectStatus(t *testing.T) {
	v := newValidate()

	for _, code := range []int{301, 302} {
		if err := v.Var(code, "redirect_status"); err != nil {
			t.Errorf("expected %d to be valid, got %v", code, err)
		}
	}
	for _, code := range []int{200, 307, 308} {
		if err := v.Var(code, "redirect_status"); err == nil {
			t.Errorf("expected %d to be invalid", code)
		}
	}
}
