// Package permission decides whether an admin user may read, write or
// delete on a page of the admin panel.
//
// The same evaluator backs the route gates in the middleware package and the
// effective-permissions endpoint the UI uses to decide what to render, so
// the two never disagree.
package permission

import "strings"

// Role is the role stored on an admin user.
type Role string

// Roles.
const (
	RoleAdmin  Role = "admin"
	RoleSEO    Role = "seo"
	RoleCustom Role = "custom"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleSEO, RoleCustom}

// ParseRole returns the role named by s.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleSEO, RoleCustom:
		return r, true
	}
	return "", false
}

// AccessLevel is the access granted on one page. Levels are ordered
// none < read < write < full.
type AccessLevel string

// Access levels.
const (
	AccessNone  AccessLevel = "none"
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessFull  AccessLevel = "full"
)

// rank orders access levels. Unknown values rank with none.
func (a AccessLevel) rank() int {
	switch a {
	case AccessRead:
		return 1
	case AccessWrite:
		return 2
	case AccessFull:
		return 3
	}
	return 0
}

// AtLeast reports whether a grants at least b.
func (a AccessLevel) AtLeast(b AccessLevel) bool {
	return a.rank() >= b.rank()
}

// ParseAccessLevel returns the access level named by s.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch a := AccessLevel(strings.ToLower(strings.TrimSpace(s))); a {
	case AccessNone, AccessRead, AccessWrite, AccessFull:
		return a, true
	}
	return "", false
}

// Level is the action being requested on a page.
type Level string

// Requested levels.
const (
	LevelRead   Level = "read"
	LevelWrite  Level = "write"
	LevelDelete Level = "delete"
)

// Levels lists every requestable level.
var Levels = []Level{LevelRead, LevelWrite, LevelDelete}

// ParseLevel returns the requested level named by s.
func ParseLevel(s string) (Level, bool) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelRead, LevelWrite, LevelDelete:
		return l, true
	}
	return "", false
}

// required maps a requested level to the minimum access level granting it.
func (l Level) required() (AccessLevel, bool) {
	switch l {
	case LevelRead:
		return AccessRead, true
	case LevelWrite:
		return AccessWrite, true
	case LevelDelete:
		return AccessFull, true
	}
	return "", false
}

// PageName identifies a section of the admin panel.
type PageName string

// Pages.
const (
	PageDashboard   PageName = "dashboard"
	PageBlogs       PageName = "blogs"
	PageStaff       PageName = "staff"
	PageSEO         PageName = "seo"
	PageRedirects   PageName = "redirects"
	PageMedia       PageName = "media"
	PageUsers       PageName = "users"
	PageActivity    PageName = "activity"
	PageSettings    PageName = "settings"
	PagePerformance PageName = "performance"
)

// Pages is the fixed set of known pages.
var Pages = []PageName{
	PageDashboard,
	PageBlogs,
	PageStaff,
	PageSEO,
	PageRedirects,
	PageMedia,
	PageUsers,
	PageActivity,
	PageSettings,
	PagePerformance,
}

var knownPages = func() map[PageName]struct{} {
	m := make(map[PageName]struct{}, len(Pages))
	for _, p := range Pages {
		m[p] = struct{}{}
	}
	return m
}()

// IsKnownPage reports whether p is one of Pages.
func IsKnownPage(p PageName) bool {
	_, ok := knownPages[p]
	return ok
}

// Map assigns an access level to pages. Missing pages resolve to none.
type Map map[PageName]AccessLevel

// Level returns the access level for page, or none when unset or invalid.
func (m Map) Level(page PageName) AccessLevel {
	if m == nil {
		return AccessNone
	}
	a, ok := m[page]
	if !ok {
		return AccessNone
	}
	if _, valid := ParseAccessLevel(string(a)); !valid {
		return AccessNone
	}
	return a
}

// Normalize returns a copy holding only known pages with valid levels.
// Entries equal to none are dropped since they match the default.
func (m Map) Normalize() Map {
	out := make(Map, len(m))
	for page, a := range m {
		if !IsKnownPage(page) {
			continue
		}
		level, ok := ParseAccessLevel(string(a))
		if !ok || level == AccessNone {
			continue
		}
		out[page] = level
	}
	return out
}
