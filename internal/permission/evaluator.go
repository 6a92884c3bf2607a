package permission

// Subject is the caller whose access is being evaluated. It is one of
// Admin, SEO or Custom; the unexported method keeps the set closed.
type Subject interface {
	Role() Role
	subject()
}

// Admin has full access to every page.
type Admin struct{}

// SEO edits site content and reads everything else.
type SEO struct{}

// Custom defers entirely to its permission map.
type Custom struct {
	Permissions Map
}

func (Admin) Role() Role  { return RoleAdmin }
func (SEO) Role() Role    { return RoleSEO }
func (Custom) Role() Role { return RoleCustom }

func (Admin) subject()  {}
func (SEO) subject()    {}
func (Custom) subject() {}

// NewSubject builds the subject for a stored role and permission map. The
// map is ignored for admin and seo. An unknown role yields nil, which every
// check denies.
func NewSubject(role Role, perms Map) Subject {
	switch role {
	case RoleAdmin:
		return Admin{}
	case RoleSEO:
		return SEO{}
	case RoleCustom:
		return Custom{Permissions: perms}
	}
	return nil
}

// seoPermissions is the built-in grant of the seo role: write on content
// pages, full on the pages where it may also delete, read elsewhere.
var seoPermissions = Map{
	PageBlogs: AccessWrite,
	PageMedia: AccessWrite,
	PageSEO:   AccessFull,
}

// SEOContentPages lists the pages the seo role may write to.
func SEOContentPages() []PageName {
	var out []PageName
	for _, p := range Pages {
		if seoPermissions.Level(p).AtLeast(AccessWrite) {
			out = append(out, p)
		}
	}
	return out
}

// accessFor resolves the access level a subject holds on a known page.
func accessFor(s Subject, page PageName) AccessLevel {
	switch s := s.(type) {
	case Admin:
		return AccessFull
	case SEO:
		if a, ok := seoPermissions[page]; ok {
			return a
		}
		return AccessRead
	case Custom:
		return s.Permissions.Level(page)
	}
	return AccessNone
}

// HasPermission reports whether s may perform level on page. Unknown pages,
// unknown levels and a nil subject are denied.
func HasPermission(s Subject, page PageName, level Level) bool {
	if s == nil || !IsKnownPage(page) {
		return false
	}
	need, ok := level.required()
	if !ok {
		return false
	}
	return accessFor(s, page).AtLeast(need)
}

// Allowed is HasPermission over the raw fields stored on a user record.
func Allowed(role Role, perms Map, page PageName, level Level) bool {
	return HasPermission(NewSubject(role, perms), page, level)
}

// Effective returns the resolved access level for every known page.
func Effective(s Subject) Map {
	out := make(Map, len(Pages))
	for _, p := range Pages {
		if s == nil {
			out[p] = AccessNone
			continue
		}
		out[p] = accessFor(s, p)
	}
	return out
}

// Actions returns, per page, the levels s may perform. The UI uses it to
// hide buttons the server would reject.
func Actions(s Subject) map[PageName][]Level {
	out := make(map[PageName][]Level, len(Pages))
	for _, p := range Pages {
		allowed := []Level{}
		for _, l := range Levels {
			if HasPermission(s, p, l) {
				allowed = append(allowed, l)
			}
		}
		out[p] = allowed
	}
	return out
}
