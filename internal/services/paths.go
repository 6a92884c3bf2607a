package services

import "strings"

// Site path prefixes for content with public pages.
const (
	BlogPathPrefix  = "/blog/"
	StaffPathPrefix = "/team/"
)

// BlogPath returns the public path of a blog post.
func BlogPath(slug string) string {
	return BlogPathPrefix + slug
}

// StaffPath returns the public path of a staff profile.
func StaffPath(slug string) string {
	return StaffPathPrefix + slug
}

// NormalizePath trims whitespace, ensures a leading slash and drops a
// trailing slash except on the root path.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

// normalizePaths normalizes and de-duplicates paths, keeping their order.
func normalizePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = NormalizePath(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
