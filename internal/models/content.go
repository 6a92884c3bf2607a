package models

import (
	"time"

	"gorm.io/datatypes"
)

// BlogStatus is the publication state of a blog post.
type BlogStatus string

// Blog statuses.
const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// BlogPost is an article on the marketing site.
type BlogPost struct {
	Base
	Title           string                       `gorm:"not null" json:"title"`
	Slug            string                       `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt         string                       `json:"excerpt"`
	Content         string                       `gorm:"type:text" json:"content"`
	CoverImage      string                       `json:"cover_image"`
	Author          string                       `json:"author"`
	Tags            datatypes.JSONType[[]string] `json:"tags"`
	Status          BlogStatus                   `gorm:"size:20;not null;default:draft;index" json:"status"`
	PublishedAt     *time.Time                   `json:"published_at,omitempty"`
	MetaTitle       string                       `json:"meta_title"`
	MetaDescription string                       `json:"meta_description"`
}

// StaffMember is a profile on the team page.
type StaffMember struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	Slug      string `gorm:"uniqueIndex;not null" json:"slug"`
	Position  string `json:"position"`
	Bio       string `gorm:"type:text" json:"bio"`
	Photo     string `json:"photo"`
	Email     string `json:"email"`
	SortOrder int    `gorm:"default:0;index" json:"sort_order"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
}

// OpenGraph holds the social sharing metadata of a page.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// SEOPage holds the search metadata of one site path.
type SEOPage struct {
	Base
	Path            string    `gorm:"uniqueIndex;not null" json:"path"`
	MetaTitle       string    `json:"meta_title"`
	MetaDescription string    `json:"meta_description"`
	Keywords        string    `json:"keywords"`
	CanonicalURL    string    `json:"canonical_url"`
	NoIndex         bool      `gorm:"not null" json:"no_index"`
	OpenGraph       OpenGraph `gorm:"embedded;embeddedPrefix:og_" json:"open_graph"`
}

// Redirect sends requests for one path to another.
type Redirect struct {
	Base
	FromPath   string `gorm:"uniqueIndex;not null" json:"from_path"`
	ToPath     string `gorm:"not null" json:"to_path"`
	StatusCode int    `gorm:"not null;default:301" json:"status_code"`
}
