package models

import (
	"time"

	"github.com/lib/pq"
)

// ContentStatus is the publication state of a CMS record.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
)

// Valid reports whether s is draft or published.
func (s ContentStatus) Valid() bool {
	return s == ContentDraft || s == ContentPublished
}

// BlogPost is an article in the blog section.
type BlogPost struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Slug        string         `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Excerpt     string         `gorm:"type:text" json:"excerpt"`
	Content     string         `gorm:"type:text" json:"content"`
	CoverImage  string         `gorm:"type:text" json:"cover_image"`
	Author      string         `gorm:"type:text" json:"author"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Status      ContentStatus  `gorm:"type:text;not null;default:draft;index" json:"status"`
	PublishedAt *time.Time     `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PageContent is an editable static page (about, terms, privacy...).
type PageContent struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Slug            string        `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Title           string        `gorm:"type:text;not null" json:"title"`
	Content         string        `gorm:"type:text" json:"content"`
	MetaTitle       string        `gorm:"type:text" json:"meta_title"`
	MetaDescription string        `gorm:"type:text" json:"meta_description"`
	Status          ContentStatus `gorm:"type:text;not null;default:draft" json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Partner is a logo shown on the marketing site.
type Partner struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	LogoURL     string    `gorm:"type:text" json:"logo_url"`
	Website     string    `gorm:"type:text" json:"website"`
	Description string    `gorm:"type:text" json:"description"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PressRelease is a press item, either our own release or external coverage.
type PressRelease struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Slug        string        `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Summary     string        `gorm:"type:text" json:"summary"`
	Content     string        `gorm:"type:text" json:"content"`
	Source      string        `gorm:"type:text" json:"source"`
	URL         string        `gorm:"type:text" json:"url"`
	Status      ContentStatus `gorm:"type:text;not null;default:draft" json:"status"`
	PublishedAt *time.Time    `json:"published_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TeamMember is a person on the about page.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Role      string    `gorm:"type:text" json:"role"`
	Bio       string    `gorm:"type:text" json:"bio"`
	PhotoURL  string    `gorm:"type:text" json:"photo_url"`
	LinkedIn  string    `gorm:"type:text" json:"linkedin"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
