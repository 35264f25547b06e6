package entity

import (
	"time"

	"github.com/google/uuid"
)

// BlogCategories lists the accepted post categories.
var BlogCategories = []string{"tax-tips", "regulatory-updates", "planning"}

// DefaultBlogCategory is used when a post is created without a category.
const DefaultBlogCategory = "tax-tips"

// BlogPost is an article; Slug is its public lookup key.
type BlogPost struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Category    string     `json:"category"`
	AuthorID    *string    `json:"authorId"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewBlogPost describes a draft to insert.
type NewBlogPost struct {
	Title    string
	Slug     string
	Excerpt  string
	Content  string
	Category string
	AuthorID *string
}

// BlogPostPatch holds the editable fields of a post; nil fields are untouched.
type BlogPostPatch struct {
	Title    *string
	Slug     *string
	Excerpt  *string
	Content  *string
	Category *string
}

// Empty reports whether the patch changes nothing.
func (p BlogPostPatch) Empty() bool {
	return p.Title == nil && p.Slug == nil && p.Excerpt == nil && p.Content == nil && p.Category == nil
}
