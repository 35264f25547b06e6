package dto

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

const (
	maxTitleLength   = 200
	maxSlugLength    = 100
	maxExcerptLength = 500
)

// CreateBlogPostRequest creates a draft. An empty slug is derived from the title.
type CreateBlogPostRequest struct {
	Title    string  `json:"title"`
	Slug     string  `json:"slug"`
	Excerpt  string  `json:"excerpt"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	AuthorID *string `json:"authorId"`
}

func (r CreateBlogPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), notBlank, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Slug, validation.Required.Error("slug is required"), validation.Length(1, maxSlugLength),
			validation.Match(slugPattern).Error("slug may only contain lowercase letters, numbers and hyphens")),
		validation.Field(&r.Excerpt, validation.Required.Error("excerpt is required"), notBlank, validation.Length(1, maxExcerptLength)),
		validation.Field(&r.Content, validation.Required.Error("content is required"), notBlank),
		validation.Field(&r.Category, validation.In(stringsToAny(entity.BlogCategories)...).Error("must be one of tax-tips, regulatory-updates, planning")),
	)
}

// UpdateBlogPostRequest is a partial edit. Publication state and authorship
// have their own workflow; sending them here is rejected.
type UpdateBlogPostRequest struct {
	Title       *string         `json:"title"`
	Slug        *string         `json:"slug"`
	Excerpt     *string         `json:"excerpt"`
	Content     *string         `json:"content"`
	Category    *string         `json:"category"`
	Published   json.RawMessage `json:"published"`
	PublishedAt json.RawMessage `json:"publishedAt"`
	AuthorID    json.RawMessage `json:"authorId"`
}

func (r UpdateBlogPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, notBlank, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Slug, validation.NilOrNotEmpty, validation.Length(1, maxSlugLength),
			validation.Match(slugPattern).Error("slug may only contain lowercase letters, numbers and hyphens")),
		validation.Field(&r.Excerpt, validation.NilOrNotEmpty, notBlank, validation.Length(1, maxExcerptLength)),
		validation.Field(&r.Content, validation.NilOrNotEmpty, notBlank),
		validation.Field(&r.Category, validation.NilOrNotEmpty, validation.In(stringsToAny(entity.BlogCategories)...).Error("must be one of tax-tips, regulatory-updates, planning")),
		validation.Field(&r.Published, validation.Nil.Error("use the publish endpoint to publish a post")),
		validation.Field(&r.PublishedAt, validation.Nil.Error("is set when the post is published")),
		validation.Field(&r.AuthorID, validation.Nil.Error("cannot be changed")),
	)
}

// Patch converts the request into a repository patch.
func (r UpdateBlogPostRequest) Patch() entity.BlogPostPatch {
	return entity.BlogPostPatch{
		Title:    r.Title,
		Slug:     r.Slug,
		Excerpt:  r.Excerpt,
		Content:  r.Content,
		Category: r.Category,
	}
}
