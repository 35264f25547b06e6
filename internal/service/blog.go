package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/normalize"
	"github.com/provisionexpertax/taxportal/internal/repository"
)

// BlogService manages posts and their publication.
type BlogService struct {
	repo repository.BlogRepository
}

// NewBlogService constructs a BlogService.
func NewBlogService(repo repository.BlogRepository) *BlogService {
	return &BlogService{repo: repo}
}

// Create stores a draft. The slug falls back to one derived from the title;
// authorId, when given, names an agent.
func (s *BlogService) Create(ctx context.Context, req dto.CreateBlogPostRequest) (*entity.BlogPost, error) {
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		req.Slug = normalize.Slug(req.Title)
	}
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	category := req.Category
	if category == "" {
		category = entity.DefaultBlogCategory
	}
	return s.repo.CreateBlogPost(ctx, entity.NewBlogPost{
		Title:    strings.TrimSpace(req.Title),
		Slug:     req.Slug,
		Excerpt:  strings.TrimSpace(req.Excerpt),
		Content:  req.Content,
		Category: category,
		AuthorID: normalize.OptionalText(req.AuthorID),
	})
}

// List returns posts newest first. Non-admin callers only ever see
// published posts.
func (s *BlogService) List(ctx context.Context, published *bool, admin bool) ([]entity.BlogPost, error) {
	if !admin {
		onlyPublished := true
		published = &onlyPublished
	}
	return s.repo.ListBlogPosts(ctx, published)
}

// GetBySlug resolves a post by slug. Drafts are hidden from non-admin callers.
func (s *BlogService) GetBySlug(ctx context.Context, slug string, admin bool) (*entity.BlogPost, error) {
	post, err := s.repo.GetBlogPostBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if !post.Published && !admin {
		return nil, repository.ErrBlogPostNotFound
	}
	return post, nil
}

// Update applies a partial edit.
func (s *BlogService) Update(ctx context.Context, id string, req dto.UpdateBlogPostRequest) (*entity.BlogPost, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrBlogPostNotFound
	}
	patch := req.Patch()
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if patch.Excerpt != nil {
		excerpt := strings.TrimSpace(*patch.Excerpt)
		patch.Excerpt = &excerpt
	}
	return s.repo.UpdateBlogPost(ctx, postID, patch)
}

// Publish marks a post as published.
func (s *BlogService) Publish(ctx context.Context, id string) (*entity.BlogPost, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrBlogPostNotFound
	}
	return s.repo.PublishBlogPost(ctx, postID)
}
