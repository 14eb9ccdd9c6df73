package blogservice

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/inkpress/inkpress/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{
		m: newBlogModel(db),
		c: common.NewCache(time.Minute, 5*time.Minute),
	}
}

type CreateBlogRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	IsPublished bool   `json:"is_published"`
	AuthorEmail string `json:"-"`
	AuthorName  string `json:"-"`
}

// CreateBlog creates a draft or a published post. The author fields come from
// the verified caller identity, never from the request body.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	b := Blog{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: sanitizeHTML(req.Description),
		Category:    req.Category,
		Image:       req.Image,
		IsPublished: req.IsPublished,
		AuthorEmail: req.AuthorEmail,
		AuthorName:  req.AuthorName,
	}

	v := common.NewValidator()
	validatePublishFields(v, &b)
	validateAuthor(v, b.AuthorEmail)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.insert(ctx, &b); err != nil {
		return nil, err
	}

	s.invalidate()
	return &b, nil
}

func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	// the cache holds values, not pointers, so callers can never mutate a
	// cached entry through the returned record
	if cached, ok := s.c.Get(common.CacheKeyBlog(id)); ok {
		if b, ok := cached.(Blog); ok {
			return &b, nil
		}
	}

	b, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlog(id), *b)
	return b, nil
}

// GetPublishedBlogs returns the public feed, newest first. Default limit is
// 10 and default offset is 0.
func (s *BlogService) GetPublishedBlogs(ctx context.Context, limit, offset *int) ([]Blog, error) {
	l, o := 10, 0
	if limit != nil && *limit > 0 {
		l = *limit
	}
	if offset != nil && *offset > 0 {
		o = *offset
	}

	if cached, ok := s.c.Get(common.CacheKeyPublishedBlogs(l, o)); ok {
		if blogs, ok := cached.([]Blog); ok {
			return blogs, nil
		}
	}

	blogs, err := s.m.getPublishedBlogs(ctx, l, o)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPublishedBlogs(l, o), blogs)
	return blogs, nil
}

// GetAllBlogs returns every blog regardless of author or publish state. The
// caller is responsible for restricting this to admin read scope.
func (s *BlogService) GetAllBlogs(ctx context.Context) ([]Blog, error) {
	return s.m.getAllBlogs(ctx)
}

func (s *BlogService) GetBlogsByAuthor(ctx context.Context, email string) ([]Blog, error) {
	v := common.NewValidator()
	validateAuthor(v, email)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	// the model matches case-insensitively, so the key must too
	key := common.CacheKeyBlogsByAuthor(strings.ToLower(email))
	if cached, ok := s.c.Get(key); ok {
		if blogs, ok := cached.([]Blog); ok {
			return blogs, nil
		}
	}

	blogs, err := s.m.getBlogsByAuthor(ctx, email)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, blogs)
	return blogs, nil
}

// UpdateBlog updates the content fields of an existing blog. Ownership must
// already have been checked against the stored author by the caller.
func (s *BlogService) UpdateBlog(ctx context.Context, b *Blog) error {
	v := common.NewValidator()
	validateInt(v, b.ID, "id")
	validatePublishFields(v, b)
	if !v.Valid() {
		return v.ValidationError()
	}

	b.Description = sanitizeHTML(b.Description)

	if err := s.m.updateBlog(ctx, b); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlog(b.ID))
	s.invalidate()
	return nil
}

// TogglePublish flips the publish flag. Toggling twice restores the original
// state. A draft may only go live once every publish field is filled in.
func (s *BlogService) TogglePublish(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	current, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.IsPublished {
		next := *current
		next.IsPublished = true
		validatePublishFields(v, &next)
		if !v.Valid() {
			return nil, v.ValidationError()
		}
	}

	b, err := s.m.togglePublish(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyBlog(id))
	s.invalidate()
	return b, nil
}

// DeleteBlog removes a blog; its comments go with it.
func (s *BlogService) DeleteBlog(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.deleteBlog(ctx, id); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlog(id))
	s.invalidate()
	return nil
}

// GetDashboard summarizes the author's blogs and the comments on them.
func (s *BlogService) GetDashboard(ctx context.Context, email string) (*Dashboard, error) {
	v := common.NewValidator()
	validateAuthor(v, email)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyDashboard(email)); ok {
		if d, ok := cached.(*Dashboard); ok {
			return d, nil
		}
	}

	d, err := s.m.getDashboard(ctx, email)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyDashboard(email), d, 30*time.Second)
	return d, nil
}

// invalidate drops every cached entry after a mutation. The feed keys are
// parameterized by limit and offset, so a full flush is simpler than chasing
// them individually.
func (s *BlogService) invalidate() {
	s.c.Flush()
}
