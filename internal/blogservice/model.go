package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

const blogColumns = `id, title, subtitle, description, category, image, is_published, author_email, author_name, created_at, updated_at, version`

func scanBlog(row interface{ Scan(...any) error }, b *Blog) error {
	return row.Scan(&b.ID, &b.Title, &b.Subtitle, &b.Description, &b.Category, &b.Image, &b.IsPublished, &b.AuthorEmail, &b.AuthorName, &b.CreatedAt, &b.UpdatedAt, &b.Version)
}

func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (title, subtitle, description, category, image, is_published, author_email, author_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		b.Title,
		b.Subtitle,
		b.Description,
		b.Category,
		b.Image,
		b.IsPublished,
		b.AuthorEmail,
		b.AuthorName,
	}

	return m.db.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt, &b.Version)
}

func (m *BlogModel) getBlogById(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE id = $1`

	var b Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, id), &b)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

// updateBlog updates the content fields of a blog. The author columns are
// stamped at creation and never written again.
func (m *BlogModel) updateBlog(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, subtitle = $2, description = $3, category = $4, image = $5, updated_at = now(), version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version, updated_at`

	err := m.db.QueryRowContext(ctx, query, b.Title, b.Subtitle, b.Description, b.Category, b.Image, b.ID, b.Version).Scan(&b.Version, &b.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

// togglePublish flips the publish flag atomically and returns the new state.
func (m *BlogModel) togglePublish(ctx context.Context, id int) (*Blog, error) {
	query := `
		UPDATE blogs
		SET is_published = NOT is_published, updated_at = now(), version = version + 1
		WHERE id = $1
		RETURNING ` + blogColumns

	var b Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, id), &b)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func (m *BlogModel) deleteBlog(ctx context.Context, id int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) getPublishedBlogs(ctx context.Context, limit, offset int) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE is_published = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	return m.queryBlogs(ctx, query, limit, offset)
}

func (m *BlogModel) getAllBlogs(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		ORDER BY created_at DESC`

	return m.queryBlogs(ctx, query)
}

func (m *BlogModel) getBlogsByAuthor(ctx context.Context, email string) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE lower(author_email) = lower($1)
		ORDER BY created_at DESC`

	return m.queryBlogs(ctx, query, email)
}

func (m *BlogModel) queryBlogs(ctx context.Context, query string, args ...any) ([]Blog, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []Blog
	for rows.Next() {
		var b Blog
		if err := scanBlog(rows, &b); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *BlogModel) getDashboard(ctx context.Context, email string) (*Dashboard, error) {
	var d Dashboard

	recent, err := m.queryBlogs(ctx, `
		SELECT `+blogColumns+`
		FROM blogs
		WHERE lower(author_email) = lower($1)
		ORDER BY created_at DESC
		LIMIT 5`, email)
	if err != nil {
		return nil, err
	}
	d.RecentBlogs = recent

	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE NOT is_published),
			(SELECT count(*) FROM comments c JOIN blogs b ON c.blog_id = b.id WHERE lower(b.author_email) = lower($1))
		FROM blogs
		WHERE lower(author_email) = lower($1)`

	err = m.db.QueryRowContext(ctx, query, email).Scan(&d.BlogCount, &d.DraftCount, &d.CommentCount)
	if err != nil {
		return nil, err
	}

	return &d, nil
}
