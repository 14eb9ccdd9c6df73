package commentservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrBlogNotFound   = errors.New("blog does not exist")
)

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func foreignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (blog_id, name, author_email, content, is_approved)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, is_approved, created_at`

	err := m.db.QueryRowContext(ctx, query, c.BlogID, c.Name, c.AuthorEmail, c.Content).Scan(&c.ID, &c.IsApproved, &c.CreatedAt)
	if err != nil {
		switch {
		case foreignKeyError(err, "comments_blog_id_fkey"):
			return ErrBlogNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) getCommentById(ctx context.Context, id int) (*Comment, error) {
	query := `
		SELECT id, blog_id, name, author_email, content, is_approved, created_at
		FROM comments
		WHERE id = $1`

	var c Comment
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.BlogID, &c.Name, &c.AuthorEmail, &c.Content, &c.IsApproved, &c.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

// getApprovedComments returns the publicly visible comments of a blog.
func (m *CommentModel) getApprovedComments(ctx context.Context, blogID int) ([]Comment, error) {
	query := `
		SELECT id, blog_id, name, author_email, content, is_approved, created_at
		FROM comments
		WHERE blog_id = $1 AND is_approved = true
		ORDER BY created_at DESC`

	return m.queryComments(ctx, query, blogID)
}

func (m *CommentModel) getAllComments(ctx context.Context) ([]Comment, error) {
	query := `
		SELECT id, blog_id, name, author_email, content, is_approved, created_at
		FROM comments
		ORDER BY created_at DESC`

	return m.queryComments(ctx, query)
}

func (m *CommentModel) queryComments(ctx context.Context, query string, args ...any) ([]Comment, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.BlogID, &c.Name, &c.AuthorEmail, &c.Content, &c.IsApproved, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *CommentModel) approve(ctx context.Context, id int) error {
	query := `
		UPDATE comments
		SET is_approved = true
		WHERE id = $1`

	return m.execOne(ctx, query, id)
}

func (m *CommentModel) delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM comments
		WHERE id = $1`

	return m.execOne(ctx, query, id)
}

func (m *CommentModel) execOne(ctx context.Context, query string, args ...any) error {
	res, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}
