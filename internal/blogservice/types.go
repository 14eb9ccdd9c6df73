package blogservice

import (
	"database/sql"
	"time"

	"github.com/inkpress/inkpress/internal/common"
)

type Blog struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	// Description is stored as sanitized HTML.
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	IsPublished bool      `json:"is_published"`
	AuthorEmail string    `json:"author_email"`
	AuthorName  string    `json:"author_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// Dashboard summarizes a single author's content.
type Dashboard struct {
	RecentBlogs  []Blog `json:"recent_blogs"`
	BlogCount    int    `json:"blog_count"`
	DraftCount   int    `json:"draft_count"`
	CommentCount int    `json:"comment_count"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
