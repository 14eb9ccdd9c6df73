package commentservice

import (
	"database/sql"
	"time"

	"github.com/inkpress/inkpress/internal/common"
)

type Comment struct {
	ID     int    `json:"id"`
	BlogID int    `json:"blog_id"`
	Name   string `json:"name"`
	// AuthorEmail is nil for anonymous visitor comments, which have no
	// deletable owner and can only be removed through moderation.
	AuthorEmail *string   `json:"author_email"`
	Content     string    `json:"content"`
	IsApproved  bool      `json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentCreatedEvent is published to the broker whenever a comment enters
// the moderation queue.
type CommentCreatedEvent struct {
	CommentID int    `json:"comment_id"`
	BlogID    int    `json:"blog_id"`
	Name      string `json:"name"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m  *CommentModel
	mb common.MessageProducer
}
