package commentservice

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/inkpress/inkpress/internal/common"
)

func NewCommentService(db *sql.DB, mb common.MessageProducer) *CommentService {
	return &CommentService{
		m:  newCommentModel(db),
		mb: mb,
	}
}

type AddCommentRequest struct {
	BlogID  int    `json:"blog_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	// AuthorEmail is the verified caller email, or nil for anonymous
	// visitors. It is never taken from the request body.
	AuthorEmail *string `json:"-"`
}

// AddComment creates a comment in the moderation queue. Every new comment
// starts unapproved, and a comment.created event notifies the moderators.
func (s *CommentService) AddComment(ctx context.Context, req *AddCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, req.BlogID, "blog_id")
	validateCommentName(v, req.Name)
	validateContent(v, req.Content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c := Comment{
		BlogID:      req.BlogID,
		Name:        req.Name,
		Content:     req.Content,
		AuthorEmail: req.AuthorEmail,
	}

	if err := s.m.insert(ctx, &c); err != nil {
		return nil, err
	}

	if s.mb != nil {
		event, err := json.Marshal(CommentCreatedEvent{CommentID: c.ID, BlogID: c.BlogID, Name: c.Name})
		if err != nil {
			return nil, err
		}

		err = s.mb.Publish(ctx, event, common.CommentCreatedKey, common.CommentExchange)
		if err != nil {
			return nil, err
		}
	}

	return &c, nil
}

func (s *CommentService) GetCommentByID(ctx context.Context, id int) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getCommentById(ctx, id)
}

// GetApprovedComments returns the public comment list of a blog. Pending
// comments never appear here.
func (s *CommentService) GetApprovedComments(ctx context.Context, blogID int) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getApprovedComments(ctx, blogID)
}

// GetAllComments returns every comment, pending included, for the moderation
// dashboard.
func (s *CommentService) GetAllComments(ctx context.Context) ([]Comment, error) {
	return s.m.getAllComments(ctx)
}

// ApproveComment makes a comment publicly visible. Admin-gated by the caller.
func (s *CommentService) ApproveComment(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.approve(ctx, id)
}

// DeleteOwnComment removes a comment on behalf of its author. The caller has
// already verified authorship against the stored author email.
func (s *CommentService) DeleteOwnComment(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, id)
}

// ModerationDeleteComment removes a comment as a moderation action. This is a
// deliberately separate operation from DeleteOwnComment: the admin-gated path
// and the author path must never share an authorization check.
func (s *CommentService) ModerationDeleteComment(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, id)
}
