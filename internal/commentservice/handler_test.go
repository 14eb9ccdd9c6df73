package commentservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inkpress/inkpress/internal/common"
)

type recordingProducer struct {
	published [][]byte
}

func (p *recordingProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	p.published = append(p.published, msg)
	return nil
}

func setupTestService(t *testing.T) (*CommentService, *recordingProducer, int) {
	db := common.TestDB("file://../../migrations", t)

	var blogID int
	err := db.QueryRow(`
		INSERT INTO blogs (title, author_email, author_name, is_published)
		VALUES ('Test Blog', 'writer@example.com', 'Test Writer', true)
		RETURNING id`).Scan(&blogID)
	if err != nil {
		t.Fatalf("could not seed blog: %v", err)
	}

	producer := &recordingProducer{}
	return NewCommentService(db, producer), producer, blogID
}

func TestAddComment(t *testing.T) {
	s, producer, blogID := setupTestService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := s.AddComment(ctx, &AddCommentRequest{
		BlogID:  blogID,
		Name:    "visitor",
		Content: "nice post",
	})
	assert.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.False(t, c.IsApproved)
	assert.Nil(t, c.AuthorEmail)
	assert.Len(t, producer.published, 1)
}

func TestAddCommentUnknownBlog(t *testing.T) {
	s, producer, blogID := setupTestService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.AddComment(ctx, &AddCommentRequest{
		BlogID:  blogID + 1000,
		Name:    "visitor",
		Content: "nice post",
	})
	assert.ErrorIs(t, err, ErrBlogNotFound)
	assert.Empty(t, producer.published)
}

func TestApprovedCommentsOnly(t *testing.T) {
	s, _, blogID := setupTestService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pending, err := s.AddComment(ctx, &AddCommentRequest{BlogID: blogID, Name: "visitor", Content: "pending"})
	assert.NoError(t, err)

	// a new comment is invisible until approved
	comments, err := s.GetApprovedComments(ctx, blogID)
	assert.NoError(t, err)
	assert.Empty(t, comments)

	assert.NoError(t, s.ApproveComment(ctx, pending.ID))

	comments, err = s.GetApprovedComments(ctx, blogID)
	assert.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, "pending", comments[0].Content)

	// the moderation list sees everything either way
	all, err := s.GetAllComments(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApproveCommentNotFound(t *testing.T) {
	s, _, _ := setupTestService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.ApproveComment(ctx, 9999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeletePaths(t *testing.T) {
	s, _, blogID := setupTestService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	email := "writer@example.com"
	owned, err := s.AddComment(ctx, &AddCommentRequest{BlogID: blogID, Name: "writer", Content: "mine", AuthorEmail: &email})
	assert.NoError(t, err)

	anonymous, err := s.AddComment(ctx, &AddCommentRequest{BlogID: blogID, Name: "visitor", Content: "anon"})
	assert.NoError(t, err)

	assert.NoError(t, s.DeleteOwnComment(ctx, owned.ID))
	assert.NoError(t, s.ModerationDeleteComment(ctx, anonymous.ID))

	err = s.DeleteOwnComment(ctx, owned.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
