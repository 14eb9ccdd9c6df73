package mailservice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyPendingComments(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	mockLogger := new(MockLogger)

	expectedArgs := []interface{}{slog.Attr{Key: "comment_id", Value: slog.IntValue(7)}}
	mockLogger.On("Info", "comment notification sent", expectedArgs).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())

	s := &MailService{
		mb:        mockMC,
		m:         mockMailer,
		moderator: "moderator@example.com",
		logger:    mockLogger,
		ctx:       ctx,
		cancel:    cancel,
	}

	go s.NotifyPendingComments()

	time.Sleep(1 * time.Second)

	if mockMailer.IsCalled() {
		recipient := mockMailer.GetEmail()
		assert.Equal(t, "moderator@example.com", recipient, "expected the moderation address to be notified")
	}

	// verify that the logger.Info method was called
	mockLogger.AssertExpectations(t)

	t.Cleanup(func() {
		s.Close()
	})
}
