package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/inkpress/inkpress/internal/common"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender, moderator string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(host, port, username, password, sender, NewTemplate()),
		moderator: moderator,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// NotifyPendingComments consumes comment.created events and emails the
// moderation address so new comments get reviewed. Runs until Close.
func (s *MailService) NotifyPendingComments() {
	msgs, err := s.mb.Consume(common.CommentCreatedKey, common.CommentExchange, common.CommentCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var data struct {
					CommentID int    `json:"comment_id"`
					BlogID    int    `json:"blog_id"`
					Name      string `json:"name"`
				}

				err := json.Unmarshal(msg.Body, &data)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					continue
				}

				payload := struct {
					CommentID  int
					BlogID     int
					AuthorName string
				}{
					CommentID:  data.CommentID,
					BlogID:     data.BlogID,
					AuthorName: data.Name,
				}

				// using exponential backoff with jitter
				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(s.moderator, payload, "comment_notification.html")
					if err == nil {
						s.logger.Info("comment notification sent", slog.Int("comment_id", data.CommentID))
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying comment notification", slog.Int("comment_id", data.CommentID), slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send comment notification", slog.Int("comment_id", data.CommentID))
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping NotifyPendingComments due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) Close() {
	s.cancel()
}
