package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/inkpress/inkpress/internal/aiservice"
	"github.com/inkpress/inkpress/internal/blogservice"
	"github.com/inkpress/inkpress/internal/commentservice"
	"github.com/inkpress/inkpress/internal/common"
	"github.com/inkpress/inkpress/internal/mailservice"
	"github.com/inkpress/inkpress/internal/mediaservice"
	"github.com/inkpress/inkpress/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	codec          *userservice.TokenCodec
	userService    *userservice.UserService
	blogService    *blogservice.BlogService
	commentService *commentservice.CommentService
	mailService    *mailservice.MailService
	aiService      *aiservice.AIService
	mediaService   *mediaservice.MediaService
	broker         *common.MessageBroker
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// A missing signing secret must stop the process here, never degrade to
	// unsigned sessions.
	codec, err := userservice.NewTokenCodec(cfg.JWTSecret)
	if err != nil {
		logger.Error("failed to set up the token codec", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(common.DBConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Name:         cfg.DB.Name,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		MaxIdleTime:  15 * time.Minute,
	})
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	// Initialize the message broker
	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupCommentExchange(broker)
	if err != nil {
		logger.Error("failed to setup the comment exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	statics := []userservice.StaticAdmin{}
	if cfg.Admin.Email != "" {
		statics = append(statics, userservice.StaticAdmin{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			Name:     cfg.Admin.Name,
		})
	}

	allowlist := userservice.NewAllowlist(splitEmails(cfg.AllowedUserEmails))
	provider := userservice.NewHTTPIdentityProvider(cfg.FederatedUserinfoURL)

	userService, err := userservice.NewUserService(db, statics, allowlist, provider)
	if err != nil {
		logger.Error("failed to set up the user service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = userService.SnapshotAllowlist(context.Background())
	if err != nil {
		logger.Error("failed to snapshot the allowlist", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := &application{
		config:         cfg,
		logger:         logger,
		codec:          codec,
		userService:    userService,
		blogService:    blogservice.NewBlogService(db),
		commentService: commentservice.NewCommentService(db, broker),
		mailService:    mailservice.NewMailService(broker, cfg.Mail.Host, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, cfg.Mail.Moderator, cfg.Mail.Port, logger),
		aiService:      aiservice.NewAIService(cfg.AI.URL, cfg.AI.Key),
		mediaService:   mediaservice.NewMediaService(cfg.Media.URL, cfg.Media.Key, cfg.Media.Folder),
		broker:         broker,
	}

	// Initialize the consumer
	app.mailService.NotifyPendingComments()
	defer app.mailService.Close()

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func splitEmails(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	parts := strings.Split(csv, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}

	return emails
}
