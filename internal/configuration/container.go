package configuration

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Dhrutik-Patel/CodeChat/internal/auth"
	"github.com/Dhrutik-Patel/CodeChat/internal/db"
	"github.com/Dhrutik-Patel/CodeChat/internal/handler"
	"github.com/Dhrutik-Patel/CodeChat/internal/hub"
	"github.com/Dhrutik-Patel/CodeChat/internal/model"
	"github.com/Dhrutik-Patel/CodeChat/internal/repo"
	"github.com/Dhrutik-Patel/CodeChat/internal/service"
)

const defaultConfigPath = "./config/config.dev.json"

type Container struct {
	UserHandler    handler.UserHandler
	ChatHandler    handler.ChatHandler
	MessageHandler handler.MessageHandler
	Hub            *hub.Hub
	Tokens         *auth.TokenManager
	Config         Config
	Logger         *zap.Logger

	// private - for cleanup
	mongoClient *mongo.Database
}

func BuildContainer() (*Container, error) {
	configPath := os.Getenv("CODECHAT_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	con, err := db.OpenConnection(config.ChatDatabase.Uri, config.ChatDatabase.Database)
	if err != nil {
		return nil, err
	}

	logger, _ := zap.NewProduction()

	userRepo := repo.NewUserRepository(
		db.NewRepository[model.User](con, config.ChatDatabase.UsersCollection), logger)
	conversationRepo := repo.NewConversationRepository(
		db.NewRepository[model.Conversation](con, config.ChatDatabase.ConversationsCollection), logger)
	messageRepo := repo.NewMessageRepository(
		db.NewRepository[model.Message](con, config.ChatDatabase.MessagesCollection), logger)

	tokens := auth.NewTokenManager(config.Auth.JwtSecret, config.TokenLifetime())

	// The hub resolves fan-out targets from persisted membership; the
	// message service hands persisted messages back to the hub for fan-out.
	chatHub := hub.NewHub(conversationRepo, logger, config.Server.AllowedOrigins)

	userService := service.NewUserService(userRepo, tokens, logger)
	chatService := service.NewChatService(conversationRepo, userRepo, logger)
	messageService := service.NewMessageService(messageRepo, conversationRepo, userRepo, chatHub, logger)
	chatHub.SetMessageSender(messageService)

	return &Container{
		UserHandler:    handler.NewUserHandler(userService),
		ChatHandler:    handler.NewChatHandler(chatService),
		MessageHandler: handler.NewMessageHandler(messageService),
		Hub:            chatHub,
		Tokens:         tokens,
		Config:         *config,
		Logger:         logger,
		mongoClient:    con,
	}, nil
}

// Close gracefully shuts down all connections
func (c *Container) Close() error {
	// Stop the hub first (closes all WebSocket connections)
	if c.Hub != nil {
		c.Hub.Stop()
	}

	// Sync logger
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	// Close MongoDB connection pool
	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.mongoClient.Client().Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to close MongoDB connection: %w", err)
		}
	}

	return nil
}
