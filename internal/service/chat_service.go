package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrEmptyMessage = errors.New("chat message body cannot be empty")
)

const defaultHistoryLimit = 50

// ChatPublisher fans a sent message out to realtime subscribers. History
// persistence does not depend on it succeeding.
type ChatPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ChatService persists group chat messages and publishes them for realtime
// delivery.
type ChatService interface {
	SendMessage(ctx context.Context, groupID string, senderID primitive.ObjectID, body string) (*domain.ChatMessage, error)
	History(ctx context.Context, groupID string, limit int64) ([]domain.ChatMessage, error)
}

type chatService struct {
	chatRepo  repository.ChatMessageRepository
	userRepo  repository.UserRepository
	publisher ChatPublisher
	logger    *zap.Logger
}

// NewChatService creates a new instance of chatService.
func NewChatService(chatRepo repository.ChatMessageRepository, userRepo repository.UserRepository, publisher ChatPublisher, logger *zap.Logger) ChatService {
	return &chatService{
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *chatService) SendMessage(ctx context.Context, groupID string, senderID primitive.ObjectID, body string) (*domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("sender not found")
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	msg := &domain.ChatMessage{
		GroupID:    groupID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Body:       body,
	}
	id, err := s.chatRepo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.ID = id

	// Fanout is best effort: a subscriber that misses the publish still sees
	// the message in history.
	payload, err := json.Marshal(msg)
	if err == nil {
		err = s.publisher.Publish(ctx, chatChannel(groupID), payload)
	}
	if err != nil {
		s.logger.Warn("chat fanout failed",
			zap.String("group", groupID),
			zap.Error(err),
		)
	}

	return msg, nil
}

func (s *chatService) History(ctx context.Context, groupID string, limit int64) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	messages, err := s.chatRepo.GetByGroup(ctx, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return messages, nil
}

func chatChannel(groupID string) string {
	return "chat:" + groupID
}

// redisChatPublisher implements ChatPublisher on a Redis pub/sub channel.
type redisChatPublisher struct {
	client *redis.Client
}

// NewRedisChatPublisher creates a ChatPublisher backed by Redis.
func NewRedisChatPublisher(client *redis.Client) ChatPublisher {
	return &redisChatPublisher{client: client}
}

func (p *redisChatPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}
