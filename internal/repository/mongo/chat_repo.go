package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
)

const chatCollectionName = "chat_messages"

// mongoChatMessageRepository implements repository.ChatMessageRepository.
type mongoChatMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoChatMessageRepository creates a new chat history repository.
func NewMongoChatMessageRepository(db *mongo.Database) repository.ChatMessageRepository {
	return &mongoChatMessageRepository{
		collection: db.Collection(chatCollectionName),
	}
}

// Create inserts a new chat message.
func (r *mongoChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) (primitive.ObjectID, error) {
	if msg.GroupID == "" || msg.SenderID == primitive.NilObjectID || msg.Body == "" {
		return primitive.NilObjectID, errors.New("chat message group, sender, and body are required")
	}

	msg.ID = primitive.NewObjectID()
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByGroup retrieves the most recent limit messages of a group, returned
// oldest first for display.
func (r *mongoChatMessageRepository) GetByGroup(ctx context.Context, groupID string, limit int64) ([]domain.ChatMessage, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "sentAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"groupId": groupID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []domain.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the store; flip to chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// EnsureChatIndexes creates necessary indexes for the chat_messages collection.
func EnsureChatIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "groupId", Value: 1}, {Key: "sentAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
