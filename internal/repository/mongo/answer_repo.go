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

const answerCollectionName = "answers"

// mongoAnswerRepository implements repository.AnswerRepository.
type mongoAnswerRepository struct {
	collection *mongo.Collection
}

// NewMongoAnswerRepository creates a new questionnaire answer repository.
func NewMongoAnswerRepository(db *mongo.Database) repository.AnswerRepository {
	return &mongoAnswerRepository{
		collection: db.Collection(answerCollectionName),
	}
}

// Create inserts a new questionnaire answer.
func (r *mongoAnswerRepository) Create(ctx context.Context, answer *domain.Answer) (primitive.ObjectID, error) {
	if answer.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("answer owner is required")
	}

	answer.ID = primitive.NewObjectID()
	answer.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, answer)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByIDAndOwner retrieves an answer only when owned by the given user.
func (r *mongoAnswerRepository) GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Answer, error) {
	var answer domain.Answer
	filter := bson.M{"_id": id, "ownerId": ownerID}

	err := r.collection.FindOne(ctx, filter).Decode(&answer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// EnsureAnswerIndexes creates necessary indexes for the answers collection.
func EnsureAnswerIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
