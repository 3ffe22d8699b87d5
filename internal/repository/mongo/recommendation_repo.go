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

const recommendationCollectionName = "recommendation_links"

// mongoRecommendationRepository implements repository.RecommendationRepository.
// A unique compound index on (answerId, routineId) turns Create into a
// conditional insert: two concurrent appends of the same pair race at the
// index, not in application code, and the loser gets ErrDuplicate.
type mongoRecommendationRepository struct {
	collection *mongo.Collection
}

// NewMongoRecommendationRepository creates a new recommendation link repository.
func NewMongoRecommendationRepository(db *mongo.Database) repository.RecommendationRepository {
	return &mongoRecommendationRepository{
		collection: db.Collection(recommendationCollectionName),
	}
}

// Create inserts a single recommendation link.
func (r *mongoRecommendationRepository) Create(ctx context.Context, link *domain.RecommendationLink) (primitive.ObjectID, error) {
	if link.AnswerID == primitive.NilObjectID || link.RoutineID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("answer ID and routine ID are required")
	}

	link.ID = primitive.NewObjectID()
	link.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, link)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// CreateMany inserts a batch of links, used when persisting a freshly
// computed plan.
func (r *mongoRecommendationRepository) CreateMany(ctx context.Context, links []domain.RecommendationLink) error {
	if len(links) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(links))
	for i := range links {
		links[i].ID = primitive.NewObjectID()
		links[i].CreatedAt = now
		docs[i] = links[i]
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByAnswerID retrieves all links for an answer sorted ascending by position.
func (r *mongoRecommendationRepository) GetByAnswerID(ctx context.Context, answerID primitive.ObjectID) ([]domain.RecommendationLink, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"answerId": answerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []domain.RecommendationLink
	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// Delete removes one link. Deleting a link that is already gone succeeds.
func (r *mongoRecommendationRepository) Delete(ctx context.Context, answerID, routineID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"answerId": answerID, "routineId": routineID})
	return err
}

// DeleteByAnswerID removes every link belonging to the answer.
func (r *mongoRecommendationRepository) DeleteByAnswerID(ctx context.Context, answerID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"answerId": answerID})
	return err
}

// EnsureRecommendationIndexes creates necessary indexes. The unique compound
// index is load-bearing: it is what makes appends conditional inserts.
func EnsureRecommendationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "answerId", Value: 1}, {Key: "routineId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "answerId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
