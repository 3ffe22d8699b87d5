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

const customRoutineCollectionName = "custom_routines"

// mongoCustomRoutineRepository implements repository.CustomRoutineRepository.
// Every read and delete filter includes the owner id, so one user can never
// see or touch another user's routines; there is no after-the-fact check.
type mongoCustomRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomRoutineRepository creates a new custom routine repository backed by MongoDB.
func NewMongoCustomRoutineRepository(db *mongo.Database) repository.CustomRoutineRepository {
	return &mongoCustomRoutineRepository{
		collection: db.Collection(customRoutineCollectionName),
	}
}

// Create inserts a new custom routine.
func (r *mongoCustomRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if routine.Name == "" {
		return primitive.NilObjectID, errors.New("routine name is required")
	}
	if routine.OwnerID == nil || *routine.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("custom routine owner is required")
	}

	routine.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, routine)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByIDAndOwner retrieves a custom routine only when it is owned by the
// given user. Absent and not-owned are indistinguishable to the caller.
func (r *mongoCustomRoutineRepository) GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Routine, error) {
	var routine domain.Routine
	filter := bson.M{"_id": id, "ownerId": ownerID}

	err := r.collection.FindOne(ctx, filter).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// GetByOwner retrieves all custom routines of a user, newest first.
func (r *mongoCustomRoutineRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Routine, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routines []domain.Routine
	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}

// Delete removes a custom routine, ensuring it belongs to the given owner.
func (r *mongoCustomRoutineRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "ownerId": ownerID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the routine didn't exist or it belongs to someone else; the
		// filter makes the two cases indistinguishable on purpose.
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCustomRoutineIndexes creates necessary indexes. Call during startup.
func EnsureCustomRoutineIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
