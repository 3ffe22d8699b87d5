package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseRepository defines the interface for the exercise catalog.
// The catalog is read-only to everything but operator administration.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id int64) (*domain.Exercise, error)
	// GetByIDs returns the exercises matching the given ids, in no particular
	// order. Missing ids are simply absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
}

// RoutineRepository defines the interface for base (operator-authored,
// globally shared) routines.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	// List returns all base routines in store order.
	List(ctx context.Context) ([]domain.Routine, error)
	// GetByIDs returns the base routines matching the given id set. No outer
	// ordering is guaranteed; callers that care re-impose their own.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Routine, error)
}

// CustomRoutineRepository defines the interface for user-owned routines.
// Ownership is enforced in the query filter, never after the fact.
type CustomRoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Routine, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Routine, error)
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}

// RecommendationRepository defines the interface for recommendation links.
type RecommendationRepository interface {
	// Create inserts one link. A link for the same (answer, routine) pair
	// already existing yields ErrDuplicate.
	Create(ctx context.Context, link *domain.RecommendationLink) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, links []domain.RecommendationLink) error
	// GetByAnswerID returns the links for an answer sorted ascending by position.
	GetByAnswerID(ctx context.Context, answerID primitive.ObjectID) ([]domain.RecommendationLink, error)
	// Delete removes a single link. Absence is not an error.
	Delete(ctx context.Context, answerID, routineID primitive.ObjectID) error
	// DeleteByAnswerID removes every link for the answer.
	DeleteByAnswerID(ctx context.Context, answerID primitive.ObjectID) error
}

// AnswerRepository defines the interface for questionnaire answers.
type AnswerRepository interface {
	Create(ctx context.Context, answer *domain.Answer) (primitive.ObjectID, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Answer, error)
}

// WorkoutLogRepository defines the interface for workout results.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	// GetByOwnerAndExercise returns the owner's logs for one exercise sorted
	// ascending by performedAt, ready for a progress chart.
	GetByOwnerAndExercise(ctx context.Context, ownerID primitive.ObjectID, exerciseID int64) ([]domain.WorkoutLog, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutLog, error)
}

// ChatMessageRepository defines the interface for persisted chat history.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) (primitive.ObjectID, error)
	// GetByGroup returns the most recent messages of a group, oldest first,
	// capped at limit.
	GetByGroup(ctx context.Context, groupID string, limit int64) ([]domain.ChatMessage, error)
}
