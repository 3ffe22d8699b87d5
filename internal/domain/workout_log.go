package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PerformedSet is one completed set within a logged exercise.
type PerformedSet struct {
	Weight float64 `bson:"weight" json:"weight"` // kilograms; 0 for bodyweight work
	Reps   int     `bson:"reps" json:"reps"`
}

// WorkoutLog records the result of executing one exercise of a routine.
// The progress view reads these back as a date-ascending series per exercise.
type WorkoutLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	RoutineID   primitive.ObjectID `bson:"routineId" json:"routineId"`
	ExerciseID  int64              `bson:"exerciseId" json:"exerciseId"`
	Sets        []PerformedSet     `bson:"sets" json:"sets"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PerformedAt time.Time          `bson:"performedAt" json:"performedAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
