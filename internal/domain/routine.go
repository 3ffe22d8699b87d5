package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineExerciseLink attaches one catalog exercise to a routine with the
// routine-specific set/rep counts and display position. Links have no identity
// of their own: they live and die embedded in their parent routine document.
// Position defines display order within the routine; values are unique per
// routine but not required to be contiguous, and the storage order of the
// embedded array is not trusted.
type RoutineExerciseLink struct {
	ExerciseID int64 `bson:"exerciseId" json:"exerciseId"`
	Sets       int   `bson:"sets" json:"sets"`
	Reps       int   `bson:"reps" json:"reps"`
	Position   int   `bson:"position" json:"position"`
}

// Routine is a workout template: a header plus an embedded collection of
// exercise links. Two variants share this shape:
//
//   - base routine: operator-authored, globally shared, carries a slug and
//     recommendation tags, no owner;
//   - custom routine: user-authored, owned by exactly one user, no slug.
//
// They live in separate collections but are assembled identically for the UI.
type Routine struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	Slug        string                `bson:"slug,omitempty" json:"slug,omitempty"` // base routines only
	Name        string                `bson:"name" json:"name"`
	Description string                `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     *primitive.ObjectID   `bson:"ownerId,omitempty" json:"ownerId,omitempty"` // custom routines only
	Exercises   []RoutineExerciseLink `bson:"exercises" json:"exercises"`

	// Recommendation tags, set on base routines and matched against
	// questionnaire answers by the recommender.
	Goal        string   `bson:"goal,omitempty" json:"goal,omitempty"`
	Experience  string   `bson:"experience,omitempty" json:"experience,omitempty"`
	DaysPerWeek int      `bson:"daysPerWeek,omitempty" json:"daysPerWeek,omitempty"`
	Equipment   []string `bson:"equipment,omitempty" json:"equipment,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsCustom reports whether the routine is user-owned.
func (r *Routine) IsCustom() bool {
	return r.OwnerID != nil
}
