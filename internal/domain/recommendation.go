package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecommendationSource records how a recommendation link came to exist.
type RecommendationSource string

const (
	// SourceComputed marks links persisted by the recommender on a read that
	// found no stored plan.
	SourceComputed RecommendationSource = "computed"
	// SourceManual marks links the user appended to their plan themselves.
	SourceManual RecommendationSource = "manual"
)

// RecommendationLink attaches one base routine to a questionnaire answer.
// The set of links for an answer, ordered by Position, is the user's current
// plan. Links for an answer are deleted wholesale when the plan is
// regenerated; recomputation then happens lazily on the next read.
type RecommendationLink struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AnswerID  primitive.ObjectID   `bson:"answerId" json:"answerId"`
	RoutineID primitive.ObjectID   `bson:"routineId" json:"routineId"`
	Position  int                  `bson:"position" json:"position"`
	Source    RecommendationSource `bson:"source" json:"source"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}
