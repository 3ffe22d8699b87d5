package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer is one submitted questionnaire response. Recommendations are keyed
// by answer ID, so a user re-taking the questionnaire starts a fresh plan.
type Answer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Goal        string             `bson:"goal" json:"goal"`             // e.g. "strength", "hypertrophy", "endurance"
	Experience  string             `bson:"experience" json:"experience"` // e.g. "beginner", "intermediate", "advanced"
	DaysPerWeek int                `bson:"daysPerWeek" json:"daysPerWeek"`
	Equipment   []string           `bson:"equipment,omitempty" json:"equipment"` // equipment available to the user
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
