package domain

import (
	"time"
)

// Exercise is one entry of the shared exercise catalog. The numeric ID is the
// stable identifier of the upstream exercise dataset the catalog is seeded
// from, so it is supplied on creation rather than generated.
type Exercise struct {
	ID               int64     `bson:"_id" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Target           string    `bson:"target" json:"target"`       // primary muscle, e.g. "quads"
	Equipment        string    `bson:"equipment" json:"equipment"` // e.g. "barbell", "body weight"
	SecondaryMuscles []string  `bson:"secondaryMuscles,omitempty" json:"secondary_muscles"`
	GifURL           string    `bson:"gifUrl,omitempty" json:"gif_url"` // illustrative media, S3-hosted or upstream
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}
