package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/service"
)

func TestTagRecommender_RanksByTagMatch(t *testing.T) {
	ctx := context.Background()
	routineRepo := &fakeRoutineRepo{}

	strength := &domain.Routine{Slug: "sl", Name: "Strong Lifts", Goal: "strength", Experience: "beginner"}
	cardio := &domain.Routine{Slug: "c5", Name: "Couch to 5k", Goal: "endurance", Experience: "beginner"}
	machines := &domain.Routine{Slug: "gm", Name: "Gym Machines", Goal: "strength", Equipment: []string{"machine"}}
	for _, r := range []*domain.Routine{strength, cardio, machines} {
		_, err := routineRepo.Create(ctx, r)
		require.NoError(t, err)
	}

	rec := service.NewTagRecommender(routineRepo)
	ids, err := rec.Recommend(ctx, &domain.Answer{
		Goal:       "strength",
		Experience: "beginner",
		Equipment:  []string{"barbell"},
	})
	require.NoError(t, err)

	// Goal+experience beats goal alone; the machine routine needs equipment
	// the user lacks but still matches on goal.
	require.Len(t, ids, 3)
	assert.Equal(t, strength.ID, ids[0])
	assert.Equal(t, machines.ID, ids[1])
	assert.Equal(t, cardio.ID, ids[2])
}

func TestTagRecommender_NoMatchesIsEmpty(t *testing.T) {
	ctx := context.Background()
	routineRepo := &fakeRoutineRepo{}
	_, err := routineRepo.Create(ctx, &domain.Routine{
		Slug: "x", Name: "X", Goal: "endurance", Experience: "advanced",
		Equipment: []string{"rower"},
	})
	require.NoError(t, err)

	rec := service.NewTagRecommender(routineRepo)
	ids, err := rec.Recommend(ctx, &domain.Answer{Goal: "strength", Experience: "beginner"})
	require.NoError(t, err)
	assert.Empty(t, ids)
}
