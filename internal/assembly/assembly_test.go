package assembly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/assembly"
	"fitrack/routine-app/internal/domain"
)

func catalog() map[int64]domain.Exercise {
	return map[int64]domain.Exercise{
		1: {ID: 1, Name: "Push Up", Target: "chest", Equipment: "body weight"},
		2: {ID: 2, Name: "Squat", Target: "quads", Equipment: "body weight"},
		3: {ID: 3, Name: "Deadlift", Target: "hamstrings", Equipment: "barbell", SecondaryMuscles: []string{"glutes", "lower back"}},
	}
}

func TestAssembleRoutine_SortsByPosition(t *testing.T) {
	header := assembly.Header{ID: primitive.NewObjectID().Hex(), Slug: "full-body", Name: "Full Body"}
	// Storage order deliberately scrambled: positions 2, 0, 1.
	links := []domain.RoutineExerciseLink{
		{ExerciseID: 3, Sets: 1, Reps: 5, Position: 2},
		{ExerciseID: 2, Sets: 3, Reps: 10, Position: 0},
		{ExerciseID: 1, Sets: 2, Reps: 8, Position: 1},
	}

	view, err := assembly.AssembleRoutine(header, links, catalog())
	require.NoError(t, err)

	require.Len(t, view.Exercises, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{
		view.Exercises[0].SortOrder,
		view.Exercises[1].SortOrder,
		view.Exercises[2].SortOrder,
	})
	assert.Equal(t, "Squat", view.Exercises[0].Name)
	assert.Equal(t, "Push Up", view.Exercises[1].Name)
	assert.Equal(t, "Deadlift", view.Exercises[2].Name)
}

func TestAssembleRoutine_NonContiguousPositionsPreserved(t *testing.T) {
	header := assembly.Header{ID: "r1", Name: "Sparse"}
	links := []domain.RoutineExerciseLink{
		{ExerciseID: 1, Sets: 3, Reps: 10, Position: 40},
		{ExerciseID: 2, Sets: 3, Reps: 10, Position: 10},
	}

	view, err := assembly.AssembleRoutine(header, links, catalog())
	require.NoError(t, err)

	require.Len(t, view.Exercises, 2)
	assert.Equal(t, 10, view.Exercises[0].SortOrder)
	assert.Equal(t, 40, view.Exercises[1].SortOrder)
	assert.Equal(t, "Squat", view.Exercises[0].Name)
}

func TestAssembleRoutine_MergesLinkOverrides(t *testing.T) {
	// Catalog has {1: Push Up, 2: Squat}; the routine links Squat first with
	// 3x10 and Push Up second with 2x8.
	header := assembly.Header{ID: "r1", Slug: "starter", Name: "Starter"}
	links := []domain.RoutineExerciseLink{
		{ExerciseID: 2, Sets: 3, Reps: 10, Position: 0},
		{ExerciseID: 1, Sets: 2, Reps: 8, Position: 1},
	}

	view, err := assembly.AssembleRoutine(header, links, catalog())
	require.NoError(t, err)

	require.Len(t, view.Exercises, 2)
	first, second := view.Exercises[0], view.Exercises[1]
	assert.Equal(t, "Squat", first.Name)
	assert.Equal(t, 3, first.Sets)
	assert.Equal(t, 10, first.Reps)
	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, "Push Up", second.Name)
	assert.Equal(t, 2, second.Sets)
	assert.Equal(t, 8, second.Reps)
	assert.Equal(t, 1, second.SortOrder)
}

func TestAssembleRoutine_UnknownExerciseFailsWhole(t *testing.T) {
	header := assembly.Header{ID: "r1", Name: "Broken"}
	links := []domain.RoutineExerciseLink{
		{ExerciseID: 2, Sets: 3, Reps: 10, Position: 0},
		{ExerciseID: 99, Sets: 3, Reps: 10, Position: 1},
	}

	_, err := assembly.AssembleRoutine(header, links, catalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")
}

func TestAssembleRoutine_CustomRoutineShape(t *testing.T) {
	header := assembly.Header{ID: "r1", Slug: "should-not-appear", Name: "Mine", Description: "my own", IsCustom: true}

	view, err := assembly.AssembleRoutine(header, nil, catalog())
	require.NoError(t, err)

	assert.True(t, view.IsCustom)
	assert.Empty(t, view.Slug)
	require.NotNil(t, view.Description)
	assert.Equal(t, "my own", *view.Description)
	assert.NotNil(t, view.Exercises)
	assert.Len(t, view.Exercises, 0)
}

func TestAssembleRoutine_EmptyDescriptionIsNull(t *testing.T) {
	view, err := assembly.AssembleRoutine(assembly.Header{ID: "r1", Name: "NoDesc"}, nil, catalog())
	require.NoError(t, err)
	assert.Nil(t, view.Description)
}

func TestCatalogIDs_Deduplicates(t *testing.T) {
	routines := []domain.Routine{
		{Exercises: []domain.RoutineExerciseLink{{ExerciseID: 1}, {ExerciseID: 2}}},
		{Exercises: []domain.RoutineExerciseLink{{ExerciseID: 2}, {ExerciseID: 3}}},
	}
	assert.ElementsMatch(t, []int64{1, 2, 3}, assembly.CatalogIDs(routines))
}
