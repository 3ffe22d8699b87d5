package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/service"
)

func seedCatalog() *fakeExerciseRepo {
	return newFakeExerciseRepo(
		domain.Exercise{ID: 1, Name: "Push Up", Target: "chest", Equipment: "body weight"},
		domain.Exercise{ID: 2, Name: "Squat", Target: "quads", Equipment: "body weight"},
		domain.Exercise{ID: 3, Name: "Deadlift", Target: "hamstrings", Equipment: "barbell"},
	)
}

func TestRoutineService_GetRoutineByID_SortsExercises(t *testing.T) {
	ctx := context.Background()
	routineRepo := &fakeRoutineRepo{}
	svc := service.NewRoutineService(routineRepo, &fakeCustomRoutineRepo{}, seedCatalog())

	// Stored with Squat first (pos 0, 3x10) and Push Up second (pos 1, 2x8),
	// but the embedded array order is scrambled.
	routine := &domain.Routine{
		Slug: "starter",
		Name: "Starter",
		Exercises: []domain.RoutineExerciseLink{
			{ExerciseID: 1, Sets: 2, Reps: 8, Position: 1},
			{ExerciseID: 2, Sets: 3, Reps: 10, Position: 0},
		},
	}
	id, err := routineRepo.Create(ctx, routine)
	require.NoError(t, err)

	view, err := svc.GetRoutineByID(ctx, id)
	require.NoError(t, err)

	require.Len(t, view.Exercises, 2)
	assert.Equal(t, "Squat", view.Exercises[0].Name)
	assert.Equal(t, 3, view.Exercises[0].Sets)
	assert.Equal(t, 10, view.Exercises[0].Reps)
	assert.Equal(t, 0, view.Exercises[0].SortOrder)
	assert.Equal(t, "Push Up", view.Exercises[1].Name)
	assert.Equal(t, 2, view.Exercises[1].Sets)
	assert.Equal(t, 8, view.Exercises[1].Reps)
	assert.Equal(t, 1, view.Exercises[1].SortOrder)
}

func TestRoutineService_GetRoutineByID_NotFound(t *testing.T) {
	svc := service.NewRoutineService(&fakeRoutineRepo{}, &fakeCustomRoutineRepo{}, seedCatalog())

	_, err := svc.GetRoutineByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrRoutineNotFound)
}

func TestRoutineService_ListRoutines_IDSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	routineRepo := &fakeRoutineRepo{}
	svc := service.NewRoutineService(routineRepo, &fakeCustomRoutineRepo{}, seedCatalog())

	link := []domain.RoutineExerciseLink{{ExerciseID: 1, Sets: 3, Reps: 10, Position: 0}}
	a := &domain.Routine{Slug: "a", Name: "A", Exercises: link}
	b := &domain.Routine{Slug: "b", Name: "B", Exercises: link}
	c := &domain.Routine{Slug: "c", Name: "C", Exercises: link}
	for _, r := range []*domain.Routine{a, b, c} {
		_, err := routineRepo.Create(ctx, r)
		require.NoError(t, err)
	}

	views, err := svc.ListRoutines(ctx, []primitive.ObjectID{a.ID, c.ID})
	require.NoError(t, err)

	require.Len(t, views, 2)
	got := []string{views[0].ID, views[1].ID}
	assert.ElementsMatch(t, []string{a.ID.Hex(), c.ID.Hex()}, got)
	for _, v := range views {
		require.Len(t, v.Exercises, 1)
		assert.Equal(t, "Push Up", v.Exercises[0].Name)
	}
}

func TestRoutineService_ListRoutines_NilMeansAll(t *testing.T) {
	ctx := context.Background()
	routineRepo := &fakeRoutineRepo{}
	svc := service.NewRoutineService(routineRepo, &fakeCustomRoutineRepo{}, seedCatalog())

	for _, slug := range []string{"a", "b"} {
		_, err := routineRepo.Create(ctx, &domain.Routine{Slug: slug, Name: slug})
		require.NoError(t, err)
	}

	views, err := svc.ListRoutines(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestRoutineService_ListRoutines_StoreErrorIsFetchFailed(t *testing.T) {
	routineRepo := &fakeRoutineRepo{err: errors.New("connection reset")}
	svc := service.NewRoutineService(routineRepo, &fakeCustomRoutineRepo{}, seedCatalog())

	_, err := svc.ListRoutines(context.Background(), nil)
	require.ErrorIs(t, err, service.ErrFetchFailed)
	// The store's message rides along verbatim.
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRoutineService_DanglingExerciseFailsWholeRead(t *testing.T) {
	ctx := context.Background()
	routineRepo := &fakeRoutineRepo{}
	svc := service.NewRoutineService(routineRepo, &fakeCustomRoutineRepo{}, seedCatalog())

	_, err := routineRepo.Create(ctx, &domain.Routine{
		Slug: "broken",
		Name: "Broken",
		Exercises: []domain.RoutineExerciseLink{
			{ExerciseID: 2, Sets: 3, Reps: 10, Position: 0},
			{ExerciseID: 999, Sets: 3, Reps: 10, Position: 1},
		},
	})
	require.NoError(t, err)

	_, err = svc.ListRoutines(ctx, nil)
	assert.ErrorIs(t, err, service.ErrFetchFailed)
}

func TestRoutineService_CustomRoutineOwnership(t *testing.T) {
	ctx := context.Background()
	customRepo := &fakeCustomRoutineRepo{}
	svc := service.NewRoutineService(&fakeRoutineRepo{}, customRepo, seedCatalog())

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	view, err := svc.CreateCustomRoutine(ctx, owner, service.CreateCustomRoutineInput{
		Name: "My routine",
		Exercises: []service.RoutineExerciseInput{
			{ExerciseID: 2, Sets: 3, Reps: 10, Position: 0},
		},
	})
	require.NoError(t, err)
	assert.True(t, view.IsCustom)
	assert.Empty(t, view.Slug)

	id, err := primitive.ObjectIDFromHex(view.ID)
	require.NoError(t, err)

	// Owner sees it; anyone else gets NotFound, indistinguishable from absent.
	_, err = svc.GetCustomRoutineByID(ctx, id, owner)
	require.NoError(t, err)
	_, err = svc.GetCustomRoutineByID(ctx, id, stranger)
	assert.ErrorIs(t, err, service.ErrRoutineNotFound)

	err = svc.DeleteCustomRoutine(ctx, id, stranger)
	assert.ErrorIs(t, err, service.ErrRoutineNotFound)
	err = svc.DeleteCustomRoutine(ctx, id, owner)
	require.NoError(t, err)
}

func TestRoutineService_CreateCustomRoutine_FieldErrors(t *testing.T) {
	ctx := context.Background()
	svc := service.NewRoutineService(&fakeRoutineRepo{}, &fakeCustomRoutineRepo{}, seedCatalog())
	owner := primitive.NewObjectID()

	// Short name and no exercises: both fields reported at once.
	_, err := svc.CreateCustomRoutine(ctx, owner, service.CreateCustomRoutineInput{Name: "ab"})
	require.ErrorIs(t, err, service.ErrValidationFailed)
	var vErr *service.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "name")
	assert.Contains(t, vErr.Fields, "exercises")

	// Unknown exercise reference is a per-row field error.
	_, err = svc.CreateCustomRoutine(ctx, owner, service.CreateCustomRoutineInput{
		Name: "My routine",
		Exercises: []service.RoutineExerciseInput{
			{ExerciseID: 1, Sets: 3, Reps: 10, Position: 0},
			{ExerciseID: 777, Sets: 3, Reps: 10, Position: 1},
		},
	})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "exercises[1].exercise_id")
	assert.NotContains(t, vErr.Fields, "exercises[0].exercise_id")

	// Non-positive set and rep counts.
	_, err = svc.CreateCustomRoutine(ctx, owner, service.CreateCustomRoutineInput{
		Name: "My routine",
		Exercises: []service.RoutineExerciseInput{
			{ExerciseID: 1, Sets: 0, Reps: -1, Position: 0},
		},
	})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "exercises[0].sets")
	assert.Contains(t, vErr.Fields, "exercises[0].reps")
}

func TestRoutineService_CreateBaseRoutine(t *testing.T) {
	ctx := context.Background()
	routineRepo := &fakeRoutineRepo{}
	svc := service.NewRoutineService(routineRepo, &fakeCustomRoutineRepo{}, seedCatalog())

	view, err := svc.CreateBaseRoutine(ctx, service.CreateBaseRoutineInput{
		Slug:       "push-pull",
		Name:       "Push Pull",
		Goal:       "strength",
		Experience: "beginner",
		Exercises: []service.RoutineExerciseInput{
			{ExerciseID: 3, Sets: 5, Reps: 5, Position: 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "push-pull", view.Slug)
	assert.False(t, view.IsCustom)

	_, err = svc.CreateBaseRoutine(ctx, service.CreateBaseRoutineInput{
		Name:      "No Slug",
		Exercises: []service.RoutineExerciseInput{{ExerciseID: 1, Sets: 1, Reps: 1, Position: 0}},
	})
	var vErr *service.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "slug")
}
