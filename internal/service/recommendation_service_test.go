package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/service"
)

type recFixture struct {
	owner      primitive.ObjectID
	answerID   primitive.ObjectID
	routineIDs []primitive.ObjectID

	answerRepo  *fakeAnswerRepo
	recRepo     *fakeRecommendationRepo
	routineRepo *fakeRoutineRepo
	recommender *fixedRecommender
	svc         service.RecommendationService
}

// newRecFixture seeds an owner with one answer and n base routines.
func newRecFixture(t *testing.T, n int) *recFixture {
	t.Helper()
	ctx := context.Background()

	f := &recFixture{
		owner:       primitive.NewObjectID(),
		answerRepo:  newFakeAnswerRepo(),
		recRepo:     &fakeRecommendationRepo{},
		routineRepo: &fakeRoutineRepo{},
		recommender: &fixedRecommender{},
	}

	answer := &domain.Answer{OwnerID: f.owner, Goal: "strength"}
	id, err := f.answerRepo.Create(ctx, answer)
	require.NoError(t, err)
	f.answerID = id

	link := []domain.RoutineExerciseLink{{ExerciseID: 1, Sets: 3, Reps: 10, Position: 0}}
	for i := 0; i < n; i++ {
		routine := &domain.Routine{Slug: string(rune('a' + i)), Name: string(rune('A' + i)), Exercises: link}
		_, err := f.routineRepo.Create(ctx, routine)
		require.NoError(t, err)
		f.routineIDs = append(f.routineIDs, routine.ID)
	}

	routineSvc := service.NewRoutineService(f.routineRepo, &fakeCustomRoutineRepo{}, seedCatalog())
	f.svc = service.NewRecommendationService(f.answerRepo, f.recRepo, routineSvc, f.recommender)
	return f
}

func TestRecommendationService_ListOrdersByLinkPosition(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t, 2)
	r1, r2 := f.routineIDs[0], f.routineIDs[1]

	// r1 stored at position 1, r2 at position 0: the plan order must win
	// over the store's fetch order.
	_, err := f.recRepo.Create(ctx, &domain.RecommendationLink{AnswerID: f.answerID, RoutineID: r1, Position: 1})
	require.NoError(t, err)
	_, err = f.recRepo.Create(ctx, &domain.RecommendationLink{AnswerID: f.answerID, RoutineID: r2, Position: 0})
	require.NoError(t, err)

	views, err := f.svc.ListRecommendedRoutines(ctx, f.owner, f.answerID)
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, r2.Hex(), views[0].ID)
	assert.Equal(t, r1.Hex(), views[1].ID)
}

func TestRecommendationService_LazyComputePersistsPlan(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t, 3)
	f.recommender.ids = []primitive.ObjectID{f.routineIDs[2], f.routineIDs[0]}

	views, err := f.svc.ListRecommendedRoutines(ctx, f.owner, f.answerID)
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, f.routineIDs[2].Hex(), views[0].ID)
	assert.Equal(t, f.routineIDs[0].Hex(), views[1].ID)

	// The computed plan is now persisted with the recommender's ranking.
	links, err := f.recRepo.GetByAnswerID(ctx, f.answerID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, f.routineIDs[2], links[0].RoutineID)
	assert.Equal(t, 0, links[0].Position)
	assert.Equal(t, domain.SourceComputed, links[0].Source)
}

func TestRecommendationService_EmptyComputationIsEmptyList(t *testing.T) {
	f := newRecFixture(t, 1)
	// recommender yields nothing

	views, err := f.svc.ListRecommendedRoutines(context.Background(), f.owner, f.answerID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestRecommendationService_AppendDuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t, 1)
	r := f.routineIDs[0]

	require.NoError(t, f.svc.AppendRecommendation(ctx, f.owner, f.answerID, r))
	err := f.svc.AppendRecommendation(ctx, f.owner, f.answerID, r)
	assert.ErrorIs(t, err, service.ErrConflict)

	links, err := f.recRepo.GetByAnswerID(ctx, f.answerID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestRecommendationService_AppendPositions(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t, 2)

	// First append of an empty plan lands at 0, the next at max+1.
	require.NoError(t, f.svc.AppendRecommendation(ctx, f.owner, f.answerID, f.routineIDs[0]))
	require.NoError(t, f.svc.AppendRecommendation(ctx, f.owner, f.answerID, f.routineIDs[1]))

	links, err := f.recRepo.GetByAnswerID(ctx, f.answerID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, 0, links[0].Position)
	assert.Equal(t, 1, links[1].Position)
	assert.Equal(t, domain.SourceManual, links[0].Source)
}

func TestRecommendationService_AppendUnknownRoutine(t *testing.T) {
	f := newRecFixture(t, 0)

	err := f.svc.AppendRecommendation(context.Background(), f.owner, f.answerID, primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrRoutineNotFound)
}

func TestRecommendationService_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t, 1)
	r := f.routineIDs[0]

	require.NoError(t, f.svc.AppendRecommendation(ctx, f.owner, f.answerID, r))
	require.NoError(t, f.svc.RemoveRecommendation(ctx, f.owner, f.answerID, r))
	// Removing the already-removed link still succeeds.
	require.NoError(t, f.svc.RemoveRecommendation(ctx, f.owner, f.answerID, r))
}

func TestRecommendationService_RegenerateClearsPlan(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t, 2)

	require.NoError(t, f.svc.AppendRecommendation(ctx, f.owner, f.answerID, f.routineIDs[0]))
	require.NoError(t, f.svc.AppendRecommendation(ctx, f.owner, f.answerID, f.routineIDs[1]))

	require.NoError(t, f.svc.RegeneratePlan(ctx, f.owner, f.answerID))

	// Regenerate only deletes; with nothing to recompute the plan stays
	// empty until a new computation or append.
	views, err := f.svc.ListRecommendedRoutines(ctx, f.owner, f.answerID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestRecommendationService_AnswerOwnershipEnforced(t *testing.T) {
	f := newRecFixture(t, 1)
	stranger := primitive.NewObjectID()

	_, err := f.svc.ListRecommendedRoutines(context.Background(), stranger, f.answerID)
	assert.ErrorIs(t, err, service.ErrAnswerNotFound)

	err = f.svc.RegeneratePlan(context.Background(), stranger, f.answerID)
	assert.ErrorIs(t, err, service.ErrAnswerNotFound)
}
