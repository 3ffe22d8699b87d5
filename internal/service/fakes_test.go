package service_test

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
)

// In-memory repository fakes. Each fake can be primed with an err to make
// every call fail, for exercising the fetch-failure paths.

type fakeExerciseRepo struct {
	exercises map[int64]domain.Exercise
	err       error
}

func newFakeExerciseRepo(exercises ...domain.Exercise) *fakeExerciseRepo {
	r := &fakeExerciseRepo{exercises: make(map[int64]domain.Exercise)}
	for _, ex := range exercises {
		r.exercises[ex.ID] = ex
	}
	return r
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.exercises[exercise.ID]; ok {
		return repository.ErrDuplicate
	}
	r.exercises[exercise.ID] = *exercise
	return nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id int64) (*domain.Exercise, error) {
	if r.err != nil {
		return nil, r.err
	}
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ex, nil
}

func (r *fakeExerciseRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Exercise, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Exercise
	seen := map[int64]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if ex, ok := r.exercises[id]; ok {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Exercise
	for _, ex := range r.exercises {
		out = append(out, ex)
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	r.exercises[exercise.ID] = *exercise
	return nil
}

type fakeRoutineRepo struct {
	routines []domain.Routine // store order
	err      error
}

func (r *fakeRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	routine.ID = primitive.NewObjectID()
	r.routines = append(r.routines, *routine)
	return routine.ID, nil
}

func (r *fakeRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, routine := range r.routines {
		if routine.ID == id {
			rt := routine
			return &rt, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRoutineRepo) List(_ context.Context) ([]domain.Routine, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.Routine, len(r.routines))
	copy(out, r.routines)
	return out, nil
}

func (r *fakeRoutineRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Routine, error) {
	if r.err != nil {
		return nil, r.err
	}
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	// Store order, not request order: callers must not rely on outer
	// ordering from an id-set fetch.
	var out []domain.Routine
	for _, routine := range r.routines {
		if want[routine.ID] {
			out = append(out, routine)
		}
	}
	return out, nil
}

type fakeCustomRoutineRepo struct {
	routines []domain.Routine
	err      error
}

func (r *fakeCustomRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	routine.ID = primitive.NewObjectID()
	r.routines = append(r.routines, *routine)
	return routine.ID, nil
}

func (r *fakeCustomRoutineRepo) GetByIDAndOwner(_ context.Context, id, ownerID primitive.ObjectID) (*domain.Routine, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, routine := range r.routines {
		if routine.ID == id && routine.OwnerID != nil && *routine.OwnerID == ownerID {
			rt := routine
			return &rt, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCustomRoutineRepo) GetByOwner(_ context.Context, ownerID primitive.ObjectID) ([]domain.Routine, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Routine
	for _, routine := range r.routines {
		if routine.OwnerID != nil && *routine.OwnerID == ownerID {
			out = append(out, routine)
		}
	}
	return out, nil
}

func (r *fakeCustomRoutineRepo) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	if r.err != nil {
		return r.err
	}
	for i, routine := range r.routines {
		if routine.ID == id && routine.OwnerID != nil && *routine.OwnerID == ownerID {
			r.routines = append(r.routines[:i], r.routines[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeRecommendationRepo struct {
	links []domain.RecommendationLink
	err   error
}

func (r *fakeRecommendationRepo) Create(_ context.Context, link *domain.RecommendationLink) (primitive.ObjectID, error) {
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	for _, existing := range r.links {
		if existing.AnswerID == link.AnswerID && existing.RoutineID == link.RoutineID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	link.ID = primitive.NewObjectID()
	r.links = append(r.links, *link)
	return link.ID, nil
}

func (r *fakeRecommendationRepo) CreateMany(ctx context.Context, links []domain.RecommendationLink) error {
	if r.err != nil {
		return r.err
	}
	for i := range links {
		if _, err := r.Create(ctx, &links[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRecommendationRepo) GetByAnswerID(_ context.Context, answerID primitive.ObjectID) ([]domain.RecommendationLink, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.RecommendationLink
	for _, link := range r.links {
		if link.AnswerID == answerID {
			out = append(out, link)
		}
	}
	// position ascending, matching the repository contract
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Position > out[j].Position; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}

func (r *fakeRecommendationRepo) Delete(_ context.Context, answerID, routineID primitive.ObjectID) error {
	if r.err != nil {
		return r.err
	}
	for i, link := range r.links {
		if link.AnswerID == answerID && link.RoutineID == routineID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return nil
		}
	}
	return nil // idempotent
}

func (r *fakeRecommendationRepo) DeleteByAnswerID(_ context.Context, answerID primitive.ObjectID) error {
	if r.err != nil {
		return r.err
	}
	var kept []domain.RecommendationLink
	for _, link := range r.links {
		if link.AnswerID != answerID {
			kept = append(kept, link)
		}
	}
	r.links = kept
	return nil
}

type fakeAnswerRepo struct {
	answers map[primitive.ObjectID]domain.Answer
	err     error
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[primitive.ObjectID]domain.Answer)}
}

func (r *fakeAnswerRepo) Create(_ context.Context, answer *domain.Answer) (primitive.ObjectID, error) {
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	answer.ID = primitive.NewObjectID()
	r.answers[answer.ID] = *answer
	return answer.ID, nil
}

func (r *fakeAnswerRepo) GetByIDAndOwner(_ context.Context, id, ownerID primitive.ObjectID) (*domain.Answer, error) {
	if r.err != nil {
		return nil, r.err
	}
	answer, ok := r.answers[id]
	if !ok || answer.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &answer, nil
}

// fixedRecommender returns a canned ranking regardless of the answer.
type fixedRecommender struct {
	ids []primitive.ObjectID
	err error
}

func (r *fixedRecommender) Recommend(context.Context, *domain.Answer) ([]primitive.ObjectID, error) {
	return r.ids, r.err
}
