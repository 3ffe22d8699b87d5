package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/assembly"
	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrAnswerNotFound = errors.New("questionnaire answer not found")
	// ErrConflict signals a recommendation link that already exists.
	ErrConflict = errors.New("routine is already part of the plan")
)

// Recommender computes a ranked list of base routine ids for a questionnaire
// answer. No contract beyond "answer in, ranked ids out" is assumed; the
// default implementation lives in recommender.go but anything can be plugged
// in.
type Recommender interface {
	Recommend(ctx context.Context, answer *domain.Answer) ([]primitive.ObjectID, error)
}

// RecommendationService manages the user's plan: the ordered set of
// recommended routines attached to a questionnaire answer.
type RecommendationService interface {
	SubmitAnswer(ctx context.Context, ownerID primitive.ObjectID, answer domain.Answer) (*domain.Answer, error)

	// ListRecommendedRoutines returns the plan's routines ordered by the
	// stored link positions. When no links exist the recommender runs, its
	// result is persisted, and the fresh plan is returned. An empty plan is
	// an empty slice, not an error.
	ListRecommendedRoutines(ctx context.Context, ownerID, answerID primitive.ObjectID) ([]assembly.RoutineView, error)

	// AppendRecommendation adds one routine at the end of the plan.
	// Appending a routine already in the plan fails with ErrConflict.
	AppendRecommendation(ctx context.Context, ownerID, answerID, routineID primitive.ObjectID) error

	// RemoveRecommendation drops one routine from the plan. Removing an
	// absent one succeeds.
	RemoveRecommendation(ctx context.Context, ownerID, answerID, routineID primitive.ObjectID) error

	// RegeneratePlan deletes every link of the plan. It does not recompute:
	// regeneration is "delete the cache", recomputation happens lazily on the
	// next ListRecommendedRoutines.
	RegeneratePlan(ctx context.Context, ownerID, answerID primitive.ObjectID) error
}

type recommendationService struct {
	answerRepo  repository.AnswerRepository
	recRepo     repository.RecommendationRepository
	routineSvc  RoutineService
	recommender Recommender
}

// NewRecommendationService creates a new instance of recommendationService.
func NewRecommendationService(
	answerRepo repository.AnswerRepository,
	recRepo repository.RecommendationRepository,
	routineSvc RoutineService,
	recommender Recommender,
) RecommendationService {
	return &recommendationService{
		answerRepo:  answerRepo,
		recRepo:     recRepo,
		routineSvc:  routineSvc,
		recommender: recommender,
	}
}

func (s *recommendationService) SubmitAnswer(ctx context.Context, ownerID primitive.ObjectID, answer domain.Answer) (*domain.Answer, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to submit an answer")
	}
	answer.OwnerID = ownerID

	id, err := s.answerRepo.Create(ctx, &answer)
	if err != nil {
		return nil, err
	}
	answer.ID = id
	return &answer, nil
}

func (s *recommendationService) ListRecommendedRoutines(ctx context.Context, ownerID, answerID primitive.ObjectID) ([]assembly.RoutineView, error) {
	answer, err := s.getOwnedAnswer(ctx, ownerID, answerID)
	if err != nil {
		return nil, err
	}

	links, err := s.recRepo.GetByAnswerID(ctx, answerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if len(links) == 0 {
		links, err = s.computeAndPersist(ctx, answer)
		if err != nil {
			return nil, err
		}
	}
	if len(links) == 0 {
		return []assembly.RoutineView{}, nil
	}

	ids := make([]primitive.ObjectID, len(links))
	for i, link := range links {
		ids[i] = link.RoutineID
	}

	views, err := s.routineSvc.ListRoutines(ctx, ids)
	if err != nil {
		return nil, err
	}

	// The id-set fetch guarantees no outer order; re-impose the plan's own
	// ordering from the link positions.
	byID := make(map[string]assembly.RoutineView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	ordered := make([]assembly.RoutineView, 0, len(links))
	for _, link := range links {
		if v, ok := byID[link.RoutineID.Hex()]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

func (s *recommendationService) AppendRecommendation(ctx context.Context, ownerID, answerID, routineID primitive.ObjectID) error {
	if _, err := s.getOwnedAnswer(ctx, ownerID, answerID); err != nil {
		return err
	}
	if _, err := s.routineSvc.GetRoutineByID(ctx, routineID); err != nil {
		return err
	}

	links, err := s.recRepo.GetByAnswerID(ctx, answerID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	// Links come back position-ascending; the next slot is max+1, or 0 for an
	// empty plan.
	position := 0
	if len(links) > 0 {
		position = links[len(links)-1].Position + 1
	}

	_, err = s.recRepo.Create(ctx, &domain.RecommendationLink{
		AnswerID:  answerID,
		RoutineID: routineID,
		Position:  position,
		Source:    domain.SourceManual,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *recommendationService) RemoveRecommendation(ctx context.Context, ownerID, answerID, routineID primitive.ObjectID) error {
	if _, err := s.getOwnedAnswer(ctx, ownerID, answerID); err != nil {
		return err
	}
	return s.recRepo.Delete(ctx, answerID, routineID)
}

func (s *recommendationService) RegeneratePlan(ctx context.Context, ownerID, answerID primitive.ObjectID) error {
	if _, err := s.getOwnedAnswer(ctx, ownerID, answerID); err != nil {
		return err
	}
	return s.recRepo.DeleteByAnswerID(ctx, answerID)
}

// computeAndPersist runs the recommender and stores the resulting plan with
// positions 0..n-1. A duplicate-key loss against a concurrent writer just
// means someone else persisted a plan first; theirs wins and is re-read.
func (s *recommendationService) computeAndPersist(ctx context.Context, answer *domain.Answer) ([]domain.RecommendationLink, error) {
	ids, err := s.recommender.Recommend(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	links := make([]domain.RecommendationLink, len(ids))
	for i, id := range ids {
		links[i] = domain.RecommendationLink{
			AnswerID:  answer.ID,
			RoutineID: id,
			Position:  i,
			Source:    domain.SourceComputed,
		}
	}

	if err := s.recRepo.CreateMany(ctx, links); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			stored, rerr := s.recRepo.GetByAnswerID(ctx, answer.ID)
			if rerr != nil {
				return nil, fmt.Errorf("%w: %v", ErrFetchFailed, rerr)
			}
			return stored, nil
		}
		return nil, err
	}
	return links, nil
}

func (s *recommendationService) getOwnedAnswer(ctx context.Context, ownerID, answerID primitive.ObjectID) (*domain.Answer, error) {
	answer, err := s.answerRepo.GetByIDAndOwner(ctx, answerID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return answer, nil
}
