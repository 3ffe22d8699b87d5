package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/assembly"
	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
)

// --- Error Definitions ---
var (
	// ErrFetchFailed wraps any underlying store read error; the store's
	// message rides along and reaches the caller verbatim.
	ErrFetchFailed      = errors.New("fetch failed")
	ErrRoutineNotFound  = errors.New("routine not found")
	ErrValidationFailed = errors.New("routine validation failed")
)

// ValidationError carries a per-field error map so the authoring UI can
// highlight the offending field instead of showing one opaque string.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match with errors.Is(err, ErrValidationFailed).
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// --- Inputs ---

// RoutineExerciseInput is one exercise row of a routine creation request.
type RoutineExerciseInput struct {
	ExerciseID int64
	Sets       int
	Reps       int
	Position   int
}

// CreateBaseRoutineInput carries everything needed to author a base routine.
type CreateBaseRoutineInput struct {
	Slug        string
	Name        string
	Description string
	Goal        string
	Experience  string
	DaysPerWeek int
	Equipment   []string
	Exercises   []RoutineExerciseInput
}

// CreateCustomRoutineInput is the atomic creation request a submitted draft
// becomes.
type CreateCustomRoutineInput struct {
	Name        string
	Description string
	Exercises   []RoutineExerciseInput
}

// --- Service Interface ---

// RoutineService produces assembled, UI-ready routine views and manages
// routine lifecycle. Reads are whole-or-nothing: no partially assembled
// routine is ever returned.
type RoutineService interface {
	// ListRoutines returns all base routines when ids is nil, otherwise only
	// those in the id set. Outer order is the store's; exercise order within
	// each routine is always ascending by position.
	ListRoutines(ctx context.Context, ids []primitive.ObjectID) ([]assembly.RoutineView, error)
	GetRoutineByID(ctx context.Context, id primitive.ObjectID) (*assembly.RoutineView, error)
	CreateBaseRoutine(ctx context.Context, input CreateBaseRoutineInput) (*assembly.RoutineView, error)

	ListCustomRoutines(ctx context.Context, ownerID primitive.ObjectID) ([]assembly.RoutineView, error)
	GetCustomRoutineByID(ctx context.Context, id, ownerID primitive.ObjectID) (*assembly.RoutineView, error)
	CreateCustomRoutine(ctx context.Context, ownerID primitive.ObjectID, input CreateCustomRoutineInput) (*assembly.RoutineView, error)
	DeleteCustomRoutine(ctx context.Context, id, ownerID primitive.ObjectID) error
}

// --- Service Implementation ---

type routineService struct {
	routineRepo repository.RoutineRepository
	customRepo  repository.CustomRoutineRepository
	catalogRepo repository.ExerciseRepository
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(
	routineRepo repository.RoutineRepository,
	customRepo repository.CustomRoutineRepository,
	catalogRepo repository.ExerciseRepository,
) RoutineService {
	return &routineService{
		routineRepo: routineRepo,
		customRepo:  customRepo,
		catalogRepo: catalogRepo,
	}
}

// === Reads ===

func (s *routineService) ListRoutines(ctx context.Context, ids []primitive.ObjectID) ([]assembly.RoutineView, error) {
	var (
		routines []domain.Routine
		err      error
	)
	if ids == nil {
		routines, err = s.routineRepo.List(ctx)
	} else {
		routines, err = s.routineRepo.GetByIDs(ctx, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return s.assembleAll(ctx, routines)
}

func (s *routineService) GetRoutineByID(ctx context.Context, id primitive.ObjectID) (*assembly.RoutineView, error) {
	routine, err := s.routineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return s.assembleOne(ctx, routine)
}

func (s *routineService) ListCustomRoutines(ctx context.Context, ownerID primitive.ObjectID) ([]assembly.RoutineView, error) {
	routines, err := s.customRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return s.assembleAll(ctx, routines)
}

func (s *routineService) GetCustomRoutineByID(ctx context.Context, id, ownerID primitive.ObjectID) (*assembly.RoutineView, error) {
	routine, err := s.customRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return s.assembleOne(ctx, routine)
}

// === Writes ===

func (s *routineService) CreateBaseRoutine(ctx context.Context, input CreateBaseRoutineInput) (*assembly.RoutineView, error) {
	fields := map[string]string{}
	if input.Slug == "" {
		fields["slug"] = "slug is required"
	}
	validateRoutineCommon(fields, input.Name, input.Exercises)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.resolveExercises(ctx, fields, input.Exercises); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	routine := &domain.Routine{
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		Goal:        input.Goal,
		Experience:  input.Experience,
		DaysPerWeek: input.DaysPerWeek,
		Equipment:   input.Equipment,
		Exercises:   toLinks(input.Exercises),
	}

	id, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ValidationError{Fields: map[string]string{"slug": "slug is already taken"}}
		}
		return nil, err
	}
	routine.ID = id
	return s.assembleOne(ctx, routine)
}

func (s *routineService) CreateCustomRoutine(ctx context.Context, ownerID primitive.ObjectID, input CreateCustomRoutineInput) (*assembly.RoutineView, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to create a custom routine")
	}

	fields := map[string]string{}
	validateRoutineCommon(fields, input.Name, input.Exercises)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.resolveExercises(ctx, fields, input.Exercises); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	owner := ownerID
	routine := &domain.Routine{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     &owner,
		Exercises:   toLinks(input.Exercises),
	}

	id, err := s.customRepo.Create(ctx, routine)
	if err != nil {
		return nil, err
	}
	routine.ID = id
	return s.assembleOne(ctx, routine)
}

func (s *routineService) DeleteCustomRoutine(ctx context.Context, id, ownerID primitive.ObjectID) error {
	err := s.customRepo.Delete(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	return nil
}

// === Assembly helpers ===

// assembleAll fetches every referenced catalog exercise in one read and
// assembles each routine through the shared assembly function.
func (s *routineService) assembleAll(ctx context.Context, routines []domain.Routine) ([]assembly.RoutineView, error) {
	exercises, err := s.catalogRepo.GetByIDs(ctx, assembly.CatalogIDs(routines))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	byID := make(map[int64]domain.Exercise, len(exercises))
	for _, ex := range exercises {
		byID[ex.ID] = ex
	}

	views := make([]assembly.RoutineView, 0, len(routines))
	for i := range routines {
		view, err := assembly.AssembleRoutine(assembly.HeaderOf(&routines[i]), routines[i].Exercises, byID)
		if err != nil {
			// A dangling exercise reference breaks the whole read rather than
			// returning a partially assembled routine.
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *routineService) assembleOne(ctx context.Context, routine *domain.Routine) (*assembly.RoutineView, error) {
	views, err := s.assembleAll(ctx, []domain.Routine{*routine})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// === Validation helpers ===

func validateRoutineCommon(fields map[string]string, name string, exercises []RoutineExerciseInput) {
	if len(strings.TrimSpace(name)) < 3 {
		fields["name"] = "name must be at least 3 characters"
	}
	if len(exercises) == 0 {
		fields["exercises"] = "at least one exercise is required"
	}
	for i, ex := range exercises {
		if ex.ExerciseID <= 0 {
			fields[fmt.Sprintf("exercises[%d].exercise_id", i)] = "exercise is required"
		}
		if ex.Sets <= 0 {
			fields[fmt.Sprintf("exercises[%d].sets", i)] = "sets must be a positive integer"
		}
		if ex.Reps <= 0 {
			fields[fmt.Sprintf("exercises[%d].reps", i)] = "reps must be a positive integer"
		}
		if ex.Position < 0 {
			fields[fmt.Sprintf("exercises[%d].position", i)] = "position must not be negative"
		}
	}
}

// resolveExercises verifies every referenced exercise id exists in the
// catalog, recording a field error per unknown id.
func (s *routineService) resolveExercises(ctx context.Context, fields map[string]string, exercises []RoutineExerciseInput) error {
	ids := make([]int64, 0, len(exercises))
	for _, ex := range exercises {
		ids = append(ids, ex.ExerciseID)
	}
	found, err := s.catalogRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	known := make(map[int64]struct{}, len(found))
	for _, ex := range found {
		known[ex.ID] = struct{}{}
	}
	for i, ex := range exercises {
		if _, ok := known[ex.ExerciseID]; !ok {
			fields[fmt.Sprintf("exercises[%d].exercise_id", i)] = fmt.Sprintf("unknown exercise %d", ex.ExerciseID)
		}
	}
	return nil
}

func toLinks(exercises []RoutineExerciseInput) []domain.RoutineExerciseLink {
	links := make([]domain.RoutineExerciseLink, len(exercises))
	for i, ex := range exercises {
		links[i] = domain.RoutineExerciseLink{
			ExerciseID: ex.ExerciseID,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Position:   ex.Position,
		}
	}
	return links
}
