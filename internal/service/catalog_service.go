package service

import (
	"context"
	"errors"
	"fmt"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
	"fitrack/routine-app/internal/storage"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrExerciseExists   = errors.New("exercise with this id already exists")
)

// CatalogService manages the shared exercise catalog. Reads are open to every
// authenticated user; writes are operator-only (enforced at the route layer).
type CatalogService interface {
	CreateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, id int64) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error)

	// MediaUploadURL returns a presigned PUT URL for uploading the exercise's
	// illustrative media, plus the object key the upload must use.
	MediaUploadURL(ctx context.Context, exerciseID int64, contentType string) (url, objectKey string, err error)
	// RemoveMedia deletes the stored media object and clears the exercise's
	// gif reference.
	RemoveMedia(ctx context.Context, exerciseID int64) error
}

type catalogService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) CatalogService {
	return &catalogService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

func (s *catalogService) CreateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	if exercise.ID <= 0 || exercise.Name == "" {
		return nil, &ValidationError{Fields: map[string]string{"id": "a positive catalog id and a name are required"}}
	}

	if err := s.exerciseRepo.Create(ctx, &exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseExists
		}
		return nil, err
	}
	return &exercise, nil
}

func (s *catalogService) GetExerciseByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return exercise, nil
}

func (s *catalogService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return exercises, nil
}

func (s *catalogService) UpdateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	if exercise.ID <= 0 {
		return nil, ErrExerciseNotFound
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exercise.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	existing.Name = exercise.Name
	existing.Target = exercise.Target
	existing.Equipment = exercise.Equipment
	existing.SecondaryMuscles = exercise.SecondaryMuscles
	existing.GifURL = exercise.GifURL

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) MediaUploadURL(ctx context.Context, exerciseID int64, contentType string) (string, string, error) {
	if _, err := s.GetExerciseByID(ctx, exerciseID); err != nil {
		return "", "", err
	}

	objectKey := mediaObjectKey(exerciseID)
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}
	return url, objectKey, nil
}

func (s *catalogService) RemoveMedia(ctx context.Context, exerciseID int64) error {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return err
	}

	if err := s.fileStorage.DeleteObject(ctx, mediaObjectKey(exerciseID)); err != nil {
		return err
	}
	exercise.GifURL = ""
	return s.exerciseRepo.Update(ctx, exercise)
}

func mediaObjectKey(exerciseID int64) string {
	return fmt.Sprintf("exercises/%d.gif", exerciseID)
}
