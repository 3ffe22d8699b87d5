package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
)

// ProgressPoint is one charted data point of an exercise's history: the
// heaviest set and the session's total volume on a given day.
type ProgressPoint struct {
	PerformedAt time.Time `json:"performedAt"`
	TopWeight   float64   `json:"topWeight"`
	TotalVolume float64   `json:"totalVolume"` // sum of weight*reps over all sets
	TotalReps   int       `json:"totalReps"`
}

// LogService records workout results and serves the progress series the
// charts are drawn from.
type LogService interface {
	LogWorkout(ctx context.Context, ownerID primitive.ObjectID, log domain.WorkoutLog) (*domain.WorkoutLog, error)
	ListLogs(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutLog, error)
	// ProgressSeries returns one point per log of the exercise, oldest first.
	ProgressSeries(ctx context.Context, ownerID primitive.ObjectID, exerciseID int64) ([]ProgressPoint, error)
}

type logService struct {
	logRepo      repository.WorkoutLogRepository
	exerciseRepo repository.ExerciseRepository
}

// NewLogService creates a new instance of logService.
func NewLogService(logRepo repository.WorkoutLogRepository, exerciseRepo repository.ExerciseRepository) LogService {
	return &logService{
		logRepo:      logRepo,
		exerciseRepo: exerciseRepo,
	}
}

func (s *logService) LogWorkout(ctx context.Context, ownerID primitive.ObjectID, log domain.WorkoutLog) (*domain.WorkoutLog, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to log a workout")
	}
	fields := map[string]string{}
	if len(log.Sets) == 0 {
		fields["sets"] = "at least one set is required"
	}
	for i, set := range log.Sets {
		if set.Reps <= 0 {
			fields[fmt.Sprintf("sets[%d].reps", i)] = "reps must be a positive integer"
		}
		if set.Weight < 0 {
			fields[fmt.Sprintf("sets[%d].weight", i)] = "weight must not be negative"
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if _, err := s.exerciseRepo.GetByID(ctx, log.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	log.OwnerID = ownerID
	id, err := s.logRepo.Create(ctx, &log)
	if err != nil {
		return nil, err
	}
	log.ID = id
	return &log, nil
}

func (s *logService) ListLogs(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutLog, error) {
	logs, err := s.logRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return logs, nil
}

func (s *logService) ProgressSeries(ctx context.Context, ownerID primitive.ObjectID, exerciseID int64) ([]ProgressPoint, error) {
	logs, err := s.logRepo.GetByOwnerAndExercise(ctx, ownerID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	points := make([]ProgressPoint, 0, len(logs))
	for _, log := range logs {
		point := ProgressPoint{PerformedAt: log.PerformedAt}
		for _, set := range log.Sets {
			if set.Weight > point.TopWeight {
				point.TopWeight = set.Weight
			}
			point.TotalVolume += set.Weight * float64(set.Reps)
			point.TotalReps += set.Reps
		}
		points = append(points, point)
	}
	return points, nil
}
