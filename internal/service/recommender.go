package service

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/repository"
)

// maxRecommendations caps the size of a computed plan.
const maxRecommendations = 5

// tagRecommender is the default Recommender: it scores every base routine's
// tags against the questionnaire answer and keeps the best matches.
type tagRecommender struct {
	routineRepo repository.RoutineRepository
}

// NewTagRecommender creates the default tag-matching recommender.
func NewTagRecommender(routineRepo repository.RoutineRepository) Recommender {
	return &tagRecommender{routineRepo: routineRepo}
}

func (r *tagRecommender) Recommend(ctx context.Context, answer *domain.Answer) ([]primitive.ObjectID, error) {
	routines, err := r.routineRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		id    primitive.ObjectID
		score int
	}
	var candidates []scored
	for _, routine := range routines {
		score := scoreRoutine(&routine, answer)
		if score > 0 {
			candidates = append(candidates, scored{id: routine.ID, score: score})
		}
	}

	// Stable: equal scores keep the store's (alphabetical) order, so the
	// ranking is deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}
	ids := make([]primitive.ObjectID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}
	return ids, nil
}

func scoreRoutine(routine *domain.Routine, answer *domain.Answer) int {
	score := 0
	if routine.Goal != "" && routine.Goal == answer.Goal {
		score += 4
	}
	if routine.Experience != "" && routine.Experience == answer.Experience {
		score += 2
	}
	if routine.DaysPerWeek > 0 && answer.DaysPerWeek > 0 {
		diff := routine.DaysPerWeek - answer.DaysPerWeek
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			score++
		}
	}
	if hasAllEquipment(routine.Equipment, answer.Equipment) {
		score++
	}
	return score
}

// hasAllEquipment reports whether the user has everything the routine needs.
// A routine with no equipment tags needs nothing.
func hasAllEquipment(needed, available []string) bool {
	if len(needed) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(available))
	for _, e := range available {
		have[e] = struct{}{}
	}
	for _, e := range needed {
		if _, ok := have[e]; !ok {
			return false
		}
	}
	return true
}
