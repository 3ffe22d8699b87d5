// Package assembly turns raw routine documents and catalog rows into the
// stable, UI-ready routine shape: header fields plus an exercise list sorted
// ascending by position. Every routine-fetching call site goes through
// AssembleRoutine so the sorting contract lives in exactly one place.
package assembly

import (
	"fmt"
	"sort"

	"fitrack/routine-app/internal/domain"
)

// ExerciseView is one exercise of an assembled routine: the catalog fields
// merged with the routine-specific set/rep counts and sort order.
type ExerciseView struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Target           string   `json:"target"`
	Equipment        string   `json:"equipment"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	GifURL           string   `json:"gif_url"`
	Sets             int      `json:"sets"`
	Reps             int      `json:"reps"`
	SortOrder        int      `json:"sort_order"`
}

// RoutineView is the assembled routine handed to the UI. Exercises are always
// sorted ascending by SortOrder.
type RoutineView struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug,omitempty"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	IsCustom    bool           `json:"isCustom,omitempty"`
	Exercises   []ExerciseView `json:"exercises"`
}

// Header is the explicit intermediate shape for a routine's own fields,
// decoupling assembly from the store's document format.
type Header struct {
	ID          string
	Slug        string
	Name        string
	Description string
	IsCustom    bool
}

// HeaderOf extracts the assembly header from a routine document.
func HeaderOf(r *domain.Routine) Header {
	return Header{
		ID:          r.ID.Hex(),
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		IsCustom:    r.IsCustom(),
	}
}

// AssembleRoutine merges a routine header with its exercise links and the
// referenced catalog exercises. Links are sorted ascending by position;
// relative order of the stored positions is preserved, contiguity is not
// required. The join is whole-or-nothing: a link referencing an exercise
// missing from exercisesByID fails the entire assembly.
func AssembleRoutine(header Header, links []domain.RoutineExerciseLink, exercisesByID map[int64]domain.Exercise) (RoutineView, error) {
	ordered := make([]domain.RoutineExerciseLink, len(links))
	copy(ordered, links)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	exercises := make([]ExerciseView, 0, len(ordered))
	for _, link := range ordered {
		ex, ok := exercisesByID[link.ExerciseID]
		if !ok {
			return RoutineView{}, fmt.Errorf("routine %s references unknown exercise %d", header.ID, link.ExerciseID)
		}
		secondary := ex.SecondaryMuscles
		if secondary == nil {
			secondary = []string{}
		}
		exercises = append(exercises, ExerciseView{
			ID:               ex.ID,
			Name:             ex.Name,
			Target:           ex.Target,
			Equipment:        ex.Equipment,
			SecondaryMuscles: secondary,
			GifURL:           ex.GifURL,
			Sets:             link.Sets,
			Reps:             link.Reps,
			SortOrder:        link.Position,
		})
	}

	view := RoutineView{
		ID:        header.ID,
		Name:      header.Name,
		IsCustom:  header.IsCustom,
		Exercises: exercises,
	}
	if !header.IsCustom {
		view.Slug = header.Slug
	}
	if header.Description != "" {
		desc := header.Description
		view.Description = &desc
	}
	return view, nil
}

// CatalogIDs collects the distinct exercise ids referenced by a set of
// routines, so one catalog fetch can serve a whole list assembly.
func CatalogIDs(routines []domain.Routine) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range routines {
		for _, link := range r.Exercises {
			if _, ok := seen[link.ExerciseID]; ok {
				continue
			}
			seen[link.ExerciseID] = struct{}{}
			ids = append(ids, link.ExerciseID)
		}
	}
	return ids
}
