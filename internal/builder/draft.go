// Package builder holds the mutable, not-yet-persisted draft of a custom
// routine while the user is authoring it: dynamic rows, validation, and
// reordering. A draft becomes a single atomic creation request on submit and
// is discarded afterwards.
package builder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Row defaults for a freshly added draft row.
const (
	DefaultSets = 3
	DefaultReps = 10
)

// MinNameLength is the minimum trimmed length of a draft name.
const MinNameLength = 3

// DraftRow is one exercise row of a draft. LocalID identifies the row within
// the authoring session only and never leaves the builder.
type DraftRow struct {
	LocalID    string `json:"localId"`
	ExerciseID int64  `json:"exerciseId"` // 0 until the user picks one
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	Position   int    `json:"position"`
}

// Draft is the in-memory state of a custom routine under construction.
// Row positions are always recomputed as the row's index after any structural
// change; caller-supplied positions are never trusted.
type Draft struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Rows        []DraftRow `json:"rows"`
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{Rows: []DraftRow{}}
}

// AddRow appends a new row with no exercise chosen yet and default set/rep
// counts, positioned at the end. It returns the new row.
func (d *Draft) AddRow() DraftRow {
	row := DraftRow{
		LocalID:  uuid.NewString(),
		Sets:     DefaultSets,
		Reps:     DefaultReps,
		Position: len(d.Rows),
	}
	d.Rows = append(d.Rows, row)
	return row
}

// RemoveRow deletes the row matching localID and recomputes every remaining
// row's position to its new index. Removing an unknown localID is a no-op.
func (d *Draft) RemoveRow(localID string) {
	for i, row := range d.Rows {
		if row.LocalID == localID {
			d.Rows = append(d.Rows[:i], d.Rows[i+1:]...)
			d.renumber()
			return
		}
	}
}

// RowPatch is a partial row update. Nil fields are left untouched.
type RowPatch struct {
	ExerciseID *int64 `json:"exerciseId"`
	Sets       *int   `json:"sets"`
	Reps       *int   `json:"reps"`
}

// UpdateRow merges a partial field update into the row matching localID.
// Position is never altered here. It reports whether a row matched.
func (d *Draft) UpdateRow(localID string, patch RowPatch) bool {
	for i := range d.Rows {
		if d.Rows[i].LocalID != localID {
			continue
		}
		if patch.ExerciseID != nil {
			d.Rows[i].ExerciseID = *patch.ExerciseID
		}
		if patch.Sets != nil {
			d.Rows[i].Sets = *patch.Sets
		}
		if patch.Reps != nil {
			d.Rows[i].Reps = *patch.Reps
		}
		return true
	}
	return false
}

// Reorder moves the row at fromIndex to toIndex, shifting the rows in
// between, and recomputes all positions. Out-of-range indices are a caller
// bug and panic rather than being clamped.
func (d *Draft) Reorder(fromIndex, toIndex int) {
	n := len(d.Rows)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		panic(fmt.Sprintf("builder: reorder indices out of range: from=%d to=%d len=%d", fromIndex, toIndex, n))
	}
	if fromIndex == toIndex {
		return
	}

	row := d.Rows[fromIndex]
	rest := append(d.Rows[:fromIndex:fromIndex], d.Rows[fromIndex+1:]...)
	d.Rows = append(rest[:toIndex:toIndex], append([]DraftRow{row}, rest[toIndex:]...)...)
	d.renumber()
}

// IsValid reports whether the draft can be submitted: trimmed name of at
// least MinNameLength, at least one row, and every row with an exercise
// chosen. Deliberately recomputed on every call; drafts are small.
func (d *Draft) IsValid() bool {
	if len(strings.TrimSpace(d.Name)) < MinNameLength {
		return false
	}
	if len(d.Rows) == 0 {
		return false
	}
	for _, row := range d.Rows {
		if row.ExerciseID == 0 {
			return false
		}
	}
	return true
}

// Reset returns the draft to its initial empty state.
func (d *Draft) Reset() {
	d.Name = ""
	d.Description = ""
	d.Rows = []DraftRow{}
}

func (d *Draft) renumber() {
	for i := range d.Rows {
		d.Rows[i].Position = i
	}
}
