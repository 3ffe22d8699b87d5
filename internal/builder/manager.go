package builder

import (
	"sync"
)

// Manager holds one draft per user for the lifetime of the authoring session.
// All access goes through the manager so concurrent requests from the same
// user (e.g. two browser tabs) cannot corrupt a draft.
type Manager struct {
	mu     sync.Mutex
	drafts map[string]*Draft // keyed by user id
}

// NewManager creates an empty draft manager.
func NewManager() *Manager {
	return &Manager{drafts: make(map[string]*Draft)}
}

// draftLocked returns the user's draft, creating an empty one on first use.
// Callers must hold mu.
func (m *Manager) draftLocked(userID string) *Draft {
	d, ok := m.drafts[userID]
	if !ok {
		d = NewDraft()
		m.drafts[userID] = d
	}
	return d
}

// Snapshot returns a copy of the user's current draft.
func (m *Manager) Snapshot(userID string) Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draftLocked(userID)
	snap := *d
	snap.Rows = make([]DraftRow, len(d.Rows))
	copy(snap.Rows, d.Rows)
	return snap
}

// SetHeader updates the draft's name and description.
func (m *Manager) SetHeader(userID, name, description string) Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draftLocked(userID)
	d.Name = name
	d.Description = description
	return m.snapshotLocked(d)
}

// AddRow appends a new default row to the user's draft.
func (m *Manager) AddRow(userID string) (DraftRow, Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draftLocked(userID)
	row := d.AddRow()
	return row, m.snapshotLocked(d)
}

// RemoveRow deletes a row from the user's draft; unknown localID is a no-op.
func (m *Manager) RemoveRow(userID, localID string) Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draftLocked(userID)
	d.RemoveRow(localID)
	return m.snapshotLocked(d)
}

// UpdateRow merges a partial update into one row. It reports whether the row
// existed.
func (m *Manager) UpdateRow(userID, localID string, patch RowPatch) (Draft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draftLocked(userID)
	ok := d.UpdateRow(localID, patch)
	return m.snapshotLocked(d), ok
}

// Reorder moves a row. Indices must already be range-checked by the caller;
// Draft.Reorder panics on violation.
func (m *Manager) Reorder(userID string, fromIndex, toIndex int) Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.draftLocked(userID)
	d.Reorder(fromIndex, toIndex)
	return m.snapshotLocked(d)
}

// RowCount returns the current number of rows in the user's draft.
func (m *Manager) RowCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.draftLocked(userID).Rows)
}

// Reset discards the user's draft. Called after a successful submit or an
// explicit cancel; a failed submit leaves the draft untouched so the user can
// retry without re-entering anything.
func (m *Manager) Reset(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, userID)
}

func (m *Manager) snapshotLocked(d *Draft) Draft {
	snap := *d
	snap.Rows = make([]DraftRow, len(d.Rows))
	copy(snap.Rows, d.Rows)
	return snap
}
