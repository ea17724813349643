// Package selection tracks the active view and the selected song.
package selection

import "github.com/handiism/ytmusic-finder/internal/model"

// View identifies the active results view.
type View int

const (
	// ViewIdle means no query has produced results yet.
	ViewIdle View = iota
	// ViewResults shows the current result list.
	ViewResults
	// ViewDetail shows one song's details.
	ViewDetail
)

// Machine is the selection state machine.
//
// It owns the visible result set and the selection index, and it is the
// only place either is mutated. Result application is guarded by the
// search sequence number: an update is applied only if its sequence is
// the highest seen, so out-of-order lookup completion can never regress
// the visible results.
//
// Machine is not safe for concurrent use; it is driven solely from the
// UI event loop.
type Machine struct {
	view    View
	songs   []model.Song
	index   int
	highest uint64
}

// NewMachine creates a machine in the Idle view.
func NewMachine() *Machine {
	return &Machine{view: ViewIdle, index: -1}
}

// View returns the active view.
func (m *Machine) View() View { return m.view }

// Songs returns the current result set. Callers must not mutate it.
func (m *Machine) Songs() []model.Song { return m.songs }

// Index returns the selected index, or -1 when nothing is selected.
func (m *Machine) Index() int { return m.index }

// Selected returns the selected song, if any.
func (m *Machine) Selected() (model.Song, bool) {
	if m.index < 0 || m.index >= len(m.songs) {
		return model.Song{}, false
	}
	return m.songs[m.index], true
}

// ApplyResults replaces the result set if seq is the highest seen.
//
// Returns false (and changes nothing) for a stale sequence. On success
// the view becomes Results with the first item selected, or Idle when
// the update is an empty-query clear.
func (m *Machine) ApplyResults(seq uint64, songs []model.Song, cleared bool) bool {
	if seq < m.highest {
		return false
	}
	m.highest = seq

	if cleared {
		m.songs = nil
		m.index = -1
		m.view = ViewIdle
		return true
	}

	m.songs = songs
	if len(songs) > 0 {
		m.index = 0
	} else {
		m.index = -1
	}
	m.view = ViewResults
	return true
}

// ObserveSeq records a sequence number without touching results, so an
// errored submission still blocks older in-flight lookups from applying.
func (m *Machine) ObserveSeq(seq uint64) {
	if seq > m.highest {
		m.highest = seq
	}
}

// MoveUp moves the selection up one row, clamped to the first row.
func (m *Machine) MoveUp() {
	if len(m.songs) == 0 {
		return
	}
	if m.index > 0 {
		m.index--
	}
}

// MoveDown moves the selection down one row, clamped to the last row.
func (m *Machine) MoveDown() {
	if len(m.songs) == 0 {
		return
	}
	if m.index < len(m.songs)-1 {
		m.index++
	}
}

// Confirm enters the detail view for the selected song.
// Without a selection it is a no-op.
func (m *Machine) Confirm() {
	if m.view != ViewResults {
		return
	}
	if _, ok := m.Selected(); !ok {
		return
	}
	m.view = ViewDetail
}

// Back leaves the detail view.
func (m *Machine) Back() {
	if m.view == ViewDetail {
		m.view = ViewResults
	}
}
