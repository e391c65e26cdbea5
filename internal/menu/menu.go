// Package menu implements the suggestion menu state machine. The menu has
// exactly two states, Hidden and Visible, and every transition is driven
// by suggestion-list changes, navigation, cancellation, focus loss, or a
// successful commit.
package menu

import (
	"sync"

	"github.com/ghosttype/ghosttype/internal/suggest"
)

// State is the menu visibility state.
type State int

const (
	// Hidden means no menu is rendered.
	Hidden State = iota

	// Visible means the menu shows the current suggestion list.
	Visible
)

// String returns "hidden" or "visible".
func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// ChangeListener observes menu state updates. It is called after every
// mutation with the surface the menu is bound to, the new state, and the
// selection index (-1 when hidden).
type ChangeListener func(surfaceID string, state State, selected int)

// Menu owns the suggestion list, selection index, and visibility for the
// focused surface. It never talks to surfaces directly; accept paths are
// routed by the caller through the commit manager.
type Menu struct {
	mu        sync.Mutex
	surfaceID string
	items     []suggest.Suggestion
	selected  int
	state     State

	digitsEnabled bool
	listener      ChangeListener
}

// New creates a hidden menu.
func New() *Menu {
	return &Menu{selected: -1, digitsEnabled: true}
}

// SetChangeListener registers the state observer.
func (m *Menu) SetChangeListener(l ChangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = l
}

// SetDigitsEnabled toggles digit selection. The caller disables it when
// number selection is off in settings or when an insertion chord is a
// bare digit.
func (m *Menu) SetDigitsEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digitsEnabled = enabled
}

// State returns the current visibility state.
func (m *Menu) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SurfaceID returns the surface the menu is currently bound to.
func (m *Menu) SurfaceID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surfaceID
}

// Selected returns the selection index, -1 when hidden or empty.
func (m *Menu) Selected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// SelectedSuggestion returns the highlighted suggestion, if any.
func (m *Menu) SelectedSuggestion() (suggest.Suggestion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Visible || m.selected < 0 || m.selected >= len(m.items) {
		return suggest.Suggestion{}, false
	}
	return m.items[m.selected], true
}

// Items returns a copy of the current suggestion list.
func (m *Menu) Items() []suggest.Suggestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]suggest.Suggestion, len(m.items))
	copy(out, m.items)
	return out
}

// SetSuggestions replaces the suggestion list for a surface. A non-empty
// list makes the menu visible with selection reset to 0; an empty list
// hides it.
func (m *Menu) SetSuggestions(surfaceID string, items []suggest.Suggestion) {
	m.mu.Lock()
	m.surfaceID = surfaceID
	m.items = items
	if len(items) == 0 {
		m.hideLocked()
	} else {
		m.state = Visible
		m.selected = 0
	}
	m.notifyLocked()
	m.mu.Unlock()
}

// Next moves the selection down, wrapping from last to first.
func (m *Menu) Next() {
	m.step(1)
}

// Prev moves the selection up, wrapping from first to last.
func (m *Menu) Prev() {
	m.step(-1)
}

func (m *Menu) step(delta int) {
	m.mu.Lock()
	if m.state == Visible && len(m.items) > 0 {
		n := len(m.items)
		m.selected = ((m.selected+delta)%n + n) % n
		m.notifyLocked()
	}
	m.mu.Unlock()
}

// Home clamps the selection to the first entry.
func (m *Menu) Home() {
	m.mu.Lock()
	if m.state == Visible && len(m.items) > 0 {
		m.selected = 0
		m.notifyLocked()
	}
	m.mu.Unlock()
}

// End clamps the selection to the last entry.
func (m *Menu) End() {
	m.mu.Lock()
	if m.state == Visible && len(m.items) > 0 {
		m.selected = len(m.items) - 1
		m.notifyLocked()
	}
	m.mu.Unlock()
}

// Hover moves the selection under the pointer without committing.
func (m *Menu) Hover(index int) {
	m.mu.Lock()
	if m.state == Visible && index >= 0 && index < len(m.items) {
		m.selected = index
		m.notifyLocked()
	}
	m.mu.Unlock()
}

// SelectDigit handles a bare digit key 1-9. It returns the addressed
// suggestion when digit selection is enabled and the digit is within the
// visible list; the caller then routes it through the commit path.
func (m *Menu) SelectDigit(digit int) (suggest.Suggestion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.digitsEnabled || m.state != Visible {
		return suggest.Suggestion{}, false
	}
	if digit < 1 || digit > len(m.items) || digit > 9 {
		return suggest.Suggestion{}, false
	}
	return m.items[digit-1], true
}

// Cancel hides the menu (escape).
func (m *Menu) Cancel() {
	m.hide()
}

// Blur hides the menu when the surface loses focus.
func (m *Menu) Blur() {
	m.hide()
}

// Committed hides the menu after a successful commit.
func (m *Menu) Committed() {
	m.hide()
}

func (m *Menu) hide() {
	m.mu.Lock()
	if m.state != Hidden || m.items != nil {
		m.items = nil
		m.hideLocked()
		m.notifyLocked()
	}
	m.mu.Unlock()
}

func (m *Menu) hideLocked() {
	m.state = Hidden
	m.selected = -1
}

// notifyLocked invokes the listener while holding the lock; listeners
// must not call back into the menu.
func (m *Menu) notifyLocked() {
	if m.listener != nil {
		m.listener(m.surfaceID, m.state, m.selected)
	}
}
