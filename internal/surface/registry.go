package surface

import (
	"errors"
	"sync"

	"github.com/ghosttype/ghosttype/internal/logging"
	"github.com/ghosttype/ghosttype/internal/suggest"
)

// Registry errors
var (
	ErrNotRegistered = errors.New("surface not registered")
	ErrIneligible    = errors.New("surface not eligible")
	ErrDuplicate     = errors.New("surface already registered")
)

// InputNotifier dispatches a synthetic input notification on a surface so
// host-page listeners observe programmatic mutations as if the user typed
// them.
type InputNotifier func(s Surface)

// Registry owns every instrumented surface and its state for the lifetime
// of a page. It is the sole owner and sole mutator of State.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	focused string

	eligible func(Surface) bool
	notify   InputNotifier
	logger   *logging.Logger
	metrics  Metrics

	stopObserver func()
}

type entry struct {
	surface Surface
	state   State
}

// Option configures a Registry.
type Option func(*Registry)

// WithEligibility overrides the eligibility predicate.
func WithEligibility(pred func(Surface) bool) Option {
	return func(r *Registry) { r.eligible = pred }
}

// WithInputNotifier sets the synthetic input dispatcher invoked after
// every programmatic text mutation.
func WithInputNotifier(n InputNotifier) Option {
	return func(r *Registry) { r.notify = n }
}

// WithLogger sets the registry logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) { r.logger = l.WithComponent("surface") }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries:  make(map[string]*entry),
		eligible: Eligible,
		logger:   logging.Null,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Watch wires a structural observer to Add/Remove. Any previous observer
// is stopped.
func (r *Registry) Watch(obs StructuralObserver) error {
	stop, err := obs.Observe(
		func(s Surface) { _ = r.Add(s) },
		func(id string) { r.Remove(id) },
	)
	if err != nil {
		return err
	}
	r.mu.Lock()
	prev := r.stopObserver
	r.stopObserver = stop
	r.mu.Unlock()
	if prev != nil {
		prev()
	}
	return nil
}

// Close stops observation and releases all surfaces.
func (r *Registry) Close() {
	r.mu.Lock()
	stop := r.stopObserver
	r.stopObserver = nil
	r.entries = make(map[string]*entry)
	r.focused = ""
	r.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Add instruments a surface. Ineligible surfaces are rejected; the
// rejection is counted, logged at debug and otherwise silent.
func (r *Registry) Add(s Surface) error {
	if !r.eligible(s) {
		r.metrics.rejected.Add(1)
		r.logger.Debug("rejected surface %s", s.ID())
		return ErrIneligible
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := s.ID()
	if _, exists := r.entries[id]; exists {
		return ErrDuplicate
	}

	st := State{SurfaceID: id, Text: s.Value(), Caret: s.Caret(), Selected: -1}
	st.refreshWord()

	r.entries[id] = &entry{surface: s, state: st}
	r.metrics.attached.Add(1)
	r.logger.Debug("attached %s surface %s", s.Kind(), id)
	return nil
}

// Remove releases a surface, discarding its state. Safe to call for
// unknown IDs; a surface leaving the page mid-request must not crash.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	if r.focused == id {
		r.focused = ""
	}
	r.metrics.detached.Add(1)
	r.logger.Debug("detached surface %s", id)
}

// Surface returns the registered surface for an ID.
func (r *Registry) Surface(id string) (Surface, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.surface, true
}

// StateOf returns a copy of a surface's state.
func (r *Registry) StateOf(id string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return State{}, false
	}
	return e.state.clone(), true
}

// IDs returns the registered surface IDs.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Focused returns the ID of the focused surface, or "".
func (r *Registry) Focused() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused
}

// NotifyFocus records focus entering a surface.
func (r *Registry) NotifyFocus(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	if r.focused != "" && r.focused != id {
		if prev, ok := r.entries[r.focused]; ok {
			prev.state.Active = false
		}
	}
	r.focused = id
	e.state.Active = true
	e.state.Text = e.surface.Value()
	e.state.Caret = e.surface.Caret()
	e.state.refreshWord()
}

// NotifyBlur records focus leaving a surface.
func (r *Registry) NotifyBlur(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.state.Active = false
	if r.focused == id {
		r.focused = ""
	}
}

// NotifyInput records a user edit: new text and caret. The word span is
// recomputed and the updated state returned.
func (r *Registry) NotifyInput(id, text string, caret int) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return State{}, ErrNotRegistered
	}
	e.state.Text = text
	e.state.Caret = caret
	e.state.refreshWord()
	if err := e.state.validate(); err != nil {
		// Should be unreachable after refreshWord; guard anyway.
		r.logger.Warn("state invariant violated: %v", err)
	}
	return e.state.clone(), nil
}

// NotifyCaret records a caret move without a text change.
func (r *Registry) NotifyCaret(id string, caret int) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return State{}, ErrNotRegistered
	}
	e.state.Caret = caret
	e.state.refreshWord()
	return e.state.clone(), nil
}

// SetSuggestions replaces a surface's suggestion list. Selection resets
// to 0 for a non-empty list, -1 otherwise.
func (r *Registry) SetSuggestions(id string, suggestions []suggest.Suggestion) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return State{}, ErrNotRegistered
	}
	e.state.Suggestions = suggestions
	if len(suggestions) > 0 {
		e.state.Selected = 0
	} else {
		e.state.Selected = -1
	}
	return e.state.clone(), nil
}

// SetSelected moves the suggestion selection index, clamped to the list.
func (r *Registry) SetSelected(id string, index int) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return State{}, ErrNotRegistered
	}
	if n := len(e.state.Suggestions); n == 0 {
		e.state.Selected = -1
	} else {
		if index < 0 {
			index = 0
		}
		if index >= n {
			index = n - 1
		}
		e.state.Selected = index
	}
	return e.state.clone(), nil
}

// SetPendingCommit records (or clears, with "") the live undo token ID
// for a surface.
func (r *Registry) SetPendingCommit(id, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.state.PendingCommit = token
	}
}

// ApplyEdit writes new text and caret to the surface itself, updates the
// state, and dispatches the synthetic input notification. This is the
// single mutation path used by commit and undo.
func (r *Registry) ApplyEdit(id, text string, caret int) (State, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return State{}, ErrNotRegistered
	}

	e.surface.SetValue(text)
	e.surface.SetCaret(caret)
	e.state.Text = text
	e.state.Caret = caret
	e.state.refreshWord()
	st := e.state.clone()
	s := e.surface
	notify := r.notify
	r.mu.Unlock()

	if notify != nil {
		notify(s)
	}
	return st, nil
}

// Metrics returns a snapshot of the registry counters.
func (r *Registry) Metrics() MetricsSnapshot {
	return r.metrics.snapshot()
}
