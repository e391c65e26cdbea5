// Package surface discovers and instruments text-entry surfaces and owns
// all per-surface state. The registry is the sole mutator of surface
// state; other components read snapshots and route changes back through
// it.
package surface

import (
	"github.com/ghosttype/ghosttype/internal/word"
)

// Kind classifies a text-entry surface.
type Kind int

const (
	// KindPlain is a single-line text field.
	KindPlain Kind = iota

	// KindMultiline is a multi-line text area.
	KindMultiline

	// KindEditable is a rich editable region.
	KindEditable
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindMultiline:
		return "multiline"
	case KindEditable:
		return "editable-region"
	default:
		return "unknown"
	}
}

// Traits are the static capabilities of a surface relevant to
// eligibility.
type Traits struct {
	Disabled  bool
	ReadOnly  bool
	Visible   bool
	Sensitive bool
	Width     int
	Height    int
}

// Surface is a live reference to one text-entry element on a host page.
// All offsets are rune offsets. Implementations belong to the host; the
// registry owns the surface for its registered lifetime.
type Surface interface {
	// ID returns a stable unique identifier.
	ID() string

	// Kind returns the surface classification.
	Kind() Kind

	// Value returns the full current text.
	Value() string

	// SetValue replaces the full text.
	SetValue(text string)

	// Caret returns the caret rune offset.
	Caret() int

	// SetCaret moves the caret.
	SetCaret(offset int)

	// Traits returns the surface's eligibility-relevant capabilities.
	Traits() Traits

	// Geometry returns the surface's viewport layout for caret
	// positioning.
	Geometry() word.Geometry
}

// StructuralObserver notifies the registry of surfaces entering and
// leaving the page. It abstracts host-platform mutation observation so
// the registry is testable without a real page.
type StructuralObserver interface {
	// Observe starts observation, invoking added for each eligible
	// candidate and removed when an element leaves the page. The
	// returned stop function ends observation.
	Observe(added func(Surface), removed func(id string)) (stop func(), err error)
}
