package surface

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ghosttype/ghosttype/internal/word"
)

// Field is an in-memory Surface implementation used by terminal hosts and
// tests. Offsets are rune offsets.
type Field struct {
	mu       sync.Mutex
	id       string
	kind     Kind
	value    []rune
	caret    int
	traits   Traits
	geometry word.Geometry
}

// FieldConfig configures a new Field.
type FieldConfig struct {
	Kind     Kind
	Value    string
	Traits   Traits
	Geometry word.Geometry
}

// NewField creates a field with a generated unique ID.
func NewField(cfg FieldConfig) *Field {
	if cfg.Traits == (Traits{}) {
		cfg.Traits = Traits{Visible: true, Width: 200, Height: 20}
	}
	return &Field{
		id:       uuid.NewString(),
		kind:     cfg.Kind,
		value:    []rune(cfg.Value),
		traits:   cfg.Traits,
		geometry: cfg.Geometry,
	}
}

// ID implements Surface.
func (f *Field) ID() string { return f.id }

// Kind implements Surface.
func (f *Field) Kind() Kind { return f.kind }

// Value implements Surface.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.value)
}

// SetValue implements Surface. The caret is clamped to the new length.
func (f *Field) SetValue(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = []rune(text)
	if f.caret > len(f.value) {
		f.caret = len(f.value)
	}
}

// Caret implements Surface.
func (f *Field) Caret() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.caret
}

// SetCaret implements Surface, clamping into range.
func (f *Field) SetCaret(offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.value) {
		offset = len(f.value)
	}
	f.caret = offset
}

// Traits implements Surface.
func (f *Field) Traits() Traits { return f.traits }

// Geometry implements Surface.
func (f *Field) Geometry() word.Geometry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.geometry
}

// SetGeometry updates the field's viewport layout (scroll, reposition).
func (f *Field) SetGeometry(g word.Geometry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geometry = g
}

// InsertRune inserts a rune at the caret, advancing it. A host editing
// convenience; the registry is still notified separately.
func (f *Field) InsertRune(r rune) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = append(f.value[:f.caret], append([]rune{r}, f.value[f.caret:]...)...)
	f.caret++
}

// DeleteBeforeCaret removes the rune before the caret, if any, and
// reports whether anything was removed.
func (f *Field) DeleteBeforeCaret() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.caret == 0 {
		return false
	}
	f.value = append(f.value[:f.caret-1], f.value[f.caret:]...)
	f.caret--
	return true
}
