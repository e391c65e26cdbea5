// Package ghost renders the inline completion preview. At most one
// preview exists process-wide; it is replaced wholesale on every update
// and never mutated in place.
package ghost

import (
	"strings"
	"sync"

	"github.com/ghosttype/ghosttype/internal/surface"
	"github.com/ghosttype/ghosttype/internal/word"
)

// Preview is the single inline preview instance.
type Preview struct {
	SurfaceID    string
	Text         string
	AnchorOffset int
}

// Sink is the presentation backend: the host draws previews, the
// renderer decides what and where.
type Sink interface {
	// ShowPreview presents a preview at the given viewport position.
	ShowPreview(p Preview, at word.Point)

	// HidePreview removes any presented preview.
	HidePreview()
}

// Renderer owns the ghost preview lifecycle.
type Renderer struct {
	mu       sync.Mutex
	sink     Sink
	measurer word.Measurer
	current  *Preview

	// generation increments on every teardown, so sinks can treat each
	// text change as a fresh element.
	generation uint64
}

// NewRenderer creates a renderer. A nil measurer defaults to monospace
// metrics.
func NewRenderer(sink Sink, m word.Measurer) *Renderer {
	if m == nil {
		m = word.MonoMeasurer{}
	}
	return &Renderer{sink: sink, measurer: m}
}

// Show displays text anchored at the caret of s. Showing an identical
// preview is a no-op; any text change tears the preview down and
// recreates it. Empty text clears.
func (r *Renderer) Show(s surface.Surface, text string, anchor int) {
	if text == "" {
		r.Clear()
		return
	}

	p := Preview{SurfaceID: s.ID(), Text: text, AnchorOffset: anchor}

	r.mu.Lock()
	if r.current != nil && *r.current == p {
		r.mu.Unlock()
		return
	}
	if r.current != nil {
		r.sink.HidePreview()
		r.generation++
	}
	r.current = &p
	pos := word.CaretPosition(r.measurer, s.Geometry(), s.Value(), anchor)
	r.sink.ShowPreview(p, pos)
	r.mu.Unlock()
}

// Reposition recomputes the preview position after caret movement,
// scrolling, or a viewport resize. A preview bound to another surface is
// left alone.
func (r *Renderer) Reposition(s surface.Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.current.SurfaceID != s.ID() {
		return
	}
	pos := word.CaretPosition(r.measurer, s.Geometry(), s.Value(), r.current.AnchorOffset)
	r.sink.ShowPreview(*r.current, pos)
}

// Clear removes the preview without touching surface text (reject, blur).
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	r.current = nil
	r.generation++
	r.sink.HidePreview()
}

// Current returns a copy of the visible preview, if any.
func (r *Renderer) Current() (Preview, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return Preview{}, false
	}
	return *r.current, true
}

// Generation returns the teardown counter, mainly for tests.
func (r *Renderer) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Remainder returns the part of a suggested word not yet typed, which is
// what the preview shows after the caret. Matching is case-insensitive;
// a word that does not extend the prefix yields "".
func Remainder(suggested, prefix string) string {
	sr := []rune(suggested)
	pr := []rune(prefix)
	if len(pr) >= len(sr) {
		return ""
	}
	if !strings.EqualFold(string(sr[:len(pr)]), prefix) {
		return ""
	}
	return string(sr[len(pr):])
}
