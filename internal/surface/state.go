package surface

import (
	"fmt"

	"github.com/ghosttype/ghosttype/internal/suggest"
	"github.com/ghosttype/ghosttype/internal/word"
)

// State is the registry's record for one surface. It is mutated only by
// the owning registry; callers receive copies.
//
// Invariant: 0 <= Word.WordStart <= Caret <= Word.WordEnd <= len(Text)
// in runes.
type State struct {
	// SurfaceID identifies the owning surface.
	SurfaceID string

	// Text is the surface's full text at the last notification.
	Text string

	// Caret is the caret rune offset.
	Caret int

	// Word is the span of the word surrounding the caret.
	Word word.Span

	// Suggestions is the current suggestion list, engine order.
	Suggestions []suggest.Suggestion

	// Selected is the index of the highlighted suggestion, -1 when the
	// list is empty.
	Selected int

	// Active is true while the surface has focus.
	Active bool

	// PendingCommit identifies the live undo token for this surface,
	// empty when none exists.
	PendingCommit string
}

// clone returns a copy safe to hand outside the registry.
func (s *State) clone() State {
	out := *s
	if s.Suggestions != nil {
		out.Suggestions = make([]suggest.Suggestion, len(s.Suggestions))
		copy(out.Suggestions, s.Suggestions)
	}
	return out
}

// validate checks the state invariant.
func (s *State) validate() error {
	n := len([]rune(s.Text))
	if s.Word.WordStart < 0 || s.Word.WordStart > s.Caret ||
		s.Caret > s.Word.WordEnd || s.Word.WordEnd > n {
		return fmt.Errorf("surface %s: span [%d,%d) caret %d text length %d",
			s.SurfaceID, s.Word.WordStart, s.Word.WordEnd, s.Caret, n)
	}
	return nil
}

// refreshWord recomputes the word span from text and caret, clamping the
// caret into range first.
func (s *State) refreshWord() {
	s.Caret = word.ClampCaret(s.Text, s.Caret)
	s.Word = word.At(s.Text, s.Caret)
}
