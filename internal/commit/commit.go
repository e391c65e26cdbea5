// Package commit performs suggestion acceptance and its single-shot undo.
// All text mutation goes through the surface registry so state and host
// notifications stay consistent.
package commit

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ghosttype/ghosttype/internal/logging"
	"github.com/ghosttype/ghosttype/internal/suggest"
	"github.com/ghosttype/ghosttype/internal/surface"
)

// Commit errors
var (
	ErrUnknownSurface = errors.New("unknown surface")
	ErrInvalidSpan    = errors.New("word span out of range")
)

// UndoToken records one accepted completion so a qualifying backspace can
// revert it. At most one live token exists per surface; the next commit
// for that surface replaces it.
type UndoToken struct {
	ID              string
	SurfaceID       string
	CommittedWord   string
	OriginalWord    string
	CommitEndOffset int
	TrailingSpace   bool
	Timestamp       time.Time
}

// Manager rewrites surface text at word boundaries and owns the per-
// surface undo tokens.
type Manager struct {
	mu       sync.Mutex
	registry *surface.Registry
	tokens   map[string]UndoToken
	logger   *logging.Logger
}

// NewManager creates a commit manager bound to a registry.
func NewManager(reg *surface.Registry, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Null
	}
	return &Manager{
		registry: reg,
		tokens:   make(map[string]UndoToken),
		logger:   logger.WithComponent("commit"),
	}
}

// Commit replaces the current word span of the surface with the
// suggestion, optionally appending a trailing space, moves the caret to
// the end of the inserted text, and records the undo token. The rewrite
// is all-or-nothing: any out-of-range computation aborts without
// mutating.
func (m *Manager) Commit(surfaceID string, s suggest.Suggestion, addTrailingSpace bool) error {
	st, ok := m.registry.StateOf(surfaceID)
	if !ok {
		return ErrUnknownSurface
	}

	runes := []rune(st.Text)
	start, end := st.Word.WordStart, st.Word.WordEnd
	if start < 0 || start > end || end > len(runes) {
		return ErrInvalidSpan
	}

	inserted := s.Word
	if addTrailingSpace {
		inserted += " "
	}
	insertedRunes := []rune(inserted)

	newText := make([]rune, 0, len(runes)-(end-start)+len(insertedRunes))
	newText = append(newText, runes[:start]...)
	newText = append(newText, insertedRunes...)
	newText = append(newText, runes[end:]...)
	caret := start + len(insertedRunes)

	original := string(runes[start:end])

	if _, err := m.registry.ApplyEdit(surfaceID, string(newText), caret); err != nil {
		return err
	}

	token := UndoToken{
		ID:              uuid.NewString(),
		SurfaceID:       surfaceID,
		CommittedWord:   s.Word,
		OriginalWord:    original,
		CommitEndOffset: caret,
		TrailingSpace:   addTrailingSpace,
		Timestamp:       time.Now(),
	}

	m.mu.Lock()
	m.tokens[surfaceID] = token
	m.mu.Unlock()
	m.registry.SetPendingCommit(surfaceID, token.ID)

	m.logger.Debug("committed %q over %q on %s", s.Word, original, surfaceID)
	return nil
}

// TrySmartBackspace reverts the last commit for the surface if and only
// if the caret sits exactly at the recorded post-commit offset. Any
// positional mismatch, or a stale token whose text no longer matches,
// silently falls through to default backspace handling. Returns true
// when the backspace was consumed.
func (m *Manager) TrySmartBackspace(surfaceID string, caret int) bool {
	m.mu.Lock()
	token, ok := m.tokens[surfaceID]
	m.mu.Unlock()
	if !ok || caret != token.CommitEndOffset {
		return false
	}

	st, found := m.registry.StateOf(surfaceID)
	if !found {
		m.consume(surfaceID)
		return false
	}

	committed := token.CommittedWord
	if token.TrailingSpace {
		committed += " "
	}
	committedRunes := []rune(committed)

	runes := []rune(st.Text)
	start := token.CommitEndOffset - len(committedRunes)
	if start < 0 || token.CommitEndOffset > len(runes) {
		return false
	}
	// The surface may have been edited since the commit; revert only if
	// the committed text is still in place.
	if string(runes[start:token.CommitEndOffset]) != committed {
		return false
	}

	originalRunes := []rune(token.OriginalWord)
	newText := make([]rune, 0, len(runes)-len(committedRunes)+len(originalRunes))
	newText = append(newText, runes[:start]...)
	newText = append(newText, originalRunes...)
	newText = append(newText, runes[token.CommitEndOffset:]...)
	newCaret := start + len(originalRunes)

	if _, err := m.registry.ApplyEdit(surfaceID, string(newText), newCaret); err != nil {
		m.logger.Warn("smart backspace failed on %s: %v", surfaceID, err)
		return false
	}

	m.consume(surfaceID)
	m.logger.Debug("reverted %q to %q on %s", token.CommittedWord, token.OriginalWord, surfaceID)
	return true
}

// Token returns the live undo token for a surface, if any.
func (m *Manager) Token(surfaceID string) (UndoToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[surfaceID]
	return t, ok
}

// Forget drops the undo token for a surface without reverting, used when
// the surface leaves the page.
func (m *Manager) Forget(surfaceID string) {
	m.consume(surfaceID)
}

func (m *Manager) consume(surfaceID string) {
	m.mu.Lock()
	delete(m.tokens, surfaceID)
	m.mu.Unlock()
	m.registry.SetPendingCommit(surfaceID, "")
}
