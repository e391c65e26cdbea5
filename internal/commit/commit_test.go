package commit

import (
	"testing"

	"github.com/ghosttype/ghosttype/internal/suggest"
	"github.com/ghosttype/ghosttype/internal/surface"
)

func setup(t *testing.T, text string, caret int) (*Manager, *surface.Registry, *surface.Field) {
	t.Helper()
	reg := surface.NewRegistry()
	f := surface.NewField(surface.FieldConfig{Kind: surface.KindPlain, Value: text})
	f.SetCaret(caret)
	if err := reg.Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return NewManager(reg, nil), reg, f
}

func TestCommitRewritesWordAndMovesCaret(t *testing.T) {
	m, _, f := setup(t, "pro", 3)

	err := m.Commit(f.ID(), suggest.Suggestion{Word: "project", Rank: 2}, true)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if f.Value() != "project " {
		t.Errorf("text = %q, want %q", f.Value(), "project ")
	}
	if f.Caret() != 8 {
		t.Errorf("caret = %d, want 8", f.Caret())
	}
}

func TestCommitMidSentence(t *testing.T) {
	m, reg, f := setup(t, "the pro boils", 7)

	if err := m.Commit(f.ID(), suggest.Suggestion{Word: "program", Rank: 1}, false); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if f.Value() != "the program boils" {
		t.Errorf("text = %q", f.Value())
	}
	if f.Caret() != 11 {
		t.Errorf("caret = %d, want 11", f.Caret())
	}

	st, _ := reg.StateOf(f.ID())
	if st.PendingCommit == "" {
		t.Error("pending commit token should be recorded")
	}
}

func TestCommitRoundTrip(t *testing.T) {
	m, _, f := setup(t, "pro", 3)

	if err := m.Commit(f.ID(), suggest.Suggestion{Word: "project", Rank: 1}, true); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !m.TrySmartBackspace(f.ID(), f.Caret()) {
		t.Fatal("smart backspace at exact offset must be handled")
	}
	if f.Value() != "pro" {
		t.Errorf("text = %q, want %q restored byte-for-byte", f.Value(), "pro")
	}
	if f.Caret() != 3 {
		t.Errorf("caret = %d, want 3", f.Caret())
	}
	if _, ok := m.Token(f.ID()); ok {
		t.Error("token must be consumed by undo")
	}
}

func TestSmartBackspaceWrongOffsetIsNoop(t *testing.T) {
	m, _, f := setup(t, "pro", 3)
	if err := m.Commit(f.ID(), suggest.Suggestion{Word: "project", Rank: 1}, true); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	before := f.Value()
	for _, caret := range []int{0, 3, 7, 9} {
		if m.TrySmartBackspace(f.ID(), caret) {
			t.Errorf("backspace at %d must not be handled", caret)
		}
	}
	if f.Value() != before {
		t.Errorf("text changed to %q on refused undo", f.Value())
	}
	if _, ok := m.Token(f.ID()); !ok {
		t.Error("token must survive refused undo")
	}
}

func TestSmartBackspaceWithoutToken(t *testing.T) {
	m, _, f := setup(t, "pro", 3)
	if m.TrySmartBackspace(f.ID(), 3) {
		t.Error("no token, nothing to undo")
	}
}

func TestSmartBackspaceAfterInterveningEdit(t *testing.T) {
	m, reg, f := setup(t, "pro", 3)
	if err := m.Commit(f.ID(), suggest.Suggestion{Word: "project", Rank: 1}, false); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// User edits the committed word, then moves the caret back to what
	// happens to be the recorded offset. Content no longer matches, so
	// the undo must refuse.
	if _, err := reg.ApplyEdit(f.ID(), "proXect", 7); err != nil {
		t.Fatal(err)
	}
	if m.TrySmartBackspace(f.ID(), 7) {
		t.Error("undo must refuse when committed text was edited")
	}
	if f.Value() != "proXect" {
		t.Errorf("text = %q, want untouched", f.Value())
	}
}

func TestNextCommitReplacesToken(t *testing.T) {
	m, reg, f := setup(t, "pro", 3)
	if err := m.Commit(f.ID(), suggest.Suggestion{Word: "program", Rank: 1}, true); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	first, _ := m.Token(f.ID())

	// Start a new word and commit again.
	if _, err := reg.NotifyInput(f.ID(), "program fl", 10); err != nil {
		t.Fatal(err)
	}
	if err := m.Commit(f.ID(), suggest.Suggestion{Word: "flow", Rank: 1}, false); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	second, ok := m.Token(f.ID())
	if !ok || second.ID == first.ID {
		t.Error("second commit must replace the undo token")
	}
	if f.Value() != "program flow" {
		t.Errorf("text = %q", f.Value())
	}

	// Only the newest commit can be undone.
	if !m.TrySmartBackspace(f.ID(), f.Caret()) {
		t.Fatal("undo of newest commit should work")
	}
	if f.Value() != "program fl" {
		t.Errorf("text = %q, want %q", f.Value(), "program fl")
	}
}

func TestCommitUnknownSurface(t *testing.T) {
	reg := surface.NewRegistry()
	m := NewManager(reg, nil)
	if err := m.Commit("ghost", suggest.Suggestion{Word: "x"}, false); err != ErrUnknownSurface {
		t.Errorf("err = %v, want ErrUnknownSurface", err)
	}
}

func TestForgetDropsToken(t *testing.T) {
	m, _, f := setup(t, "pro", 3)
	if err := m.Commit(f.ID(), suggest.Suggestion{Word: "program", Rank: 1}, false); err != nil {
		t.Fatal(err)
	}
	m.Forget(f.ID())
	if m.TrySmartBackspace(f.ID(), f.Caret()) {
		t.Error("forgotten token must not be undoable")
	}
}
