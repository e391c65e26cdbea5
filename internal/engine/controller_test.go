package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/ghosttype/ghosttype/internal/config"
	"github.com/ghosttype/ghosttype/internal/gate"
	"github.com/ghosttype/ghosttype/internal/ghost"
	"github.com/ghosttype/ghosttype/internal/keybind"
	"github.com/ghosttype/ghosttype/internal/menu"
	"github.com/ghosttype/ghosttype/internal/suggest"
	"github.com/ghosttype/ghosttype/internal/surface"
	"github.com/ghosttype/ghosttype/internal/word"
)

type previewSink struct {
	mu     sync.Mutex
	shown  []ghost.Preview
	hidden int
}

func (s *previewSink) ShowPreview(p ghost.Preview, at word.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, p)
}

func (s *previewSink) HidePreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden++
}

func (s *previewSink) hiddenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

func (s *previewSink) last() (ghost.Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.shown) == 0 {
		return ghost.Preview{}, false
	}
	return s.shown[len(s.shown)-1], true
}

func testSettings() config.Settings {
	s := config.Default()
	s.DebounceTime = 5 * time.Millisecond
	return s
}

// newFixture wires a controller over a word-list engine and returns a
// channel signaling each menu change.
func newFixture(t *testing.T, words []string, settings config.Settings) (*Controller, *surface.Field, *previewSink, chan menu.State) {
	t.Helper()

	sink := &previewSink{}
	ctrl := NewController(settings, Options{
		Engine:   suggest.NewWordListEngine(words),
		Measurer: word.MonoMeasurer{},
		Sink:     sink,
	})
	t.Cleanup(ctrl.Close)

	changes := make(chan menu.State, 64)
	ctrl.Menu().SetChangeListener(func(_ string, state menu.State, _ int) {
		changes <- state
	})

	f := surface.NewField(surface.FieldConfig{Kind: surface.KindPlain})
	if err := ctrl.Registry().Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ctrl.HandleFocus(f.ID())
	return ctrl, f, sink, changes
}

func waitState(t *testing.T, changes chan menu.State, want menu.State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-changes:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("menu never reached %v", want)
		}
	}
}

// typeWord simulates the host inserting text rune by rune.
func typeWord(ctrl *Controller, f *surface.Field, text string) {
	for _, r := range text {
		f.InsertRune(r)
		ctrl.HandleInput(f.ID(), f.Value(), f.Caret())
	}
}

func TestTypeNavigateAccept(t *testing.T) {
	ctrl, f, sink, changes := newFixture(t, []string{"program", "project", "problem"}, testSettings())

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	items := ctrl.Menu().Items()
	if len(items) != 3 || items[0].Word != "program" {
		t.Fatalf("items = %+v", items)
	}

	if !ctrl.HandleKey(f.ID(), keybind.Chord{Key: "down"}) {
		t.Fatal("down not consumed while menu visible")
	}
	if sel, _ := ctrl.Menu().SelectedSuggestion(); sel.Word != "project" {
		t.Fatalf("selected = %q, want project", sel.Word)
	}

	if !ctrl.HandleKey(f.ID(), keybind.Chord{Key: "tab"}) {
		t.Fatal("tab not consumed")
	}
	if got := f.Value(); got != "project " {
		t.Errorf("value = %q, want %q", got, "project ")
	}
	if got := f.Caret(); got != 8 {
		t.Errorf("caret = %d, want 8", got)
	}
	if ctrl.Menu().State() != menu.Hidden {
		t.Error("menu should hide after commit")
	}
	if sink.hiddenCount() == 0 {
		t.Error("preview not cleared after commit")
	}
}

func TestGhostPreviewShowsRemainder(t *testing.T) {
	ctrl, f, sink, changes := newFixture(t, []string{"program"}, testSettings())

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	// The preview lands just after the menu change fires.
	var p ghost.Preview
	var ok bool
	for deadline := time.Now().Add(2 * time.Second); time.Now().Before(deadline); {
		if p, ok = sink.last(); ok {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !ok {
		t.Fatal("no preview shown")
	}
	if p.Text != "gram" {
		t.Errorf("preview text = %q, want %q", p.Text, "gram")
	}
	if p.SurfaceID != f.ID() {
		t.Errorf("preview surface = %q, want %q", p.SurfaceID, f.ID())
	}
}

func TestSmartBackspaceRestoresPrefix(t *testing.T) {
	ctrl, f, _, changes := newFixture(t, []string{"project"}, testSettings())

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	if !ctrl.HandleKey(f.ID(), keybind.Chord{Key: "tab"}) {
		t.Fatal("tab not consumed")
	}
	if f.Value() != "project " {
		t.Fatalf("value = %q", f.Value())
	}

	if !ctrl.HandleKey(f.ID(), keybind.Chord{Key: "backspace"}) {
		t.Fatal("backspace should be consumed right after commit")
	}
	if f.Value() != "pro" {
		t.Errorf("value = %q, want %q", f.Value(), "pro")
	}
	if f.Caret() != 3 {
		t.Errorf("caret = %d, want 3", f.Caret())
	}

	// A second backspace is a plain delete again.
	if ctrl.HandleKey(f.ID(), keybind.Chord{Key: "backspace"}) {
		t.Error("second backspace should pass through")
	}
}

func TestEscapeDismissesWithoutEditing(t *testing.T) {
	ctrl, f, _, changes := newFixture(t, []string{"project"}, testSettings())

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	if !ctrl.HandleKey(f.ID(), keybind.Chord{Key: "escape"}) {
		t.Fatal("escape not consumed")
	}
	if ctrl.Menu().State() != menu.Hidden {
		t.Error("menu should hide on escape")
	}
	if f.Value() != "pro" {
		t.Errorf("value = %q, escape must not edit", f.Value())
	}
}

func TestDigitSelection(t *testing.T) {
	ctrl, f, _, changes := newFixture(t, []string{"program", "project"}, testSettings())

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	if !ctrl.HandleKey(f.ID(), keybind.Chord{Key: "2"}) {
		t.Fatal("digit 2 not consumed")
	}
	if f.Value() != "project " {
		t.Errorf("value = %q, want %q", f.Value(), "project ")
	}
}

func TestDigitSelectionDisabledPassesThrough(t *testing.T) {
	settings := testSettings()
	settings.NumberSelection = false
	ctrl, f, _, changes := newFixture(t, []string{"program", "project"}, settings)

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	if ctrl.HandleKey(f.ID(), keybind.Chord{Key: "2"}) {
		t.Error("digit should pass through when number selection is off")
	}
	if f.Value() != "pro" {
		t.Errorf("value = %q, want unchanged", f.Value())
	}
}

func TestKeysPassThroughWhenMenuHidden(t *testing.T) {
	ctrl, f, _, _ := newFixture(t, []string{"project"}, testSettings())

	for _, chord := range []keybind.Chord{
		{Key: "tab"},
		{Key: "down"},
		{Key: "escape"},
		{Key: "tab", Mods: keybind.ModShift},
	} {
		if ctrl.HandleKey(f.ID(), chord) {
			t.Errorf("chord %s consumed while menu hidden", chord)
		}
	}
}

func TestBlurHidesMenuAndPreview(t *testing.T) {
	ctrl, f, sink, changes := newFixture(t, []string{"project"}, testSettings())

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	ctrl.HandleBlur(f.ID())
	if ctrl.Menu().State() != menu.Hidden {
		t.Error("menu should hide on blur")
	}
	if sink.hiddenCount() == 0 {
		t.Error("preview should hide on blur")
	}
}

func TestToggleGlobalDisablesPipeline(t *testing.T) {
	ctrl, f, _, changes := newFixture(t, []string{"project"}, testSettings())

	toggle := keybind.Chord{Key: "space", Mods: keybind.ModCtrl | keybind.ModShift}
	if !ctrl.HandleKey(f.ID(), toggle) {
		t.Fatal("toggle chord not consumed")
	}
	if ctrl.Enabled() {
		t.Fatal("controller should be disabled")
	}

	typeWord(ctrl, f, "pro")
	select {
	case st := <-changes:
		if st == menu.Visible {
			t.Fatal("menu appeared while disabled")
		}
	case <-time.After(50 * time.Millisecond):
	}

	if !ctrl.HandleKey(f.ID(), toggle) {
		t.Fatal("toggle chord not consumed when disabled")
	}
	if !ctrl.Enabled() {
		t.Error("controller should re-enable")
	}
}

func TestCaretMoveDismisses(t *testing.T) {
	ctrl, f, _, changes := newFixture(t, []string{"project"}, testSettings())

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	f.SetCaret(0)
	ctrl.HandleCaret(f.ID(), 0)
	if ctrl.Menu().State() != menu.Hidden {
		t.Error("menu should hide on caret move")
	}
}

func TestDetachForgetsSurface(t *testing.T) {
	ctrl, f, _, changes := newFixture(t, []string{"project"}, testSettings())

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	ctrl.HandleDetach(f.ID())
	if ctrl.Menu().State() != menu.Hidden {
		t.Error("menu should hide on detach")
	}
	if _, ok := ctrl.Registry().Surface(f.ID()); ok {
		t.Error("surface should leave the registry")
	}
}

func TestApplySettingsRebindsKeys(t *testing.T) {
	ctrl, f, _, changes := newFixture(t, []string{"project"}, testSettings())

	settings := testSettings()
	settings.KeyBindings = map[string]string{"insertWithSpace": "ctrl+enter"}
	ctrl.ApplySettings(settings)

	typeWord(ctrl, f, "pro")
	waitState(t, changes, menu.Visible)

	if ctrl.HandleKey(f.ID(), keybind.Chord{Key: "tab"}) {
		t.Error("tab should no longer be bound")
	}
	if !ctrl.HandleKey(f.ID(), keybind.Chord{Key: "enter", Mods: keybind.ModCtrl}) {
		t.Fatal("ctrl+enter should accept")
	}
	if f.Value() != "project " {
		t.Errorf("value = %q", f.Value())
	}
}

func TestSessionDomainGate(t *testing.T) {
	settings := testSettings()
	settings.Domains = gate.DomainSettings{Mode: gate.ModeBlocklist, Patterns: []string{"*.bank.example"}}

	blocked := NewSession("login.bank.example", settings, Options{Engine: suggest.NewWordListEngine(nil)})
	defer blocked.Close()
	if blocked.Active() {
		t.Error("blocklisted host should be inactive")
	}

	allowed := NewSession("docs.example.com", settings, Options{Engine: suggest.NewWordListEngine(nil)})
	defer allowed.Close()
	if !allowed.Active() {
		t.Error("unlisted host should be active")
	}

	// Flipping the settings re-evaluates the gate on the live session.
	settings.Domains = gate.DomainSettings{Mode: gate.ModeAllowlist, Patterns: []string{"docs.example.com"}}
	blocked.ApplySettings(settings)
	if blocked.Active() {
		t.Error("host absent from allowlist should stay inactive")
	}
	allowed.ApplySettings(settings)
	if !allowed.Active() {
		t.Error("allowlisted host should stay active")
	}
}
