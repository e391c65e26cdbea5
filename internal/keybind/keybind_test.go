package keybind

import (
	"strings"
	"testing"
)

func TestParseChords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // expected signatures
	}{
		{"single key", "tab", []string{"tab"}},
		{"modifier chord", "ctrl+space", []string{"ctrl+space"}},
		{"multiple chords", "ctrl+enter, alt+o", []string{"ctrl+enter", "alt+o"}},
		{"synonym return", "ctrl+return", []string{"ctrl+enter"}},
		{"synonym esc", "esc", []string{"escape"}},
		{"arrow synonym", "arrowdown", []string{"down"}},
		{"punctuation named", "ctrl+,", []string{"ctrl+comma"}},
		{"modifier order normalized", "shift+ctrl+p", []string{"ctrl+shift+p"}},
		{"cmd synonym meta", "meta+k", []string{"cmd+k"}},
		{"dedup", "cmd+a, cmd+a", []string{"cmd+a"}},
		{"drops unrecognized", "ctrl+bogus, tab", []string{"tab"}},
		{"empty input", "", nil},
		{"whitespace tolerated", "  ctrl + s  ", []string{"ctrl+s"}},
		{"uppercase letter lowered", "Ctrl+S", []string{"ctrl+s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseChords(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseChords(%q) = %v chords, want %v", tt.input, len(got), len(tt.want))
			}
			for i, c := range got {
				if c.Signature() != tt.want[i] {
					t.Errorf("chord %d = %q, want %q", i, c.Signature(), tt.want[i])
				}
			}
		})
	}
}

func TestParseChordSpecs(t *testing.T) {
	specs := []ChordSpec{
		{Key: "Return", Modifiers: []string{"control"}},
		{Key: "enter", Modifiers: []string{"ctrl"}},
		{Key: "nope"},
	}
	got := ParseChordSpecs(specs)
	if len(got) != 1 {
		t.Fatalf("got %d chords, want 1", len(got))
	}
	if sig := got[0].Signature(); sig != "ctrl+enter" {
		t.Errorf("signature = %q, want ctrl+enter", sig)
	}
}

func TestResolveConflicts(t *testing.T) {
	ctrl1 := Chord{Key: "1", Mods: ModCtrl}
	b := Bindings{
		ActionInsertWithSpace: {ctrl1, {Key: "tab"}},
		ActionNavigateDown:    {ctrl1, {Key: "down"}},
	}
	cleaned := ResolveConflicts(b)

	if n := len(cleaned[ActionInsertWithSpace]); n != 2 {
		t.Errorf("higher-priority action kept %d chords, want 2", n)
	}
	for _, c := range cleaned[ActionNavigateDown] {
		if c.Equals(ctrl1) {
			t.Error("lower-priority action kept a claimed chord")
		}
	}
	if n := len(cleaned[ActionNavigateDown]); n != 1 {
		t.Errorf("lower-priority action kept %d chords, want 1", n)
	}
}

func TestResolveConflictsWithinAction(t *testing.T) {
	b := Bindings{
		ActionClose: {{Key: "escape"}, {Key: "escape"}},
	}
	cleaned := ResolveConflicts(b)
	if n := len(cleaned[ActionClose]); n != 1 {
		t.Errorf("kept %d chords, want 1", n)
	}
}

func TestDigitSelectionAllowed(t *testing.T) {
	b := DefaultBindings()
	if !DigitSelectionAllowed(b) {
		t.Error("defaults should permit digit selection")
	}

	b[ActionInsertWithoutSpace] = []Chord{{Key: "3"}}
	if DigitSelectionAllowed(b) {
		t.Error("bare-digit insert chord must disable digit selection")
	}

	// A modified digit does not disable it.
	b[ActionInsertWithoutSpace] = []Chord{{Key: "3", Mods: ModCtrl}}
	if !DigitSelectionAllowed(b) {
		t.Error("modified digit chord should not disable digit selection")
	}
}

func TestIsHostReserved(t *testing.T) {
	linux := Environment{}
	mac := Environment{Mac: true}

	tests := []struct {
		name  string
		chord string
		env   Environment
		level ReservationLevel
		safe  bool
	}{
		{"devtools f12", "f12", linux, LevelError, false},
		{"reload", "ctrl+r", linux, LevelError, false},
		{"hard reload", "ctrl+shift+r", linux, LevelError, false},
		{"new tab", "ctrl+t", linux, LevelError, false},
		{"close tab mac", "cmd+w", mac, LevelError, false},
		{"address bar", "ctrl+l", linux, LevelError, false},
		{"tab by number", "ctrl+4", linux, LevelError, false},
		{"devtools mac alt", "cmd+alt+i", mac, LevelError, false},
		{"print warns", "ctrl+p", linux, LevelWarn, false},
		{"save warns", "cmd+s", mac, LevelWarn, false},
		{"bookmark warns", "ctrl+d", linux, LevelWarn, false},
		{"plain letter safe", "ctrl+g", linux, 0, true},
		{"cmd chord on linux safe", "cmd+r", linux, 0, true},
		{"unmodified safe", "tab", linux, 0, true},
		{"ctrl+shift digit safe", "ctrl+shift+4", linux, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseChord(tt.chord)
			if err != nil {
				t.Fatalf("ParseChord(%q): %v", tt.chord, err)
			}
			r := IsHostReserved(c, tt.env)
			if tt.safe {
				if r != nil {
					t.Fatalf("IsHostReserved(%q) = %+v, want nil", tt.chord, r)
				}
				return
			}
			if r == nil {
				t.Fatalf("IsHostReserved(%q) = nil, want level %v", tt.chord, tt.level)
			}
			if r.Level != tt.level {
				t.Errorf("level = %v, want %v", r.Level, tt.level)
			}
			if r.Reason == "" {
				t.Error("reservation must carry a reason")
			}
		})
	}
}

func TestLoadProfileReader(t *testing.T) {
	doc := `
name: custom
bindings:
  insertWithSpace:
    - key: enter
      modifiers: [ctrl]
  navigateDown:
    - key: n
      modifiers: [ctrl]
  bogusAction:
    - key: x
`
	b, err := LoadProfileReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadProfileReader: %v", err)
	}
	if got := b[ActionInsertWithSpace]; len(got) != 1 || got[0].Signature() != "ctrl+enter" {
		t.Errorf("insertWithSpace = %v", got)
	}
	if got := b[ActionNavigateDown]; len(got) != 1 || got[0].Signature() != "ctrl+n" {
		t.Errorf("navigateDown = %v", got)
	}
	// Unspecified actions fall back to defaults.
	if got := b[ActionClose]; len(got) != 1 || got[0].Signature() != "escape" {
		t.Errorf("close = %v, want default escape", got)
	}
}

func TestChordSignatureDeterministic(t *testing.T) {
	a := Chord{Key: "p", Mods: ModShift | ModCtrl | ModAlt}
	if a.Signature() != "alt+ctrl+shift+p" {
		t.Errorf("Signature = %q", a.Signature())
	}
}
