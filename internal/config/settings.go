// Package config loads, normalizes, and watches the autocomplete
// settings. The persisted settings object carries more than the core
// needs (appearance, accessibility); those fields pass through opaquely
// and only the fields the engine consumes are modeled here.
package config

import (
	"time"

	"github.com/ghosttype/ghosttype/internal/gate"
	"github.com/ghosttype/ghosttype/internal/keybind"
)

// Limits for normalization. Malformed or out-of-range values coerce to
// the nearest valid value, never to an error.
const (
	MinWordLengthFloor   = 1
	MinWordLengthCeil    = 10
	MaxSuggestionsFloor  = 1
	MaxSuggestionsCeil   = 9
	DebounceFloor        = 10 * time.Millisecond
	DebounceCeil         = 2 * time.Second
	DefaultMinWordLength = 2
	DefaultMaxSuggest    = 5
	DefaultDebounce      = 100 * time.Millisecond
)

// Settings is the subset of the persisted configuration the engine
// reads.
type Settings struct {
	// MinWordLength is the shortest word forwarded to the engine.
	MinWordLength int `toml:"minWordLength"`

	// MaxSuggestions caps the suggestion list length.
	MaxSuggestions int `toml:"maxSuggestions"`

	// DebounceTime is the keystroke-to-request delay.
	DebounceTime time.Duration `toml:"debounceTime"`

	// NumberSelection enables picking menu entries with digits 1-9.
	NumberSelection bool `toml:"numberSelection"`

	// KeyBindings maps action names to chord list strings, e.g.
	// "insertWithSpace" -> "tab, ctrl+enter".
	KeyBindings map[string]string `toml:"keyBindings"`

	// Domains gates activation per hostname.
	Domains gate.DomainSettings `toml:"domains"`
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		MinWordLength:   DefaultMinWordLength,
		MaxSuggestions:  DefaultMaxSuggest,
		DebounceTime:    DefaultDebounce,
		NumberSelection: true,
		Domains:         gate.DomainSettings{Mode: gate.ModeBlocklist},
	}
}

// Normalize coerces every field into its valid range. It is total and
// idempotent: any input produces usable settings.
func (s *Settings) Normalize() {
	if s.MinWordLength < MinWordLengthFloor || s.MinWordLength > MinWordLengthCeil {
		s.MinWordLength = DefaultMinWordLength
	}
	if s.MaxSuggestions < MaxSuggestionsFloor {
		s.MaxSuggestions = DefaultMaxSuggest
	}
	if s.MaxSuggestions > MaxSuggestionsCeil {
		s.MaxSuggestions = MaxSuggestionsCeil
	}
	if s.DebounceTime < DebounceFloor || s.DebounceTime > DebounceCeil {
		s.DebounceTime = DefaultDebounce
	}
	switch s.Domains.Mode {
	case gate.ModeAllowlist, gate.ModeBlocklist:
	default:
		s.Domains.Mode = gate.ModeBlocklist
	}
}

// Bindings resolves the configured key bindings into a conflict-free
// binding set, falling back to the defaults for unbound actions.
// Unparseable chords drop out during parsing; an action whose chords all
// dropped keeps its default.
func (s Settings) Bindings() keybind.Bindings {
	b := keybind.DefaultBindings()
	for name, spec := range s.KeyBindings {
		action, ok := actionByName(name)
		if !ok {
			continue
		}
		if chords := keybind.ParseChords(spec); chords != nil {
			b[action] = chords
		}
	}
	return keybind.ResolveConflicts(b)
}

func actionByName(name string) (keybind.Action, bool) {
	for _, a := range keybind.Actions() {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}
