package keybind

import (
	"errors"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec = errors.New("empty chord specification")
)

// ChordSpec is the structured form of a chord, as stored in settings.
type ChordSpec struct {
	Key       string   `json:"key" yaml:"key"`
	Modifiers []string `json:"modifiers" yaml:"modifiers"`
}

// ParseChords parses a delimited chord list. "+" joins modifiers and key
// within a chord, "," separates chords: "ctrl+space, alt+enter".
//
// Unrecognized keys are dropped rather than reported; malformed
// configuration must never break instrumentation. Duplicate chords are
// removed by signature, first occurrence wins.
func ParseChords(input string) []Chord {
	var chords []Chord
	for _, part := range strings.Split(input, ",") {
		c, ok := parseChord(part)
		if !ok {
			continue
		}
		chords = append(chords, c)
	}
	return Dedup(chords)
}

// ParseChordSpecs converts structured chord specs to chords, dropping
// entries with unrecognized keys and deduplicating by signature.
func ParseChordSpecs(specs []ChordSpec) []Chord {
	var chords []Chord
	for _, s := range specs {
		key := NormalizeKey(s.Key)
		if key == "" {
			continue
		}
		var mods Modifier
		for _, m := range s.Modifiers {
			mods = mods.With(ModifierFromName(m))
		}
		chords = append(chords, Chord{Key: key, Mods: mods})
	}
	return Dedup(chords)
}

// ParseChord parses a single chord like "ctrl+shift+p".
func ParseChord(spec string) (Chord, error) {
	if strings.TrimSpace(spec) == "" {
		return Chord{}, ErrEmptySpec
	}
	c, ok := parseChord(spec)
	if !ok {
		return Chord{}, errors.New("unrecognized chord: " + spec)
	}
	return c, nil
}

func parseChord(spec string) (Chord, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, false
	}

	// A trailing "+" means the key itself is "+": "ctrl++".
	keyPart := ""
	if strings.HasSuffix(spec, "+") {
		keyPart = "+"
		spec = strings.TrimRight(spec, "+")
	}

	var parts []string
	if spec != "" {
		parts = strings.Split(spec, "+")
	}
	if keyPart == "" && len(parts) > 0 {
		keyPart = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}

	var mods Modifier
	for _, p := range parts {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Chord{}, false
		}
		mods = mods.With(mod)
	}

	key := NormalizeKey(keyPart)
	if key == "" {
		return Chord{}, false
	}
	return Chord{Key: key, Mods: mods}, true
}

// Dedup removes duplicate chords by signature, preserving first-seen order.
func Dedup(chords []Chord) []Chord {
	if len(chords) < 2 {
		return chords
	}
	seen := make(map[string]bool, len(chords))
	out := chords[:0]
	for _, c := range chords {
		sig := c.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, c)
	}
	return out
}
