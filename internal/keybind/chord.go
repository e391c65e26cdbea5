package keybind

import (
	"strings"
	"unicode"
)

// Chord is a key plus a modifier set, the atomic unit of keybinding
// configuration. Chord is an immutable value type; the Key field holds the
// canonical lowercase token (e.g. "enter", "a", "comma").
type Chord struct {
	Key  string
	Mods Modifier
}

// Signature returns a deterministic canonical form used for deduplication
// and equality: sorted modifier names joined with the key.
func (c Chord) Signature() string {
	names := c.Mods.Names()
	if len(names) == 0 {
		return c.Key
	}
	return strings.Join(names, "+") + "+" + c.Key
}

// Equals returns true if two chords have the same signature.
func (c Chord) Equals(other Chord) bool {
	return c.Key == other.Key && c.Mods == other.Mods
}

// IsBareDigit returns true if the chord is a single digit with no
// modifiers. Such chords conflict with digit-selection of menu entries.
func (c Chord) IsBareDigit() bool {
	if !c.Mods.IsEmpty() || len(c.Key) != 1 {
		return false
	}
	return c.Key[0] >= '0' && c.Key[0] <= '9'
}

// String returns the canonical chord spelling, e.g. "ctrl+shift+p".
func (c Chord) String() string {
	return c.Signature()
}

// keySynonyms maps accepted key spellings to canonical tokens.
var keySynonyms = map[string]string{
	"return":     "enter",
	"cr":         "enter",
	"esc":        "escape",
	"arrowup":    "up",
	"arrowdown":  "down",
	"arrowleft":  "left",
	"arrowright": "right",
	"pgup":       "pageup",
	"pgdn":       "pagedown",
	"del":        "delete",
	"ins":        "insert",
	"bs":         "backspace",
	"spacebar":   "space",
	",":          "comma",
	".":          "period",
	";":          "semicolon",
	"'":          "quote",
	"`":          "backquote",
	"/":          "slash",
	"\\":         "backslash",
	"[":          "bracketleft",
	"]":          "bracketright",
	"-":          "minus",
	"=":          "equal",
}

// namedKeys is the set of recognized multi-character key tokens.
var namedKeys = map[string]bool{
	"enter": true, "escape": true, "tab": true, "space": true,
	"backspace": true, "delete": true, "insert": true,
	"home": true, "end": true, "pageup": true, "pagedown": true,
	"up": true, "down": true, "left": true, "right": true,
	"comma": true, "period": true, "semicolon": true, "quote": true,
	"backquote": true, "slash": true, "backslash": true,
	"bracketleft": true, "bracketright": true, "minus": true, "equal": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}

// NormalizeKey returns the canonical token for a key name, or "" if the
// name is not recognized.
func NormalizeKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if syn, ok := keySynonyms[name]; ok {
		name = syn
	}
	if namedKeys[name] {
		return name
	}
	// Single printable character.
	runes := []rune(name)
	if len(runes) == 1 && unicode.IsPrint(runes[0]) && !unicode.IsSpace(runes[0]) {
		return string(unicode.ToLower(runes[0]))
	}
	return ""
}
