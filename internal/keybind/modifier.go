package keybind

import "strings"

// Modifier represents keyboard modifier keys as a bitmask.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModCmd indicates the Command key (Meta/Win elsewhere).
	ModCmd
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Names returns the canonical modifier names in signature order
// (alt, cmd, ctrl, shift).
func (m Modifier) Names() []string {
	var names []string
	if m.Has(ModAlt) {
		names = append(names, "alt")
	}
	if m.Has(ModCmd) {
		names = append(names, "cmd")
	}
	if m.Has(ModCtrl) {
		names = append(names, "ctrl")
	}
	if m.Has(ModShift) {
		names = append(names, "shift")
	}
	return names
}

// String returns a human-readable representation like "ctrl+shift".
func (m Modifier) String() string {
	return strings.Join(m.Names(), "+")
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"cmd":     ModCmd,
	"command": ModCmd,
	"meta":    ModCmd,
	"win":     ModCmd,
	"super":   ModCmd,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	if m, ok := modifierNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m
	}
	return ModNone
}
