// Package keybind parses and normalizes user-configured key chords,
// resolves conflicts between actions, and flags chords that collide with
// host platform shortcuts.
//
// A chord is a key plus a modifier set. Chords are compared by a
// canonical signature (sorted modifier names plus the key token), so
// "shift+ctrl+P" and "ctrl+shift+p" are the same chord.
//
// Conflict resolution is first-claim-wins over a fixed action priority;
// it never fails. Host-reservation checks are advisory only.
package keybind
