package keybind

// ReservationLevel grades how severely a chord collides with the host.
type ReservationLevel int

const (
	// LevelWarn marks chords the browser commonly intercepts but whose
	// loss is not critical (print, save, bookmarks).
	LevelWarn ReservationLevel = iota

	// LevelError marks chords the host platform claims outright
	// (devtools, reload, tab and window management, address bar).
	LevelError
)

// String returns "warn" or "error".
func (l ReservationLevel) String() string {
	if l == LevelError {
		return "error"
	}
	return "warn"
}

// Reservation explains why a chord is considered host-reserved.
type Reservation struct {
	Level  ReservationLevel
	Reason string
}

// Environment describes the host platform for reservation checks.
type Environment struct {
	// Mac is true when the primary shortcut modifier is Command.
	Mac bool
}

// primary returns the platform's primary shortcut modifier.
func (e Environment) primary() Modifier {
	if e.Mac {
		return ModCmd
	}
	return ModCtrl
}

// IsHostReserved reports whether a chord collides with a platform or
// browser-level shortcut. The result is advisory: it informs the settings
// surface but never blocks instrumentation. Returns nil when the chord is
// safe.
func IsHostReserved(c Chord, env Environment) *Reservation {
	prim := env.primary()

	// Function-key chords the browser owns regardless of modifiers.
	switch c.Key {
	case "f12":
		return &Reservation{LevelError, "opens developer tools"}
	case "f5":
		return &Reservation{LevelError, "reloads the page"}
	case "f6":
		return &Reservation{LevelError, "moves focus to the address bar"}
	case "f11":
		return &Reservation{LevelError, "toggles fullscreen"}
	}

	if !c.Mods.Has(prim) {
		return nil
	}
	rest := c.Mods.Without(prim)

	// Tab-switch-by-number: primary+1..9.
	if rest.IsEmpty() && len(c.Key) == 1 && c.Key[0] >= '1' && c.Key[0] <= '9' {
		return &Reservation{LevelError, "switches browser tabs by number"}
	}

	if rest.IsEmpty() {
		switch c.Key {
		case "r":
			return &Reservation{LevelError, "reloads the page"}
		case "t", "n":
			return &Reservation{LevelError, "opens a new tab or window"}
		case "w":
			return &Reservation{LevelError, "closes the tab"}
		case "l":
			return &Reservation{LevelError, "focuses the address bar"}
		case "q":
			if env.Mac {
				return &Reservation{LevelError, "quits the browser"}
			}
		case "p":
			return &Reservation{LevelWarn, "opens the print dialog"}
		case "s":
			return &Reservation{LevelWarn, "saves the page"}
		case "d":
			return &Reservation{LevelWarn, "bookmarks the page"}
		}
	}

	if rest == ModShift {
		switch c.Key {
		case "i", "j", "c":
			return &Reservation{LevelError, "opens developer tools"}
		case "r":
			return &Reservation{LevelError, "hard-reloads the page"}
		case "t", "n", "w":
			return &Reservation{LevelError, "tab or window management"}
		case "o", "b":
			return &Reservation{LevelWarn, "opens the bookmark manager"}
		}
	}

	// macOS devtools alternative: cmd+alt+i / cmd+alt+j.
	if env.Mac && rest == ModAlt {
		switch c.Key {
		case "i", "j", "c":
			return &Reservation{LevelError, "opens developer tools"}
		}
	}

	return nil
}

// CheckBindings runs IsHostReserved over every chord in a binding set and
// returns the offending chords keyed by signature.
func CheckBindings(b Bindings, env Environment) map[string]Reservation {
	found := make(map[string]Reservation)
	for _, chords := range b {
		for _, c := range chords {
			if r := IsHostReserved(c, env); r != nil {
				found[c.Signature()] = *r
			}
		}
	}
	return found
}
