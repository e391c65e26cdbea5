package keybind

// Action identifies a user-bindable operation. The declaration order is
// the fixed conflict-resolution priority: earlier actions claim a chord
// first and later actions silently lose it.
type Action int

const (
	// ActionInsertWithSpace accepts the selected suggestion and appends
	// a trailing space.
	ActionInsertWithSpace Action = iota

	// ActionInsertWithoutSpace accepts the selected suggestion verbatim.
	ActionInsertWithoutSpace

	// ActionNavigateDown moves the menu selection down.
	ActionNavigateDown

	// ActionNavigateUp moves the menu selection up.
	ActionNavigateUp

	// ActionClose dismisses the menu and ghost preview.
	ActionClose

	// ActionOpenSettings opens the settings surface.
	ActionOpenSettings

	// ActionToggleGlobal toggles the autocomplete engine on and off.
	ActionToggleGlobal

	numActions
)

// String returns the action's configuration name.
func (a Action) String() string {
	switch a {
	case ActionInsertWithSpace:
		return "insertWithSpace"
	case ActionInsertWithoutSpace:
		return "insertWithoutSpace"
	case ActionNavigateDown:
		return "navigateDown"
	case ActionNavigateUp:
		return "navigateUp"
	case ActionClose:
		return "close"
	case ActionOpenSettings:
		return "openSettings"
	case ActionToggleGlobal:
		return "toggleGlobal"
	default:
		return "unknown"
	}
}

// Actions returns all actions in priority order.
func Actions() []Action {
	actions := make([]Action, numActions)
	for i := range actions {
		actions[i] = Action(i)
	}
	return actions
}

// Bindings maps each action to its configured chords.
type Bindings map[Action][]Chord

// ResolveConflicts returns a copy of b in which every chord belongs to at
// most one action. Actions are visited in priority order; a chord already
// claimed by a higher-priority action is dropped from lower-priority ones.
// First-claim-wins is a policy, not an error.
func ResolveConflicts(b Bindings) Bindings {
	claimed := make(map[string]bool)
	cleaned := make(Bindings, len(b))

	for _, action := range Actions() {
		var kept []Chord
		for _, c := range Dedup(b[action]) {
			sig := c.Signature()
			if claimed[sig] {
				continue
			}
			claimed[sig] = true
			kept = append(kept, c)
		}
		if kept != nil {
			cleaned[action] = kept
		}
	}
	return cleaned
}

// DigitSelectionAllowed reports whether digit keys 1-9 may select menu
// entries directly. Digit selection is disabled entirely when any
// insertion chord is itself a bare digit, to avoid ambiguity.
func DigitSelectionAllowed(b Bindings) bool {
	for _, action := range []Action{ActionInsertWithSpace, ActionInsertWithoutSpace} {
		for _, c := range b[action] {
			if c.IsBareDigit() {
				return false
			}
		}
	}
	return true
}

// Lookup returns the action bound to the chord, if any.
func (b Bindings) Lookup(c Chord) (Action, bool) {
	sig := c.Signature()
	for _, action := range Actions() {
		for _, bound := range b[action] {
			if bound.Signature() == sig {
				return action, true
			}
		}
	}
	return 0, false
}

// DefaultBindings returns the stock binding set.
func DefaultBindings() Bindings {
	return Bindings{
		ActionInsertWithSpace:    {{Key: "tab"}},
		ActionInsertWithoutSpace: {{Key: "tab", Mods: ModShift}},
		ActionNavigateDown:       {{Key: "down"}},
		ActionNavigateUp:         {{Key: "up"}},
		ActionClose:              {{Key: "escape"}},
		ActionOpenSettings:       {{Key: "comma", Mods: ModCtrl | ModShift}},
		ActionToggleGlobal:       {{Key: "space", Mods: ModCtrl | ModShift}},
	}
}
