package keybind

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named binding set as stored on disk.
type Profile struct {
	Name     string                 `yaml:"name"`
	Bindings map[string][]ChordSpec `yaml:"bindings"`
}

// actionsByName maps configuration names back to actions.
var actionsByName = func() map[string]Action {
	m := make(map[string]Action, int(numActions))
	for _, a := range Actions() {
		m[a.String()] = a
	}
	return m
}()

// LoadProfile reads a YAML binding profile from a file and resolves it to
// a conflict-free binding set. Unknown actions and unparseable chords are
// dropped; a malformed profile degrades toward the defaults rather than
// failing.
func LoadProfile(path string) (Bindings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening binding profile: %w", err)
	}
	defer f.Close()

	return LoadProfileReader(f)
}

// LoadProfileReader reads a YAML binding profile from a reader.
func LoadProfileReader(r io.Reader) (Bindings, error) {
	var p Profile
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding binding profile: %w", err)
	}
	return p.Resolve(), nil
}

// Resolve converts the profile to a conflict-free binding set, filling
// unbound actions from the defaults.
func (p Profile) Resolve() Bindings {
	b := DefaultBindings()
	for name, specs := range p.Bindings {
		action, ok := actionsByName[name]
		if !ok {
			continue
		}
		chords := ParseChordSpecs(specs)
		if chords == nil {
			delete(b, action)
			continue
		}
		b[action] = chords
	}
	return ResolveConflicts(b)
}
