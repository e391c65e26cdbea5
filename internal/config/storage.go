package config

import (
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ghosttype/ghosttype/internal/gate"
)

// ParseJSON extracts the engine-relevant fields from a persisted
// settings document. Missing or malformed fields coerce to defaults;
// unknown fields are simply not read. The debounceTime field is stored
// in milliseconds.
func ParseJSON(data []byte) Settings {
	s := Default()
	if !gjson.ValidBytes(data) {
		return s
	}
	doc := gjson.ParseBytes(data)

	if v := doc.Get("minWordLength"); v.Exists() {
		s.MinWordLength = int(v.Int())
	}
	if v := doc.Get("maxSuggestions"); v.Exists() {
		s.MaxSuggestions = int(v.Int())
	}
	if v := doc.Get("debounceTime"); v.Exists() {
		s.DebounceTime = time.Duration(v.Int()) * time.Millisecond
	}
	if v := doc.Get("numberSelection"); v.Exists() {
		s.NumberSelection = v.Bool()
	}
	if v := doc.Get("keyBindings"); v.IsObject() {
		s.KeyBindings = make(map[string]string)
		v.ForEach(func(key, value gjson.Result) bool {
			s.KeyBindings[key.String()] = value.String()
			return true
		})
	}
	if v := doc.Get("domains.mode"); v.Exists() {
		s.Domains.Mode = gate.Mode(v.String())
	}
	if v := doc.Get("domains.patterns"); v.IsArray() {
		for _, p := range v.Array() {
			s.Domains.Patterns = append(s.Domains.Patterns, p.String())
		}
	}

	s.Normalize()
	return s
}

// WriteJSON writes the engine-relevant fields back into an existing
// settings document, preserving every field it does not own (appearance,
// accessibility, and anything future versions add) byte-for-byte.
func WriteJSON(original []byte, s Settings) ([]byte, error) {
	if !gjson.ValidBytes(original) {
		original = []byte("{}")
	}

	out := original
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	set("minWordLength", s.MinWordLength)
	set("maxSuggestions", s.MaxSuggestions)
	set("debounceTime", s.DebounceTime.Milliseconds())
	set("numberSelection", s.NumberSelection)
	patterns := s.Domains.Patterns
	if patterns == nil {
		patterns = []string{}
	}
	set("domains.mode", string(s.Domains.Mode))
	set("domains.patterns", patterns)
	for name, spec := range s.KeyBindings {
		set("keyBindings."+name, spec)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
