package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the environment variable prefix for overrides.
const EnvPrefix = "GHOSTTYPE_"

// LoadFile reads settings from a TOML file, applies environment
// overrides, and normalizes the result. A missing file yields defaults,
// not an error; a malformed file is an error so a typo is not silently
// swallowed.
func LoadFile(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return s, fmt.Errorf("reading settings file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing settings file %s: %w", path, err)
		}
	}

	ApplyEnv(&s)
	s.Normalize()
	return s, nil
}

// ApplyEnv overlays GHOSTTYPE_* environment variables onto settings.
// Unparseable values are ignored.
func ApplyEnv(s *Settings) {
	if v, ok := envInt("MIN_WORD_LENGTH"); ok {
		s.MinWordLength = v
	}
	if v, ok := envInt("MAX_SUGGESTIONS"); ok {
		s.MaxSuggestions = v
	}
	if v, ok := envInt("DEBOUNCE_MS"); ok {
		s.DebounceTime = time.Duration(v) * time.Millisecond
	}
	if raw, ok := os.LookupEnv(EnvPrefix + "NUMBER_SELECTION"); ok {
		if b, err := strconv.ParseBool(raw); err == nil {
			s.NumberSelection = b
		}
	}
}

func envInt(name string) (int, bool) {
	raw, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
