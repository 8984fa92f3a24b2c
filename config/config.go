// Package config holds the typed configuration record that replaces rofi's
// original Xresources-derived binary config format. Values are loaded from
// a YAML file and may be overridden by CLI flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// MatchingMethod selects how a query token is compiled.
type MatchingMethod string

const (
	MatchNormal MatchingMethod = "normal"
	MatchGlob   MatchingMethod = "glob"
	MatchFuzzy  MatchingMethod = "fuzzy"
	MatchPrefix MatchingMethod = "prefix"
	MatchRegex  MatchingMethod = "regex"
)

// SortingMethod controls whether refilter ranks by fuzzy score or edit
// distance once sorting is enabled.
type SortingMethod string

const (
	SortNormal SortingMethod = "normal"
	SortFZF    SortingMethod = "fzf"
)

// Config is the single typed configuration record threaded explicitly
// through the application context, replacing the process-global config
// the original keeps.
type Config struct {
	Threads int `yaml:"threads"`

	CaseSensitive bool           `yaml:"case-sensitive"`
	Tokenize      bool           `yaml:"tokenize"`
	Matching      MatchingMethod `yaml:"matching"`
	NegateChar    rune           `yaml:"-"`

	Sort          bool          `yaml:"sort"`
	SortingMethod SortingMethod `yaml:"sorting-method"`

	AutoSelect     bool `yaml:"auto-select"`
	Cycle          bool `yaml:"cycle"`
	EllipsizeStart bool `yaml:"ellipsize-start"`

	RefilterTimeoutLimit int `yaml:"refilter-timeout-limit"`

	HistorySize       int      `yaml:"history-size"`
	IgnoredPrefixes   []string `yaml:"ignored-prefixes"`
	DisableHistory    bool     `yaml:"disable-history"`
	CombiModes        []string `yaml:"combi-modes"`
	CombiHideModePrefix bool   `yaml:"combi-hide-mode-prefix"`

	PidFile string `yaml:"pid-file"`
}

// Default returns the built-in defaults, matching the original's compiled-in
// Xresources defaults field-for-field.
func Default() Config {
	return Config{
		Threads:              0, // 0 == auto-size to min(ncores, 128)
		CaseSensitive:        false,
		Tokenize:             true,
		Matching:             MatchNormal,
		NegateChar:           '-',
		Sort:                 false,
		SortingMethod:        SortNormal,
		AutoSelect:           false,
		Cycle:                true,
		EllipsizeStart:       false,
		RefilterTimeoutLimit: 100000,
		HistorySize:          25,
		DisableHistory:       false,
		CombiHideModePrefix:  false,
	}
}

// Load reads a YAML config file, falling back silently to Default() when the
// file does not exist — a missing config file is not fatal.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/rofi/config.yml, falling back to
// ~/.config/rofi/config.yml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "rofi", "config.yml")
}

// CacheDir returns $XDG_CACHE_HOME/rofi, used by the History component.
func CacheDir() string {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "rofi")
}
