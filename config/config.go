package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/peco/outlining/internal/util"
	"github.com/pkg/errors"
)

// Scope selects which views the default action works on.
type Scope string

const (
	ScopeActive Scope = "active"
	ScopeAll    Scope = "all"
)

func (s *Scope) unmarshal(v string) error {
	switch v {
	case "", "active":
		*s = ScopeActive
	case "all":
		*s = ScopeAll
	default:
		return fmt.Errorf("invalid Scope value %q: must be %q or %q", v, ScopeActive, ScopeAll)
	}
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by JSON/YAML decoders).
func (s *Scope) UnmarshalText(b []byte) error {
	return s.unmarshal(string(b))
}

// UnmarshalFlag implements go-flags Unmarshaler (used by CLI flag parsing).
func (s *Scope) UnmarshalFlag(v string) error {
	return s.unmarshal(v)
}

// Config holds all the data that can be configured in the
// external configuration file
type Config struct {
	// BatchSize is how many windows are fetched per enumeration call.
	BatchSize int `json:"BatchSize" yaml:"BatchSize"`
	// CenterMargin is the number of lines kept above the caret when the
	// view is re-centered.
	CenterMargin int   `json:"CenterMargin" yaml:"CenterMargin"`
	Scope        Scope `json:"Scope" yaml:"Scope"`
	// Action, when set, overrides Scope with an explicit action name.
	Action     string `json:"Action" yaml:"Action"`
	Marker     string `json:"Marker" yaml:"Marker"`
	ViewHeight int    `json:"ViewHeight" yaml:"ViewHeight"`
	// Keymap maps a key label to an action name. Labels are free form;
	// the CLI matches them verbatim against --key.
	Keymap map[string]string `json:"Keymap" yaml:"Keymap"`
}

const (
	DefaultBatchSize    = 5
	DefaultCenterMargin = 10
	DefaultMarker       = " ..."
	DefaultViewHeight   = 20
)

var homedirFunc = util.Homedir

// Init initializes the Config with default values
func (c *Config) Init() error {
	c.BatchSize = DefaultBatchSize
	c.CenterMargin = DefaultCenterMargin
	c.Scope = ScopeActive
	c.Marker = DefaultMarker
	c.ViewHeight = DefaultViewHeight
	c.Keymap = make(map[string]string)
	return nil
}

// Validate checks the values that can not be fixed up silently.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return errors.Errorf("invalid BatchSize %d: must be at least 1", c.BatchSize)
	}
	if c.CenterMargin < 0 {
		return errors.Errorf("invalid CenterMargin %d: must not be negative", c.CenterMargin)
	}
	if c.ViewHeight < 1 {
		return errors.Errorf("invalid ViewHeight %d: must be at least 1", c.ViewHeight)
	}
	return nil
}

// ReadFilename reads the config from the given file, and
// does the appropriate processing, if any
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", filename)
	}
	defer f.Close()

	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(c); err != nil {
			return errors.Wrap(err, "failed to decode YAML")
		}
	default:
		if err := json.NewDecoder(f).Decode(c); err != nil {
			return errors.Wrap(err, "failed to decode JSON")
		}
	}

	return c.Validate()
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultConfigLocator searches for a config file with one of the known
// filenames (config.json, config.yaml, config.yml) in the given directory.
var DefaultConfigLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", errors.Errorf("config file not found in %s", dir)
})

// ErrNotFound is returned when no config file exists in any location.
var ErrNotFound = errors.New("config file not found")

// rcDirs lists the directories searched for a config file, in order:
// $XDG_CONFIG_HOME/outlining (or ~/.config/outlining when it is unset),
// each $XDG_CONFIG_DIRS entry joined with outlining, then ~/.outlining.
// Home based entries are skipped when the home directory is unknown.
func rcDirs() []string {
	var dirs []string
	home, herr := homedirFunc()

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "outlining"))
	} else if herr == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "outlining"))
	}

	for dir := range strings.SplitSeq(os.Getenv("XDG_CONFIG_DIRS"), string(filepath.ListSeparator)) {
		if dir != "" {
			dirs = append(dirs, filepath.Join(dir, "outlining"))
		}
	}

	if herr == nil {
		dirs = append(dirs, filepath.Join(home, ".outlining"))
	}
	return dirs
}

// LocateRcfile returns the first config file locater finds in rcDirs.
func LocateRcfile(locater Locator) (string, error) {
	for _, dir := range rcDirs() {
		if file, err := locater.Locate(dir); err == nil {
			return file, nil
		}
	}
	return "", ErrNotFound
}
