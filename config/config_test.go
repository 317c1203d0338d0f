package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/peco/outlining/internal/util"
	"github.com/stretchr/testify/require"
)

var expectedConfig = Config{
	BatchSize:    3,
	CenterMargin: 4,
	Scope:        ScopeAll,
	Marker:       " [+]",
	ViewHeight:   DefaultViewHeight,
	Keymap: map[string]string{
		"C-o":     "outlining.CollapseEverythingElse",
		"C-x,C-o": "outlining.CollapseEverythingElseInAllWindows",
	},
}

func TestReadRC(t *testing.T) {
	txt := `
{
	"BatchSize": 3,
	"CenterMargin": 4,
	"Scope": "all",
	"Marker": " [+]",
	"Keymap": {
		"C-o": "outlining.CollapseEverythingElse",
		"C-x,C-o": "outlining.CollapseEverythingElseInAllWindows"
	}
}
`
	var cfg Config
	require.NoError(t, cfg.Init(), "Config.Init should succeed")
	require.NoError(t, json.Unmarshal([]byte(txt), &cfg), "Unmarshalling config should succeed")
	require.Equal(t, expectedConfig, cfg, "configuration matches expected")
}

func TestReadRCYAML(t *testing.T) {
	txt := `
BatchSize: 3
CenterMargin: 4
Scope: all
Marker: " [+]"
Keymap:
  C-o: outlining.CollapseEverythingElse
  "C-x,C-o": outlining.CollapseEverythingElseInAllWindows
`
	var cfg Config
	require.NoError(t, cfg.Init(), "Config.Init should succeed")
	require.NoError(t, yaml.Unmarshal([]byte(txt), &cfg), "Unmarshalling YAML config should succeed")
	require.Equal(t, expectedConfig, cfg, "configuration matches expected")
}

func TestInitDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Init())
	require.Equal(t, DefaultBatchSize, cfg.BatchSize)
	require.Equal(t, DefaultCenterMargin, cfg.CenterMargin)
	require.Equal(t, ScopeActive, cfg.Scope)
	require.Equal(t, DefaultMarker, cfg.Marker)
	require.Empty(t, cfg.Action)
	require.NotNil(t, cfg.Keymap)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, "BatchSize"},
		{"negative margin", func(c *Config) { c.CenterMargin = -1 }, "CenterMargin"},
		{"zero height", func(c *Config) { c.ViewHeight = 0 }, "ViewHeight"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			require.NoError(t, cfg.Init())
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.substr)
		})
	}
}

func TestLocateRcfile(t *testing.T) {
	dir := t.TempDir()

	expected := []string{
		filepath.Join(dir, "home", ".config", "outlining"),
		filepath.Join(dir, "xdg1", "outlining"),
		filepath.Join(dir, "xdg2", "outlining"),
		filepath.Join(dir, "home", ".outlining"),
	}

	i := 0
	locater := LocatorFunc(func(d string) (string, error) {
		require.Less(t, i, len(expected), "called more than expected")
		require.Equal(t, expected[i], d, "directory %d", i)
		i++
		return "", errors.New("not found")
	})

	homedirFunc = func() (string, error) {
		return filepath.Join(dir, "home"), nil
	}
	t.Cleanup(func() { homedirFunc = util.Homedir })

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", strings.Join([]string{
		filepath.Join(dir, "xdg1"),
		filepath.Join(dir, "xdg2"),
	}, string(filepath.ListSeparator)))

	_, err := LocateRcfile(locater)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, len(expected), i, "every location was tried")

	t.Run("XDG_CONFIG_HOME replaces ~/.config", func(t *testing.T) {
		xdgHome := filepath.Join(dir, "xdghome")
		t.Setenv("XDG_CONFIG_HOME", xdgHome)
		t.Setenv("XDG_CONFIG_DIRS", "")

		var seen []string
		_, err := LocateRcfile(LocatorFunc(func(d string) (string, error) {
			seen = append(seen, d)
			return "", errors.New("not found")
		}))
		require.Error(t, err)
		require.Equal(t, []string{
			filepath.Join(xdgHome, "outlining"),
			filepath.Join(dir, "home", ".outlining"),
		}, seen)
	})
}

func TestRcDirs(t *testing.T) {
	homedirFunc = func() (string, error) {
		return "/home/u", nil
	}
	t.Cleanup(func() { homedirFunc = util.Homedir })

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", strings.Join([]string{"", "/etc/xdg", ""}, string(filepath.ListSeparator)))
	require.Equal(t, []string{
		filepath.Join("/home/u", ".config", "outlining"),
		filepath.Join("/etc/xdg", "outlining"),
		filepath.Join("/home/u", ".outlining"),
	}, rcDirs(), "empty XDG_CONFIG_DIRS entries are skipped")

	homedirFunc = func() (string, error) {
		return "", errors.New("no home")
	}
	t.Setenv("XDG_CONFIG_DIRS", "")
	require.Empty(t, rcDirs(), "home based locations need a home directory")

	_, err := LocateRcfile(DefaultConfigLocator)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocateRcfileYAML(t *testing.T) {
	dir := t.TempDir()

	rcDir := filepath.Join(dir, ".outlining")
	require.NoError(t, os.MkdirAll(rcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rcDir, "config.yaml"), []byte("{}"), 0o644))

	homedirFunc = func() (string, error) {
		return dir, nil
	}
	t.Cleanup(func() { homedirFunc = util.Homedir })

	// Point XDG vars at empty locations so it falls through to ~/.outlining/
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "nowhere"))
	t.Setenv("XDG_CONFIG_DIRS", "")

	file, err := LocateRcfile(DefaultConfigLocator)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(rcDir, "config.yaml"), file)
}

func TestScope(t *testing.T) {
	t.Run("valid values via JSON", func(t *testing.T) {
		for _, tc := range []struct {
			input    string
			expected Scope
		}{
			{`{"Scope":"active"}`, ScopeActive},
			{`{"Scope":"all"}`, ScopeAll},
			{`{}`, ScopeActive},
		} {
			var cfg Config
			require.NoError(t, cfg.Init())
			require.NoError(t, json.Unmarshal([]byte(tc.input), &cfg))
			require.Equal(t, tc.expected, cfg.Scope)
		}
	})

	t.Run("invalid value via YAML", func(t *testing.T) {
		var cfg Config
		require.NoError(t, cfg.Init())
		err := yaml.Unmarshal([]byte("Scope: bogus"), &cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "bogus")
	})

	t.Run("UnmarshalFlag", func(t *testing.T) {
		var s Scope
		require.NoError(t, s.UnmarshalFlag("all"))
		require.Equal(t, ScopeAll, s)
		require.NoError(t, s.UnmarshalFlag(""))
		require.Equal(t, ScopeActive, s)
		require.Error(t, s.UnmarshalFlag("some"))
	})
}

func TestReadFilename(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		yamlFile := filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(yamlFile, []byte(`
BatchSize: 3
CenterMargin: 4
Scope: all
Marker: " [+]"
Keymap:
  C-o: outlining.CollapseEverythingElse
  "C-x,C-o": outlining.CollapseEverythingElseInAllWindows
`), 0o644))

		var cfg Config
		require.NoError(t, cfg.Init())
		require.NoError(t, cfg.ReadFilename(yamlFile))
		require.Equal(t, expectedConfig, cfg)
	})

	t.Run("JSON with invalid value", func(t *testing.T) {
		jsonFile := filepath.Join(dir, "config.json")
		require.NoError(t, os.WriteFile(jsonFile, []byte(`{"BatchSize": 0}`), 0o644))

		var cfg Config
		require.NoError(t, cfg.Init())
		err := cfg.ReadFilename(jsonFile)
		require.Error(t, err)
		require.Contains(t, err.Error(), "BatchSize")
	})

	t.Run("missing file", func(t *testing.T) {
		var cfg Config
		require.NoError(t, cfg.Init())
		require.Error(t, cfg.ReadFilename(filepath.Join(dir, "absent.json")))
	})
}
