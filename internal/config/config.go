// Package config handles loading, saving and querying the sitehelper
// settings file.
//
// The file is a sectioned key=value text document:
//
//	[Paths]
//	main_directory=/home/user/Desktop/Field Recordings
//
//	[Labels]
//	current_folder=Current Folder:\n {path}
//
// Sections and keys keep the order in which they were first seen, so a
// load followed by a save rewrites the file in the same shape, including
// sections and keys sitehelper itself does not know about.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dgerlanc/sitehelper/internal/constants"
	"github.com/dgerlanc/sitehelper/internal/logger"
	"mvdan.cc/sh/v3/shell"
)

// Config is an ordered collection of sections.
type Config struct {
	sections []*Section
}

// Section is a named, ordered set of key/value entries.
type Section struct {
	Name    string
	entries []entry
}

type entry struct {
	key   string
	value string
}

// New returns a config holding empty Paths and Labels sections.
func New() *Config {
	cfg := &Config{}
	cfg.EnsureSection(constants.SectionPaths)
	cfg.EnsureSection(constants.SectionLabels)
	return cfg
}

// Sections returns the sections in order.
func (c *Config) Sections() []*Section {
	return c.sections
}

// Section returns the named section, or nil if it does not exist.
func (c *Config) Section(name string) *Section {
	for _, s := range c.sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// EnsureSection returns the named section, appending it if unseen.
func (c *Config) EnsureSection(name string) *Section {
	if s := c.Section(name); s != nil {
		return s
	}
	s := &Section{Name: name}
	c.sections = append(c.sections, s)
	return s
}

// Get returns the value stored under section/key.
func (c *Config) Get(section, key string) (string, bool) {
	s := c.Section(section)
	if s == nil {
		return "", false
	}
	return s.Get(key)
}

// Set stores value under section/key, creating the section if needed.
func (c *Config) Set(section, key, value string) {
	c.EnsureSection(section).Set(key, value)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := &Config{sections: make([]*Section, 0, len(c.sections))}
	for _, s := range c.sections {
		cp := &Section{Name: s.Name, entries: make([]entry, len(s.entries))}
		copy(cp.entries, s.entries)
		out.sections = append(out.sections, cp)
	}
	return out
}

// Get returns the value for key.
func (s *Section) Get(key string) (string, bool) {
	for _, e := range s.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

// Set replaces the value for key in place, or appends a new entry.
func (s *Section) Set(key, value string) {
	for i := range s.entries {
		if s.entries[i].key == key {
			s.entries[i].value = value
			return
		}
	}
	s.entries = append(s.entries, entry{key: key, value: value})
}

// Keys returns the section's keys in order.
func (s *Section) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of entries.
func (s *Section) Len() int {
	return len(s.entries)
}

// DefaultMainDirectory is the main directory used when the config does not
// name one: a "Field Recordings" folder on the user's desktop.
func DefaultMainDirectory() string {
	desktop := xdg.UserDirs.Desktop
	if desktop == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		desktop = filepath.Join(home, "Desktop")
	}
	return filepath.Join(desktop, constants.DefaultMainDirName)
}

// MainDirectory returns Paths.main_directory, or DefaultMainDirectory when
// it is absent or empty. The stored path is used as written; only a leading
// "~" element is replaced with the home directory.
func MainDirectory(cfg *Config) string {
	var dir string
	if cfg != nil {
		dir, _ = cfg.Get(constants.SectionPaths, constants.KeyMainDirectory)
	}
	if dir == "" {
		return DefaultMainDirectory()
	}
	return expandHome(dir)
}

// expandHome replaces a leading "~" or "~/" with the home directory.
// "$", quotes and backslashes are never interpreted.
func expandHome(dir string) string {
	rest, ok := strings.CutPrefix(dir, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return dir
	}
	fields, err := shell.Fields("~", nil)
	if err != nil || len(fields) != 1 || fields[0] == "" || fields[0] == "~" {
		logger.Debug("failed to expand home directory, using raw value", "value", dir, "error", err)
		return dir
	}
	return fields[0] + rest
}

// Label returns the Labels entry for key, falling back to the built-in text.
// Unknown keys without a built-in default yield the key itself.
func Label(cfg *Config, key string) string {
	if cfg != nil {
		if v, ok := cfg.Get(constants.SectionLabels, key); ok && v != "" {
			return v
		}
	}
	if v, ok := defaultLabel(key); ok {
		return v
	}
	return key
}

// FormatLabel substitutes path for the {path} placeholder in text.
func FormatLabel(text, path string) string {
	return strings.ReplaceAll(text, constants.PathPlaceholder, path)
}

// GetConfigDir returns the config directory path.
// Uses SITEHELPER_CONFIG env var if set, otherwise $XDG_CONFIG_HOME/sitehelper
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}
	if xdg.ConfigHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", constants.AppName), nil
	}
	return filepath.Join(xdg.ConfigHome, constants.AppName), nil
}

// DefaultPath returns the config file path inside GetConfigDir.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}
