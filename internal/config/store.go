package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/dgerlanc/sitehelper/internal/constants"
	"github.com/dgerlanc/sitehelper/internal/logger"
	"github.com/gofrs/flock"
	"golang.org/x/text/encoding/unicode"
)

// Store reads and writes one config file.
type Store struct {
	path string
}

// NewStore returns a store bound to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the config file. A missing file yields New(); content that is
// not UTF-8 yields a *DecodeError and any other read fault a *ReadError.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("config file not found, using empty config", "path", s.path)
			return New(), nil
		}
		return nil, &ReadError{Path: s.path, Err: err}
	}

	if !utf8.Valid(data) {
		return nil, &DecodeError{Path: s.path}
	}
	// Editors on Windows like to prepend a byte order mark.
	data, err = unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return nil, &DecodeError{Path: s.path}
	}

	cfg := Parse(data)
	logger.Debug("config loaded", "path", s.path, "sections", len(cfg.sections))
	return cfg, nil
}

// Save rewrites the whole file. The new content is written to a temporary
// file next to the target and renamed into place, so Load sees either the
// old or the new file and never a partial one.
func (s *Store) Save(cfg *Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Chmod(tmpName, constants.FileMode); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}

	logger.Debug("config saved", "path", s.path, "bytes", len(data))
	return nil
}

// Update reloads the file, applies fn and saves the result. The cycle holds
// an advisory lock on a sibling ".lock" file. If fn returns an error nothing
// is written.
func (s *Store) Update(fn func(*Config) error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	lock := flock.New(s.path + constants.LockFileSuffix)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock config: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release config lock", "path", lock.Path(), "error", err)
		}
	}()

	cfg, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return s.Save(cfg)
}

// SetMainDirectory persists path as Paths.main_directory, keeping every
// other section and key.
func (s *Store) SetMainDirectory(path string) error {
	return s.Update(func(cfg *Config) error {
		cfg.Set(constants.SectionPaths, constants.KeyMainDirectory, path)
		return nil
	})
}

// SetLabels persists the given Labels entries, keeping everything else.
func (s *Store) SetLabels(labels map[string]string) error {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return s.Update(func(cfg *Config) error {
		section := cfg.EnsureSection(constants.SectionLabels)
		for _, k := range keys {
			if err := validateKey(k); err != nil {
				return err
			}
			section.Set(k, labels[k])
		}
		return nil
	})
}
