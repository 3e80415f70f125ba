// Package category lists the categories found under the main directory.
//
// A category is any entry directly inside the main directory. Entries are
// not filtered by type, so a stray file shows up as a category too.
package category

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/dgerlanc/sitehelper/internal/logger"
)

// DirectoryNotFoundError reports a main directory that is missing or is not
// a directory.
type DirectoryNotFoundError struct {
	Path string
	Err  error
}

func (e *DirectoryNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("main directory %s not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("main directory %s is not a directory", e.Path)
}

func (e *DirectoryNotFoundError) Unwrap() error { return e.Err }

// Categories maps category name to its absolute path.
type Categories map[string]string

// List returns every entry directly under mainDir. It never creates
// anything.
func List(mainDir string) (Categories, error) {
	info, err := os.Stat(mainDir)
	if err != nil {
		// ENOTDIR: some parent of mainDir is a file.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, &DirectoryNotFoundError{Path: mainDir, Err: err}
		}
		return nil, fmt.Errorf("failed to stat main directory: %w", err)
	}
	if !info.IsDir() {
		return nil, &DirectoryNotFoundError{Path: mainDir}
	}

	entries, err := os.ReadDir(mainDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list main directory: %w", err)
	}

	cats := make(Categories, len(entries))
	for _, e := range entries {
		cats[e.Name()] = filepath.Join(mainDir, e.Name())
	}

	logger.Debug("listed categories", "main_directory", mainDir, "count", len(cats))
	return cats, nil
}

// Names returns the category names sorted.
func (c Categories) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the path of the named category.
func (c Categories) Resolve(name string) (string, bool) {
	path, ok := c[name]
	return path, ok
}
