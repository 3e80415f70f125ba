// Package history records every project sitehelper creates.
//
// Entries are appended as JSON lines to $XDG_DATA_HOME/sitehelper/history.log.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/dgerlanc/sitehelper/internal/constants"
	"github.com/dgerlanc/sitehelper/internal/logger"
)

// Version is the entry format version.
const Version = 1

// TimestampFormat is the format used for history timestamps.
const TimestampFormat = time.RFC3339

// Entry is one created project.
type Entry struct {
	Version         int      `json:"version"`
	Timestamp       string   `json:"timestamp"`
	ProjectPath     string   `json:"project_path"`
	Category        string   `json:"category,omitempty"`
	Modes           []string `json:"modes,omitempty"`
	MediaSubfolders bool     `json:"media_subfolders"`
	Created         int      `json:"created"`
	Failures        []string `json:"failures,omitempty"`
}

var (
	historyFile *os.File
	mu          sync.Mutex
	enabled     bool
)

// DefaultLogPath returns the default history path.
func DefaultLogPath() (string, error) {
	if xdg.DataHome != "" {
		return filepath.Join(xdg.DataHome, constants.AppName, constants.HistoryFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", constants.AppName, constants.HistoryFileName), nil
}

// Init opens the history log for appending. An empty path selects the
// default; disable turns logging off.
func Init(path string, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to get default history path", "error", err)
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		logger.Debug("failed to create history directory", "error", err)
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open history file", "error", err)
		return err
	}

	if historyFile != nil {
		historyFile.Close()
	}
	historyFile = f
	enabled = true
	logger.Debug("history logging initialized", "path", path)
	return nil
}

// Close closes the history file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if historyFile != nil {
		err := historyFile.Close()
		historyFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log appends entry, stamping its version and time. It is a no-op when
// history is disabled or not initialized.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || historyFile == nil {
		return nil
	}

	entry.Version = Version
	entry.Timestamp = time.Now().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal history entry", "error", err)
		return err
	}

	if _, err := historyFile.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write history entry", "error", err)
		return err
	}
	return nil
}

// Read returns up to limit of the most recent entries in path, oldest
// first. limit <= 0 returns all. A missing file yields no entries;
// malformed lines are skipped.
func Read(path string, limit int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			logger.Debug("skipping malformed history line", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// IsEnabled returns whether history logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the history state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if historyFile != nil {
		historyFile.Close()
	}
	historyFile = nil
	enabled = false
}
