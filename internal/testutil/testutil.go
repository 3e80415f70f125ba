// Package testutil provides shared test utilities for sitehelper tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgerlanc/sitehelper/internal/constants"
)

// SetupTestConfig points SITEHELPER_CONFIG at a fresh temp directory and
// writes configContent there as config.txt (skipped when empty). Returns the
// config file path. The environment is restored when the test ends.
func SetupTestConfig(t testing.TB, configContent string) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, tmpDir)

	configPath := filepath.Join(tmpDir, constants.ConfigFileName)
	if configContent != "" {
		if err := os.WriteFile(configPath, []byte(configContent), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}
	return configPath
}

// SetupMainDir creates a temp main directory holding one folder per
// category and returns its path.
func SetupMainDir(t testing.TB, categories ...string) string {
	t.Helper()

	mainDir := t.TempDir()
	for _, name := range categories {
		if err := os.Mkdir(filepath.Join(mainDir, name), constants.DirMode); err != nil {
			t.Fatal(err)
		}
	}
	return mainDir
}

// ConfigWithMainDir returns config text whose Paths.main_directory is dir.
func ConfigWithMainDir(dir string) string {
	return "[Paths]\n" + constants.KeyMainDirectory + "=" + dir + "\n\n[Labels]\n\n"
}
