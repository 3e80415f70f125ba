// Package constants defines shared constants used across the sitehelper codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const EnvConfigDir = "SITEHELPER_CONFIG"

// Application paths
const (
	AppName         = "sitehelper"
	ConfigFileName  = "config.txt"
	LockFileSuffix  = ".lock"
	HistoryFileName = "history.log"
)

// Config sections and well-known keys
const (
	SectionPaths        = "Paths"
	SectionLabels       = "Labels"
	KeyMainDirectory    = "main_directory"
	LabelUncategorized  = "uncategorized_folder"
	LabelCurrentFolder  = "current_folder"
	DefaultMainDirName  = "Field Recordings"
	PathPlaceholder     = "{path}"
	ProjectTimestampFmt = "2006-01-02 15-04-05"
)
