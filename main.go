// sitehelper - folder trees for field-recording projects
//
// Every project gets one folder inside a category of the main directory,
// with Recordings and Pictures subfolders and one folder per mode:
//
//	<main directory>/<category>/<project>/Recordings/<mode>
//	<main directory>/<category>/<project>/Pictures/<mode>
//
// Usage:
//
//	sitehelper config set-dir ~/Desktop/Field\ Recordings
//	sitehelper categories
//	sitehelper create Harbor --category Coastal --mode Wide --mode Tele
package main

import (
	"os"

	"github.com/dgerlanc/sitehelper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
