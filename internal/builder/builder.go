// Package builder creates the folder tree for a new field-recording project.
//
// Layout with media subfolders:
//
//	<category>/<project>/Recordings/<mode>...
//	<category>/<project>/Pictures/<mode>...
//
// and without:
//
//	<category>/<project>/<mode>...
//
// Only the project folder itself is required. Every folder below it is
// attempted independently and failures are collected in the Result.
package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgerlanc/sitehelper/internal/constants"
	"github.com/dgerlanc/sitehelper/internal/logger"
)

// DefaultUncategorizedName is the folder used when no category is chosen.
const DefaultUncategorizedName = "Uncategorized"

// MediaSubfolders are created under the project, in this order, when
// Spec.MediaSubfolders is set.
var MediaSubfolders = []string{"Recordings", "Pictures"}

// ErrInvalidSegment is reported for a name that is not a single path element.
var ErrInvalidSegment = errors.New("name must be a single folder name")

// Spec describes one project to create. It is assembled by the caller and
// passed by value.
type Spec struct {
	// BaseDirectory is the main directory; the uncategorized folder lives here.
	BaseDirectory string
	// CategoryPath is the chosen category folder. Blank means uncategorized.
	CategoryPath string
	// ProjectName is the project folder name. Blank means a timestamp.
	ProjectName string
	// Modes become subfolders, in order.
	Modes []string
	// MediaSubfolders nests the modes under Recordings and Pictures.
	MediaSubfolders bool
}

// Failure is a folder that could not be created.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// ProjectError reports that the project folder itself could not be
// created. It is the only error Build returns.
type ProjectError struct {
	Path string
	Err  error
}

func (e *ProjectError) Error() string {
	return fmt.Sprintf("create project folder %s: %v", e.Path, e.Err)
}

func (e *ProjectError) Unwrap() error { return e.Err }

// Plan is the resolved set of folders for a Spec.
type Plan struct {
	ProjectPath string
	// Dirs are the folders below the project, in creation order.
	Dirs []string
	// Rejected are mode folders that will not be created.
	Rejected []Failure
}

// Result reports what Build did.
type Result struct {
	ProjectPath string
	// Created lists folders that did not exist before, project included.
	Created []string
	// Failures lists folders below the project that could not be created.
	Failures []Failure
}

// Err joins all failures, or returns nil when every folder exists.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Builder creates project trees. The zero value uses the local clock and
// DefaultUncategorizedName.
type Builder struct {
	// Now supplies the timestamp for unnamed projects.
	Now func() time.Time
	// UncategorizedName overrides DefaultUncategorizedName, e.g. with a
	// localized name.
	UncategorizedName string
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builder) uncategorized() string {
	if strings.TrimSpace(b.UncategorizedName) != "" {
		return b.UncategorizedName
	}
	return DefaultUncategorizedName
}

// Plan resolves spec into folder paths without touching the filesystem.
// It fails only when the project path itself cannot be formed.
func (b *Builder) Plan(spec Spec) (*Plan, error) {
	name := spec.ProjectName
	if strings.TrimSpace(name) == "" {
		name = b.now().Format(constants.ProjectTimestampFmt)
	}

	categoryPath := spec.CategoryPath
	if strings.TrimSpace(categoryPath) == "" {
		if strings.TrimSpace(spec.BaseDirectory) == "" {
			return nil, &ProjectError{Path: name, Err: errors.New("no category and no base directory")}
		}
		categoryPath = filepath.Join(spec.BaseDirectory, b.uncategorized())
	}

	projectPath := filepath.Join(categoryPath, name)
	if !isSegment(name) {
		return nil, &ProjectError{Path: projectPath, Err: ErrInvalidSegment}
	}

	plan := &Plan{ProjectPath: projectPath}
	addModes := func(parent string) {
		for _, mode := range spec.Modes {
			path := filepath.Join(parent, mode)
			if !isSegment(mode) {
				plan.Rejected = append(plan.Rejected, Failure{Path: path, Err: ErrInvalidSegment})
				continue
			}
			plan.Dirs = append(plan.Dirs, path)
		}
	}

	if spec.MediaSubfolders {
		for _, sub := range MediaSubfolders {
			subPath := filepath.Join(projectPath, sub)
			plan.Dirs = append(plan.Dirs, subPath)
			addModes(subPath)
		}
	} else {
		addModes(projectPath)
	}

	return plan, nil
}

// Build creates the folders for spec. Existing folders and their contents
// are left alone, so building the same spec twice is harmless. The returned
// error is always a *ProjectError; everything below the project folder is
// reported through Result.Failures.
func (b *Builder) Build(spec Spec) (*Result, error) {
	log := logger.With("component", "builder")

	plan, err := b.Plan(spec)
	if err != nil {
		return nil, err
	}

	result := &Result{ProjectPath: plan.ProjectPath}

	created, err := ensureDir(plan.ProjectPath)
	if err != nil {
		return nil, &ProjectError{Path: plan.ProjectPath, Err: err}
	}
	if created {
		result.Created = append(result.Created, plan.ProjectPath)
	}

	result.Failures = append(result.Failures, plan.Rejected...)
	for _, dir := range plan.Dirs {
		created, err := ensureDir(dir)
		if err != nil {
			log.Debug("failed to create folder", "path", dir, "error", err)
			result.Failures = append(result.Failures, Failure{Path: dir, Err: err})
			continue
		}
		if created {
			result.Created = append(result.Created, dir)
		}
	}

	log.Debug("project built",
		"path", result.ProjectPath,
		"created", len(result.Created),
		"failures", len(result.Failures))
	return result, nil
}

// ensureDir creates path and any missing parents, reporting whether path
// was newly created.
func ensureDir(path string) (bool, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return false, nil
	}
	if err := os.MkdirAll(path, constants.DirMode); err != nil {
		return false, err
	}
	return true, nil
}

// isSegment reports whether name is usable as one folder name below its
// parent.
func isSegment(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsRune(name, '/') && !strings.ContainsRune(name, filepath.Separator)
}
