package builder

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"
)

var fixedTime = time.Date(2024, time.March, 7, 9, 5, 3, 0, time.Local)

func fixedClock() time.Time { return fixedTime }

// tree returns every directory below root, relative and slash-separated.
func tree(t *testing.T, root string) []string {
	t.Helper()
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			rel, _ := filepath.Rel(root, path)
			dirs = append(dirs, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(dirs)
	return dirs
}

func TestBuildWithMediaSubfolders(t *testing.T) {
	base := t.TempDir()
	category := filepath.Join(base, "Coastal")
	if err := os.Mkdir(category, 0755); err != nil {
		t.Fatal(err)
	}

	b := &Builder{Now: fixedClock}
	result, err := b.Build(Spec{
		BaseDirectory:   base,
		CategoryPath:    category,
		ProjectName:     "Harbor",
		Modes:           []string{"Wide", "Tele"},
		MediaSubfolders: true,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Err() != nil {
		t.Fatalf("Build() failures = %v", result.Err())
	}

	if want := filepath.Join(category, "Harbor"); result.ProjectPath != want {
		t.Errorf("ProjectPath = %q, want %q", result.ProjectPath, want)
	}

	want := []string{
		"Harbor",
		"Harbor/Pictures",
		"Harbor/Pictures/Tele",
		"Harbor/Pictures/Wide",
		"Harbor/Recordings",
		"Harbor/Recordings/Tele",
		"Harbor/Recordings/Wide",
	}
	if got := tree(t, category); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
	if len(result.Created) != len(want) {
		t.Errorf("Created = %d folders, want %d", len(result.Created), len(want))
	}
}

func TestBuildWithoutMediaSubfolders(t *testing.T) {
	base := t.TempDir()
	category := filepath.Join(base, "Urban")

	b := &Builder{Now: fixedClock}
	result, err := b.Build(Spec{
		BaseDirectory: base,
		CategoryPath:  category,
		ProjectName:   "Station",
		Modes:         []string{"Wide", "Tele"},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{"Station", "Station/Tele", "Station/Wide"}
	if got := tree(t, category); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
	if result.Err() != nil {
		t.Errorf("unexpected failures: %v", result.Err())
	}
}

func TestBuildNoModes(t *testing.T) {
	base := t.TempDir()

	b := &Builder{Now: fixedClock}
	_, err := b.Build(Spec{BaseDirectory: base, CategoryPath: base, ProjectName: "Solo", MediaSubfolders: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{"Solo", "Solo/Pictures", "Solo/Recordings"}
	if got := tree(t, base); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
}

func TestBuildUncategorizedFallback(t *testing.T) {
	tests := []struct {
		name     string
		builder  *Builder
		category string
		folder   string
	}{
		{"empty category", &Builder{Now: fixedClock}, "", "Uncategorized"},
		{"blank category", &Builder{Now: fixedClock}, "  ", "Uncategorized"},
		{"localized name", &Builder{Now: fixedClock, UncategorizedName: "חסר קטגוריה"}, "", "חסר קטגוריה"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			result, err := tt.builder.Build(Spec{BaseDirectory: base, CategoryPath: tt.category, ProjectName: "Field Day"})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			want := filepath.Join(base, tt.folder, "Field Day")
			if result.ProjectPath != want {
				t.Errorf("ProjectPath = %q, want %q", result.ProjectPath, want)
			}
			if info, err := os.Stat(want); err != nil || !info.IsDir() {
				t.Errorf("project folder not created at %q", want)
			}
		})
	}
}

func TestBuildBlankProjectNameUsesTimestamp(t *testing.T) {
	for _, name := range []string{"", "   "} {
		base := t.TempDir()

		b := &Builder{Now: fixedClock}
		result, err := b.Build(Spec{BaseDirectory: base, CategoryPath: base, ProjectName: name})
		if err != nil {
			t.Fatalf("Build(%q) error = %v", name, err)
		}

		if got := filepath.Base(result.ProjectPath); got != "2024-03-07 09-05-03" {
			t.Errorf("project folder = %q, want %q", got, "2024-03-07 09-05-03")
		}
	}
}

func TestBuildDefaultClock(t *testing.T) {
	base := t.TempDir()

	var b Builder
	result, err := b.Build(Spec{BaseDirectory: base, CategoryPath: base})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := time.ParseInLocation("2006-01-02 15-04-05", filepath.Base(result.ProjectPath), time.Local); err != nil {
		t.Errorf("project folder %q is not a timestamp: %v", filepath.Base(result.ProjectPath), err)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	base := t.TempDir()
	spec := Spec{
		BaseDirectory:   base,
		ProjectName:     "Repeat",
		Modes:           []string{"Wide", "Tele"},
		MediaSubfolders: true,
	}
	b := &Builder{Now: fixedClock}

	first, err := b.Build(spec)
	if err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	// Existing contents must survive a rebuild.
	keep := filepath.Join(first.ProjectPath, "Recordings", "Wide", "take1.wav")
	if err := os.WriteFile(keep, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	before := tree(t, base)

	second, err := b.Build(spec)
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	if second.ProjectPath != first.ProjectPath {
		t.Errorf("ProjectPath changed: %q then %q", first.ProjectPath, second.ProjectPath)
	}
	if len(second.Created) != 0 {
		t.Errorf("second Build() created %v", second.Created)
	}
	if second.Err() != nil {
		t.Errorf("second Build() failures = %v", second.Err())
	}
	if after := tree(t, base); !reflect.DeepEqual(after, before) {
		t.Errorf("tree changed: %v -> %v", before, after)
	}
	if data, err := os.ReadFile(keep); err != nil || string(data) != "audio" {
		t.Error("existing file was disturbed by rebuild")
	}
}

func TestBuildFailSoftPerSubfolder(t *testing.T) {
	base := t.TempDir()
	project := filepath.Join(base, "Blocked")
	if err := os.MkdirAll(project, 0755); err != nil {
		t.Fatal(err)
	}
	// A file where Recordings should go blocks that branch only.
	if err := os.WriteFile(filepath.Join(project, "Recordings"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	b := &Builder{Now: fixedClock}
	result, err := b.Build(Spec{
		BaseDirectory:   base,
		CategoryPath:    base,
		ProjectName:     "Blocked",
		Modes:           []string{"Wide", "Tele"},
		MediaSubfolders: true,
	})
	if err != nil {
		t.Fatalf("Build() error = %v, want per-folder failures only", err)
	}

	var failed []string
	for _, f := range result.Failures {
		rel, _ := filepath.Rel(project, f.Path)
		failed = append(failed, filepath.ToSlash(rel))
	}
	want := []string{"Recordings", "Recordings/Wide", "Recordings/Tele"}
	if !reflect.DeepEqual(failed, want) {
		t.Errorf("failures = %v, want %v", failed, want)
	}

	for _, mode := range []string{"Wide", "Tele"} {
		if info, err := os.Stat(filepath.Join(project, "Pictures", mode)); err != nil || !info.IsDir() {
			t.Errorf("Pictures/%s should still be created", mode)
		}
	}
	if result.Err() == nil {
		t.Error("Err() = nil, want joined failures")
	}
}

func TestBuildRejectsModeThatIsNotAFolderName(t *testing.T) {
	base := t.TempDir()

	b := &Builder{Now: fixedClock}
	result, err := b.Build(Spec{
		BaseDirectory: base,
		CategoryPath:  base,
		ProjectName:   "P",
		Modes:         []string{"Wide", "../escape", "a/b", ".."},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(result.Failures) != 3 {
		t.Fatalf("Failures = %v, want 3", result.Failures)
	}
	for _, f := range result.Failures {
		if !errors.Is(f, ErrInvalidSegment) {
			t.Errorf("failure %v is not ErrInvalidSegment", f)
		}
	}
	if got := tree(t, base); !reflect.DeepEqual(got, []string{"P", "P/Wide"}) {
		t.Errorf("tree = %v", got)
	}
}

func TestBuildProjectFolderFailure(t *testing.T) {
	base := t.TempDir()
	// The category path is a file, so the project folder cannot exist.
	category := filepath.Join(base, "not-a-dir")
	if err := os.WriteFile(category, nil, 0644); err != nil {
		t.Fatal(err)
	}

	b := &Builder{Now: fixedClock}
	result, err := b.Build(Spec{BaseDirectory: base, CategoryPath: category, ProjectName: "P", Modes: []string{"Wide"}})

	var projectErr *ProjectError
	if !errors.As(err, &projectErr) {
		t.Fatalf("Build() error = %v, want *ProjectError", err)
	}
	if projectErr.Path != filepath.Join(category, "P") {
		t.Errorf("ProjectError.Path = %q", projectErr.Path)
	}
	if result != nil {
		t.Errorf("Build() result = %+v, want nil", result)
	}
}

func TestBuildInvalidProjectName(t *testing.T) {
	base := t.TempDir()

	b := &Builder{Now: fixedClock}
	for _, name := range []string{"..", "a/b"} {
		_, err := b.Build(Spec{BaseDirectory: base, CategoryPath: base, ProjectName: name})
		if !errors.Is(err, ErrInvalidSegment) {
			t.Errorf("Build(%q) error = %v, want ErrInvalidSegment", name, err)
		}
	}
	if got := tree(t, base); len(got) != 0 {
		t.Errorf("nothing should be created, got %v", got)
	}
}

func TestBuildRequiresBaseWithoutCategory(t *testing.T) {
	b := &Builder{Now: fixedClock}
	_, err := b.Build(Spec{ProjectName: "P"})

	var projectErr *ProjectError
	if !errors.As(err, &projectErr) {
		t.Fatalf("Build() error = %v, want *ProjectError", err)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	b := &Builder{Now: fixedClock}
	spec := Spec{BaseDirectory: "/m", ProjectName: "", Modes: []string{"Wide", "Tele"}, MediaSubfolders: true}

	first, err := b.Plan(spec)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Plan(spec)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Plan() not deterministic: %+v vs %+v", first, second)
	}

	project := filepath.Join("/m", "Uncategorized", "2024-03-07 09-05-03")
	want := []string{
		filepath.Join(project, "Recordings"),
		filepath.Join(project, "Recordings", "Wide"),
		filepath.Join(project, "Recordings", "Tele"),
		filepath.Join(project, "Pictures"),
		filepath.Join(project, "Pictures", "Wide"),
		filepath.Join(project, "Pictures", "Tele"),
	}
	if first.ProjectPath != project {
		t.Errorf("ProjectPath = %q, want %q", first.ProjectPath, project)
	}
	if !reflect.DeepEqual(first.Dirs, want) {
		t.Errorf("Dirs = %v, want %v", first.Dirs, want)
	}
}

func TestResultErrNil(t *testing.T) {
	r := &Result{ProjectPath: "/p"}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}
