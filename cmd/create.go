package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgerlanc/sitehelper/internal/builder"
	"github.com/dgerlanc/sitehelper/internal/category"
	"github.com/dgerlanc/sitehelper/internal/config"
	"github.com/dgerlanc/sitehelper/internal/constants"
	"github.com/dgerlanc/sitehelper/internal/history"
	"github.com/dgerlanc/sitehelper/internal/logger"
	"github.com/dgerlanc/sitehelper/internal/modes"
	"github.com/spf13/cobra"
)

var (
	createCategory string
	createModes    []string
	createNoMedia  bool
	createDryRun   bool
)

var createCmd = &cobra.Command{
	Use:   "create [project-name]",
	Short: "Create a project folder tree",
	Long: `Create makes a project folder inside the chosen category of the main
directory.

Without a project name the folder is named after the current time
(YYYY-MM-DD HH-MM-SS). Without --category the project goes into the
"Uncategorized" folder. Each --mode becomes a folder inside Recordings and
Pictures, or directly inside the project with --no-media.

Example:
  sitehelper create Harbor --category Coastal --mode Wide --mode Tele`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createCategory, "category", "c", "", "Category folder inside the main directory")
	createCmd.Flags().StringArrayVarP(&createModes, "mode", "m", nil, "Mode folder to create (repeatable)")
	createCmd.Flags().BoolVar(&createNoMedia, "no-media", false, "Do not create Recordings and Pictures subfolders")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Print the folders without creating them")
	cobra.CheckErr(createCmd.RegisterFlagCompletionFunc("category", completeCategories))
}

func runCreate(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	store, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, store)
	if err != nil {
		return err
	}
	mainDir := config.MainDirectory(cfg)

	var projectName string
	if len(args) > 0 {
		projectName = args[0]
	}

	var categoryPath string
	if createCategory != "" {
		cats, err := category.List(mainDir)
		if err != nil {
			return err
		}
		path, ok := cats.Resolve(createCategory)
		if !ok {
			return fmt.Errorf("unknown category %q in %s (see 'sitehelper categories')", createCategory, mainDir)
		}
		categoryPath = path
	} else {
		fmt.Fprintln(errOut, config.Label(cfg, "no_category"))
	}

	modeList, err := modes.FromSlice(createModes)
	if err != nil {
		var invalid *modes.InvalidModeError
		for _, e := range unwrapJoined(err) {
			if errors.As(e, &invalid) {
				fmt.Fprintf(errOut, "%s (%q: %v)\n", config.Label(cfg, "invalid_mode"), invalid.Name, invalid.Reason)
			}
		}
	}

	spec := builder.Spec{
		BaseDirectory:   mainDir,
		CategoryPath:    categoryPath,
		ProjectName:     projectName,
		Modes:           modeList.Modes(),
		MediaSubfolders: !createNoMedia,
	}
	b := &builder.Builder{UncategorizedName: config.Label(cfg, constants.LabelUncategorized)}

	if createDryRun {
		plan, err := b.Plan(spec)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, plan.ProjectPath)
		for _, dir := range plan.Dirs {
			fmt.Fprintln(out, dir)
		}
		for _, f := range plan.Rejected {
			fmt.Fprintf(errOut, "skipping %v\n", f)
		}
		return nil
	}

	result, err := b.Build(spec)
	if err != nil {
		return err
	}

	for _, f := range result.Failures {
		fmt.Fprintf(errOut, "warning: could not create %v\n", f)
	}
	fmt.Fprintln(out, config.Label(cfg, "project_created"))
	fmt.Fprintln(out, result.ProjectPath)

	logger.Info("project created",
		"path", result.ProjectPath,
		"created", len(result.Created),
		"failures", len(result.Failures))

	if err := history.Log(historyEntry(spec, result)); err != nil {
		logger.Warn("failed to record project in history", "error", err)
	}
	return nil
}

func historyEntry(spec builder.Spec, result *builder.Result) history.Entry {
	entry := history.Entry{
		ProjectPath:     result.ProjectPath,
		Modes:           spec.Modes,
		MediaSubfolders: spec.MediaSubfolders,
		Created:         len(result.Created),
	}
	if spec.CategoryPath != "" {
		entry.Category = filepath.Base(spec.CategoryPath)
	}
	for _, f := range result.Failures {
		entry.Failures = append(entry.Failures, f.Error())
	}
	return entry
}

// unwrapJoined splits an errors.Join result into its parts.
func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func completeCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	store, err := openStore()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := store.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cats, err := category.List(config.MainDirectory(cfg))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return cats.Names(), cobra.ShellCompDirectiveNoFileComp
}
