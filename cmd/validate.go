package cmd

import (
	"fmt"

	"github.com/dgerlanc/sitehelper/internal/category"
	"github.com/dgerlanc/sitehelper/internal/config"
	"github.com/dgerlanc/sitehelper/internal/constants"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file and the main directory",
	Long: `Validate loads config.txt, checks that it can be saved back unchanged
and that the main directory exists, and lists the categories found there.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}
	if _, err := config.Encode(cfg); err != nil {
		return fmt.Errorf("config %s cannot be saved: %w", store.Path(), err)
	}

	mainDir := config.MainDirectory(cfg)
	cats, err := category.List(mainDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration valid!")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Config file: %s\n", store.Path())
	fmt.Fprintf(out, "Main directory: %s\n", mainDir)

	labels := 0
	if s := cfg.Section(constants.SectionLabels); s != nil {
		labels = s.Len()
	}
	fmt.Fprintf(out, "Custom labels: %d\n", labels)
	fmt.Fprintln(out)

	names := cats.Names()
	fmt.Fprintf(out, "Categories: %d\n", len(names))
	for _, name := range names {
		fmt.Fprintf(out, "  - %s\n", name)
	}
	return nil
}
