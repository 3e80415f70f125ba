package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgerlanc/sitehelper/internal/config"
	"github.com/dgerlanc/sitehelper/internal/constants"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the config file location, main directory and labels",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetDirCmd = &cobra.Command{
	Use:   "set-dir <path>",
	Short: "Change the main directory",
	Long: `Set-dir changes the main directory that categories are read from.

The path must be an existing directory. Only change it when the main
directory has actually moved; projects already created stay where they are.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetDir,
}

var configSetLabelCmd = &cobra.Command{
	Use:   "set-label <key> <text>",
	Short: "Change a label text",
	Long: `Set-label stores a Labels entry in config.txt.

Setting "uncategorized_folder" renames the folder used for projects
without a category.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSetLabel,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetDirCmd, configSetLabelCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n", store.Path())
	fmt.Fprintln(out, config.FormatLabel(config.Label(cfg, constants.LabelCurrentFolder), config.MainDirectory(cfg)))
	fmt.Fprintln(out)

	rows := make([][]string, 0)
	for _, key := range labelKeys(cfg) {
		_, custom := cfg.Get(constants.SectionLabels, key)
		source := "default"
		if custom {
			source = "config"
		}
		rows = append(rows, []string{key, fmt.Sprintf("%q", config.Label(cfg, key)), source})
	}
	fmt.Fprintln(out, renderTable([]string{"Label", "Text", "Source"}, rows))
	return nil
}

// labelKeys returns the built-in label keys followed by any extra keys
// found in the config.
func labelKeys(cfg *config.Config) []string {
	keys := config.DefaultLabels()
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	if s := cfg.Section(constants.SectionLabels); s != nil {
		for _, k := range s.Keys() {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func runConfigSetDir(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("main directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("main directory %s is not a directory", dir)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.SetMainDirectory(dir); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, store)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), config.Label(cfg, "change_directory_warning"))
	fmt.Fprintln(cmd.OutOrStdout(), config.FormatLabel(config.Label(cfg, constants.LabelCurrentFolder), dir))
	return nil
}

func runConfigSetLabel(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.SetLabels(map[string]string{args[0]: args[1]}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Label %s updated in %s\n", args[0], store.Path())
	return nil
}
