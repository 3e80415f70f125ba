package cmd

import (
	"fmt"
	"os"

	"github.com/dgerlanc/sitehelper/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.txt with the default settings",
	Long: `Init writes a config.txt holding the default main directory and every
label text, ready for editing.

The file is written to ~/.config/sitehelper/config.txt, to the directory
named by SITEHELPER_CONFIG, or to the path given with --config.

Use --force to overwrite an existing config file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if _, err := os.Stat(store.Path()); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", store.Path())
	}

	if err := store.Save(config.DefaultConfig()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration written to: %s\n", store.Path())
	fmt.Fprintln(out, "Run 'sitehelper validate' to verify your configuration.")
	return nil
}
