package cmd

import (
	"fmt"

	"github.com/dgerlanc/sitehelper/internal/category"
	"github.com/dgerlanc/sitehelper/internal/config"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"ls"},
	Short:   "List the categories in the main directory",
	Long: `Categories lists every entry directly inside the main directory.

On a terminal the list is shown as a table; otherwise each line is
"<name><TAB><path>" for use in scripts.`,
	Args: cobra.NoArgs,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, store)
	if err != nil {
		return err
	}

	cats, err := category.List(config.MainDirectory(cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	names := cats.Names()

	if !isTerminal(out) {
		for _, name := range names {
			fmt.Fprintf(out, "%s\t%s\n", name, cats[name])
		}
		return nil
	}

	if len(names) == 0 {
		fmt.Fprintln(out, "No categories found.")
		return nil
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, cats[name]})
	}
	fmt.Fprintln(out, config.Label(cfg, "choose_category"))
	fmt.Fprintln(out, renderTable([]string{"Category", "Path"}, rows))
	return nil
}
