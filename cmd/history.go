package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgerlanc/sitehelper/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyFile  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently created projects",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
	historyCmd.Flags().StringVar(&historyFile, "file", "", "History file to read (default $XDG_DATA_HOME/sitehelper/history.log)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := historyFile
	if path == "" {
		var err error
		path, err = history.DefaultLogPath()
		if err != nil {
			return fmt.Errorf("failed to locate history file: %w", err)
		}
	}

	entries, err := history.Read(path, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		if !isTerminal(out) {
			return nil
		}
		fmt.Fprintln(out, "No projects recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp,
			e.ProjectPath,
			e.Category,
			strings.Join(e.Modes, ", "),
			strconv.Itoa(e.Created),
			strconv.Itoa(len(e.Failures)),
		})
	}

	if !isTerminal(out) {
		for _, row := range rows {
			fmt.Fprintln(out, strings.Join(row, "\t"))
		}
		return nil
	}
	fmt.Fprintln(out, renderTable([]string{"Time", "Project", "Category", "Modes", "Created", "Failed"}, rows))
	return nil
}
