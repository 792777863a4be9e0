package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/report"
)

var (
	listSeason int
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listSeason, "season", 0, "only matches of this season")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum matches to list (0 = all)")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := db.ListMatches(listSeason, listLimit)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'cricmetrics fetch' to add some.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}
