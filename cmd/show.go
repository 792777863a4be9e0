package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show the box score of a stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q: %w", args[0], err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.GetMatchRecord(id)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "No match with id %d\n", id)
		return nil
	}
	report.PrintBoxScore(os.Stdout, rec)
	return nil
}
