package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/storage"
)

var (
	dropForce bool
	dropMatch int64
)

// dropCmd deletes the metrics database file, or one match.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the metrics database or a single match",
	Long: `Permanently delete the SQLite metrics database. All stored match data will be
lost; run 'cricmetrics fetch' afterwards to rebuild. With --match, delete only
that match together with its batting and bowling facts.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().Int64Var(&dropMatch, "match", 0, "delete only this match id")
}

func runDrop(cmd *cobra.Command, args []string) error {
	target := dbPath
	if dropMatch != 0 {
		target = fmt.Sprintf("match %d in %s", dropMatch, dbPath)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", target)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if dropMatch != 0 {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.DeleteMatch(dropMatch); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintf(os.Stdout, "No match with id %d, nothing to drop.\n", dropMatch)
				return nil
			}
			return fmt.Errorf("delete match: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", target)
		return nil
	}

	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
