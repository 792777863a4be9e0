package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/cricsheet"
	"github.com/pable/cricmetrics/internal/ingest"
	"github.com/pable/cricmetrics/internal/report"
	"github.com/pable/cricmetrics/internal/storage"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <archive.zip | dir | match.json...>",
	Short: "Ingest local match records into the database",
	Long: `Ingest Cricsheet JSON match records from a .zip archive, a directory of
.json files, or individual files. Entries are read newest first and records
that fail validation are skipped and counted, never fatal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	addFilterFlags(ingestCmd)
}

// addFilterFlags registers the record-selection flags shared by ingest and fetch.
func addFilterFlags(c *cobra.Command) {
	f := c.Flags()
	f.String("competition", "", "competition name, matched exactly or as a substring (empty keeps all)")
	f.Int("from", 0, "first season to keep")
	f.Int("to", 0, "last season to keep")
	f.Int("max", 0, "examine at most N entries, newest first (0 = all)")
	f.Int("batch", 0, "matches per commit")
	c.PreRunE = func(cmd *cobra.Command, args []string) error {
		_ = settings.BindPFlag("competition", f.Lookup("competition"))
		_ = settings.BindPFlag("season_from", f.Lookup("from"))
		_ = settings.BindPFlag("season_to", f.Lookup("to"))
		_ = settings.BindPFlag("max_matches", f.Lookup("max"))
		_ = settings.BindPFlag("batch_size", f.Lookup("batch"))
		return loadConfig(cmd, args)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	var (
		src *cricsheet.Source
		err error
	)
	if len(args) == 1 {
		src, err = cricsheet.Open(args[0])
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
	} else {
		src = cricsheet.OpenFiles(args...)
	}
	defer src.Close()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return runPipeline(cmd.Context(), db, src, strings.Join(args, ","))
}

// runPipeline ingests src and prints the run summary, even for a run that
// stopped early.
func runPipeline(ctx context.Context, db *storage.DB, src *cricsheet.Source, source string) error {
	fmt.Fprintf(os.Stdout, "Ingesting %d entries from %s...\n", len(src.Entries), source)
	sum, err := ingest.New(db, cfg.Ingest(), log).Run(ctx, src, source)
	if sum != nil {
		report.PrintRunSummary(os.Stdout, sum)
	}
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return nil
}
