package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about the stored matches: match count per
season, runs per season, result types, most wins, busiest venues and the
latest ingestion runs.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	total, err := db.CountMatches()
	if err != nil {
		return fmt.Errorf("count matches: %w", err)
	}
	if total == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'cricmetrics fetch' to add some.")
		return nil
	}
	gen, err := db.Generation()
	if err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", total)
	fmt.Fprintf(os.Stdout, "  Generation     : %s\n", gen)

	bySeason, err := db.MatchesBySeason()
	if err != nil {
		return fmt.Errorf("matches by season: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Matches by Season ---\n\n")
	report.PrintCounts(os.Stdout, "season", bySeason)

	runs, err := db.RunsPerSeason()
	if err != nil {
		return fmt.Errorf("runs per season: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Runs by Season ---\n\n")
	report.PrintSeasonRuns(os.Stdout, runs)

	results, err := db.ResultDistribution(0)
	if err != nil {
		return fmt.Errorf("result distribution: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Results ---\n\n")
	report.PrintCounts(os.Stdout, "result", results)

	wins, err := db.TeamWins(0, 10)
	if err != nil {
		return fmt.Errorf("team wins: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Wins ---\n\n")
	report.PrintCounts(os.Stdout, "team", wins)

	venues, err := db.PopularVenues(0, 10)
	if err != nil {
		return fmt.Errorf("popular venues: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Venues ---\n\n")
	report.PrintCounts(os.Stdout, "venue", venues)

	// Only shown once something has been ingested through a run.
	ingestRuns, err := db.ListRuns(5)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(ingestRuns) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Recent Ingest Runs ---\n\n")
		report.PrintRuns(os.Stdout, ingestRuns)
	}
	return nil
}
