package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/report"
	"github.com/pable/cricmetrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(match_id, season, match_number, match_date, venue, city, team1, team2,
    toss_winner, toss_decision, winner, result_type, result_margin,
    player_of_match, match_type, created_at)
  batting_stats(id, match_id, player_name, team, innings, runs, balls_faced, fours,
    sixes, strike_rate, position, dismissal_kind, is_not_out)
  bowling_stats(id, match_id, player_name, team, innings, balls, overs,
    runs_conceded, wickets, economy, dots)
  player_classifications(player_name, batting_class, batting_conf, bowling_class,
    bowling_conf, consistency, impact_score, pressure_rating, updated_at)
  team_stats_cache(team, season, played, won, win_pct, avg_score, highest_score,
    lowest_score, updated_at)
  ingest_runs(run_id, source, started_at, finished_at, processed, skipped,
    duplicates, failed)

Note: winner and player_of_match are NULL for no-result matches.
  cricmetrics sql "SELECT player_name, SUM(runs) FROM batting_stats GROUP BY 1 ORDER BY 2 DESC LIMIT 5"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printQuery(os.Stdout, db, strings.Join(args, " "))
}

func printQuery(w io.Writer, db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintRows(w, cols, rows)
	return nil
}
