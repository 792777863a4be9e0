package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/report"
	"github.com/pable/cricmetrics/internal/storage"
)

var (
	leadersSeason int
	leadersLimit  int
)

// leaderBoards maps a board name to its query and renderer.
var leaderBoards = map[string]func(w io.Writer, db *storage.DB, season, limit int) error{
	"runs": func(w io.Writer, db *storage.DB, season, limit int) error {
		rows, err := db.TopRunScorers(season, limit)
		if err == nil {
			report.PrintScorers(w, rows)
		}
		return err
	},
	"wickets": func(w io.Writer, db *storage.DB, season, limit int) error {
		rows, err := db.TopWicketTakers(season, limit)
		if err == nil {
			report.PrintWicketTakers(w, rows)
		}
		return err
	},
	"scores": func(w io.Writer, db *storage.DB, season, limit int) error {
		rows, err := db.HighestScores(season, limit)
		if err == nil {
			report.PrintHighScores(w, rows)
		}
		return err
	},
	"value": func(w io.Writer, db *storage.DB, season, limit int) error {
		rows, err := db.ValueLeaders(season, limit)
		if err == nil {
			report.PrintValueLeaders(w, rows)
		}
		return err
	},
	"pom": func(w io.Writer, db *storage.DB, season, limit int) error {
		rows, err := db.PlayerOfMatchCounts(season, limit)
		if err == nil {
			report.PrintCounts(w, "PLAYER", rows)
		}
		return err
	},
}

var leadersCmd = &cobra.Command{
	Use:   "leaders [runs|wickets|scores|value|pom]",
	Short: "Top-N leaderboards",
	Long: `Print a leaderboard, overall or for one season:
  runs     most runs
  wickets  most wickets
  scores   highest individual innings
  value    runs x 0.5 + matches x 20 + average strike rate x 0.3
  pom      player-of-the-match awards`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"runs", "wickets", "scores", "value", "pom"},
	RunE:      runLeaders,
}

func init() {
	leadersCmd.Flags().IntVar(&leadersSeason, "season", 0, "restrict to one season")
	leadersCmd.Flags().IntVarP(&leadersLimit, "limit", "n", 10, "rows to show")
}

func runLeaders(cmd *cobra.Command, args []string) error {
	board := "runs"
	if len(args) == 1 {
		board = args[0]
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printLeaders(os.Stdout, db, board, leadersSeason, leadersLimit)
}

func printLeaders(w io.Writer, db *storage.DB, board string, season, limit int) error {
	fn, ok := leaderBoards[board]
	if !ok {
		return fmt.Errorf("unknown leaderboard %q (runs, wickets, scores, value, pom)", board)
	}
	if err := fn(w, db, season, limit); err != nil {
		return fmt.Errorf("%s leaders: %w", board, err)
	}
	return nil
}
