package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/classifier"
	"github.com/pable/cricmetrics/internal/metrics"
	"github.com/pable/cricmetrics/internal/profile"
	"github.com/pable/cricmetrics/internal/report"
	"github.com/pable/cricmetrics/internal/storage"
)

var (
	playerSeason int
	playerSearch bool
)

// playerCmd is the cobra command for a player's aggregates, archetypes and metrics.
var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Aggregates, classification and derived metrics for one player",
	Long: `Print a player's batting and bowling aggregates followed by their batting
and bowling archetypes, consistency, pressure rating, strike rotation, impact
score and phase split. Names are matched exactly as recorded (e.g. "V Kohli").
Use --search to look a name up by fragment.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerSeason, "season", 0, "restrict aggregates to one season")
	playerCmd.Flags().BoolVar(&playerSearch, "search", false, "list player names containing the argument")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if playerSearch {
		return printSearch(os.Stdout, db, name)
	}
	return printPlayer(os.Stdout, db, name, playerSeason)
}

func newProfileBuilder(db *storage.DB) *profile.Builder {
	return profile.NewBuilder(metrics.New(db), classifier.New(db, cfg.PlayerStyles))
}

func printSearch(w io.Writer, db *storage.DB, fragment string) error {
	names, err := db.SearchPlayers(fragment, 25)
	if err != nil {
		return fmt.Errorf("search players: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintf(w, "No players matching %q\n", fragment)
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}

// printPlayer renders everything known about one player.
func printPlayer(w io.Writer, db *storage.DB, name string, season int) error {
	stats, err := db.PlayerStats(name, season)
	if err != nil {
		return fmt.Errorf("player stats: %w", err)
	}
	if stats.Batting.Innings == 0 && stats.Bowling.Balls == 0 {
		fmt.Fprintf(w, "No data found for %q. Try 'cricmetrics player --search %s'.\n", name, name)
		return nil
	}
	report.PrintPlayerStats(w, stats)

	p, err := newProfileBuilder(db).Build(name)
	if err != nil {
		return fmt.Errorf("build profile: %w", err)
	}
	report.PrintPlayerMetrics(w, p)

	cached, err := db.GetClassification(name)
	if err != nil {
		return fmt.Errorf("cached classification: %w", err)
	}
	if cached != nil {
		report.PrintCachedClassification(w, *cached)
	}
	return nil
}
