package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/model"
	"github.com/pable/cricmetrics/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Season-by-season trend for a player or team",
}

var trendPlayerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Per-season batting and bowling line for a player",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrendPlayer,
}

var trendTeamCmd = &cobra.Command{
	Use:   "team <name>",
	Short: "Cached per-season summaries for a team (see 'refresh')",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrendTeam,
}

func init() {
	trendCmd.AddCommand(trendPlayerCmd)
	trendCmd.AddCommand(trendTeamCmd)
}

func runTrendPlayer(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	seasons, err := db.ListSeasons()
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	var rows []model.PlayerStats
	for _, s := range seasons {
		ps, err := db.PlayerStats(name, s)
		if err != nil {
			return fmt.Errorf("stats for %d: %w", s, err)
		}
		if ps.Batting.Innings > 0 || ps.Bowling.Balls > 0 {
			rows = append(rows, ps)
		}
	}
	if len(rows) == 0 {
		fmt.Println("no matches found")
		return nil
	}
	report.PrintPlayerTrend(os.Stdout, rows)
	return nil
}

func runTrendTeam(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.ListTeamSeasonStats(name)
	if err != nil {
		return fmt.Errorf("team season stats: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("no cached seasons; run 'cricmetrics refresh' first")
		return nil
	}
	report.PrintTeamTrend(os.Stdout, rows)
	return nil
}
