package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/report"
	"github.com/pable/cricmetrics/internal/storage"
	"github.com/pable/cricmetrics/internal/team"
)

var (
	teamSeason int
	teamVs     string
)

var teamCmd = &cobra.Command{
	Use:   "team [name]",
	Short: "Team record, venues, toss impact and season history",
	Long: `Without a name, list every stored team. With a name, print the team's
win/loss record and innings totals, top run scorers, venue breakdown (grounds
with 3+ matches), toss impact and season-by-season record. --vs compares two
teams by their normalised historical win rates.`,
	Example: `  cricmetrics team "Mumbai Indians" --season 2020
  cricmetrics team "Mumbai Indians" --vs "Chennai Super Kings"`,
	Args: cobra.ArbitraryArgs,
	RunE: runTeam,
}

func init() {
	teamCmd.Flags().IntVar(&teamSeason, "season", 0, "restrict the record to one season")
	teamCmd.Flags().StringVar(&teamVs, "vs", "", "compare against another team")
}

func runTeam(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 0 {
		teams, err := db.ListTeams()
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		for _, t := range teams {
			fmt.Fprintln(os.Stdout, t)
		}
		return nil
	}

	name := strings.Join(args, " ")
	if teamVs != "" {
		return printHeadToHead(os.Stdout, db, name, teamVs)
	}
	return printTeam(os.Stdout, db, name, teamSeason)
}

// printTeam renders a team's profile and breakdowns.
func printTeam(w io.Writer, db *storage.DB, name string, season int) error {
	a := team.New(db)
	p, err := a.Profile(name, season)
	if err != nil {
		return fmt.Errorf("team profile: %w", err)
	}
	if p.Matches == 0 {
		fmt.Fprintf(w, "No matches found for %q.\n", name)
		return nil
	}
	report.PrintTeamProfile(w, p)

	venues, err := a.Venues(name)
	if err != nil {
		return fmt.Errorf("venues: %w", err)
	}
	if len(venues) > 0 {
		fmt.Fprintln(w, "\nVenues (3+ matches):")
		report.PrintVenues(w, venues)
	}

	toss, err := a.TossImpact(name)
	if err != nil {
		return fmt.Errorf("toss impact: %w", err)
	}
	fmt.Fprintln(w)
	report.PrintToss(w, toss)

	seasons, err := a.SeasonRecord(name)
	if err != nil {
		return fmt.Errorf("season record: %w", err)
	}
	fmt.Fprintln(w, "\nBy season:")
	report.PrintSeasonRecords(w, seasons)
	return nil
}

func printHeadToHead(w io.Writer, db *storage.DB, a, b string) error {
	if a == b {
		return fmt.Errorf("head-to-head needs two different teams")
	}
	h, err := team.New(db).HeadToHead(a, b)
	if err != nil {
		return fmt.Errorf("head to head: %w", err)
	}
	report.PrintHeadToHead(w, h)
	return nil
}
