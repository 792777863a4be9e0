package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/model"
	"github.com/pable/cricmetrics/internal/team"
)

var (
	refreshPlayersOnly bool
	refreshTeamsOnly   bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute cached player classifications and team season stats",
	Long: `Recompute player_classifications for every player with at least one fact
and team_stats_cache for every team and season. Both caches are derived data;
the fact tables are never modified.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshPlayersOnly, "players", false, "only refresh player classifications")
	refreshCmd.Flags().BoolVar(&refreshTeamsOnly, "teams", false, "only refresh team season stats")
	refreshCmd.MarkFlagsMutuallyExclusive("players", "teams")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if !refreshTeamsOnly {
		batters, err := db.ListPlayers(model.RoleBatting)
		if err != nil {
			return fmt.Errorf("list batters: %w", err)
		}
		bowlers, err := db.ListPlayers(model.RoleBowling)
		if err != nil {
			return fmt.Errorf("list bowlers: %w", err)
		}
		players := union(batters, bowlers)

		builder := newProfileBuilder(db)
		for i, name := range players {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			p, err := builder.Build(name)
			if err != nil {
				return fmt.Errorf("profile %s: %w", name, err)
			}
			if err := db.UpsertClassification(p.Classification()); err != nil {
				return fmt.Errorf("store classification %s: %w", name, err)
			}
			if (i+1)%100 == 0 {
				log.WithField("done", i+1).WithField("total", len(players)).Info("classifications refreshed")
			}
		}
		fmt.Fprintf(os.Stdout, "Refreshed %d player classifications\n", len(players))
	}

	if !refreshPlayersOnly {
		teams, err := db.ListTeams()
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		a := team.New(db)
		rows := 0
		for _, t := range teams {
			stats, err := a.SeasonStats(t)
			if err != nil {
				return fmt.Errorf("season stats %s: %w", t, err)
			}
			for _, s := range stats {
				if err := db.UpsertTeamSeasonStats(s); err != nil {
					return fmt.Errorf("store season stats %s %d: %w", t, s.Season, err)
				}
				rows++
			}
		}
		fmt.Fprintf(os.Stdout, "Refreshed %d team seasons across %d teams\n", rows, len(teams))
	}
	return nil
}

// union merges two sorted name lists without duplicates.
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, n := range list {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out
}
