package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/metrics"
	"github.com/pable/cricmetrics/internal/report"
)

var matchupCmd = &cobra.Command{
	Use:   "matchup <batter> <bowler>",
	Short: "Batter versus bowler comparison",
	Long: `Compare a batter against a bowler over the matches where both appeared,
counting batting innings of 5 or more balls. The batter has the advantage when
their average strike rate in those innings exceeds 140.`,
	Example: `  cricmetrics matchup "V Kohli" "JJ Bumrah"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runMatchup,
}

func runMatchup(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := metrics.New(db).Matchup(args[0], args[1])
	if err != nil {
		return fmt.Errorf("matchup: %w", err)
	}
	if m.Encounters == 0 {
		fmt.Fprintf(os.Stdout, "%s and %s have not met.\n", args[0], args[1])
		return nil
	}
	report.PrintMatchup(os.Stdout, m)
	return nil
}
