package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/metrics"
	"github.com/pable/cricmetrics/internal/report"
	"github.com/pable/cricmetrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.CountMatches()
	if err != nil {
		return fmt.Errorf("count matches: %w", err)
	}
	cGreeting.Println("cricmetrics shell")
	cMuted.Printf("%d matches in %s; type 'help' or 'exit'\n", n, dbPath)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("cricmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if cmd == "exit" || cmd == "quit" {
			return nil
		}
		if err := shellDispatch(db, cmd, rest); err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func shellDispatch(db *storage.DB, cmd, rest string) error {
	switch cmd {
	case "help":
		shellHelp()
	case "list":
		season, _ := strconv.Atoi(rest)
		matches, err := db.ListMatches(season, 20)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			cMuted.Println("No matches stored yet.")
			return nil
		}
		report.PrintMatchList(os.Stdout, matches)
	case "show":
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			cError.Fprintln(os.Stderr, "usage: show <match-id>")
			return nil
		}
		rec, err := db.GetMatchRecord(id)
		if err != nil {
			return err
		}
		if rec == nil {
			cWarn.Fprintf(os.Stderr, "no match with id %d\n", id)
			return nil
		}
		report.PrintBoxScore(os.Stdout, rec)
	case "search":
		if rest == "" {
			cError.Fprintln(os.Stderr, "usage: search <name fragment>")
			return nil
		}
		return printSearch(os.Stdout, db, rest)
	case "player":
		if rest == "" {
			cError.Fprintln(os.Stderr, "usage: player <name>")
			return nil
		}
		return printPlayer(os.Stdout, db, rest, 0)
	case "team":
		if rest == "" {
			cError.Fprintln(os.Stderr, "usage: team <name>")
			return nil
		}
		return printTeam(os.Stdout, db, rest, 0)
	case "h2h":
		a, b, ok := splitVs(rest)
		if !ok {
			cError.Fprintln(os.Stderr, "usage: h2h <team> vs <team>")
			return nil
		}
		return printHeadToHead(os.Stdout, db, a, b)
	case "matchup":
		batter, bowler, ok := splitVs(rest)
		if !ok {
			cError.Fprintln(os.Stderr, "usage: matchup <batter> vs <bowler>")
			return nil
		}
		m, err := metrics.New(db).Matchup(batter, bowler)
		if err != nil {
			return err
		}
		report.PrintMatchup(os.Stdout, m)
	case "leaders":
		board, seasonArg, _ := strings.Cut(rest, " ")
		if board == "" {
			board = "runs"
		}
		season, _ := strconv.Atoi(seasonArg)
		return printLeaders(os.Stdout, db, board, season, 10)
	case "sql":
		if rest == "" {
			cError.Fprintln(os.Stderr, "usage: sql <query>")
			return nil
		}
		return printQuery(os.Stdout, db, rest)
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
	}
	return nil
}

// splitVs splits "A vs B" into its two trimmed halves.
func splitVs(s string) (string, string, bool) {
	a, b, ok := strings.Cut(s, " vs ")
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a, b, ok && a != "" && b != ""
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list [season]", "list the 20 most recent matches"},
		{"show <match-id>", "box score of one match"},
		{"search <fragment>", "find player names"},
		{"player <name>", "aggregates, archetypes and metrics for a player"},
		{"team <name>", "team record, venues, toss and seasons"},
		{"h2h <team> vs <team>", "normalised historical win rates"},
		{"matchup <batter> vs <bowler>", "batter versus bowler"},
		{"leaders [board] [season]", "runs, wickets, scores, value or pom"},
		{"sql <query>", "raw SQL against the database"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-32s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}
