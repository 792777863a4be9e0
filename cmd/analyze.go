package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/cricmetrics/internal/storage"
	"github.com/pable/cricmetrics/internal/team"
)

const analyzeSystemPrompt = `You are a T20 cricket performance analyst. You are given structured data
computed from ball-by-ball IPL records and a question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If a classification says "Insufficient Data", say the sample is too small.
- Be concise; describe what the numbers show, not generic cricket advice.

Metrics glossary:
- Strike rate: runs per 100 balls faced. Averages here are per innings.
- Economy: runs conceded per over (6 legal balls).
- Consistency (0-100): 100 minus the coefficient of variation (x100) of the
  last 20 qualifying innings runs or spell economies. Higher = steadier.
- Pressure rating: mean of (close-match average / overall average) and
  (knockout average / overall average), x100. Above 100 = clutch.
- Strike rotation %: share of runs not scored in boundaries.
- Impact score (0-100): stepped score of the average runs and wickets the
  player contributed in matches their team won.
- Phase split: the innings is bucketed by batting position as a proxy
  (1-2 powerplay, 3-5 middle, 6+ death).
- Head-to-head share: both teams' historical win rates normalised to 100.`

const analyzeMaxTokens = 1024

var (
	analyzeAPIKey string
	analyzeSeason int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzePlayerCmd = &cobra.Command{
	Use:     "player <name> <question>",
	Short:   "Analyze a player's aggregates and archetypes with AI",
	Example: `  cricmetrics analyze player "V Kohli" "Does their scoring hold up in knockout matches?"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runAnalyzePlayer,
}

var analyzeTeamCmd = &cobra.Command{
	Use:   "team <name> <question>",
	Short: "Analyze a team's record with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeTeam,
}

func init() {
	analyzeCmd.PersistentFlags().String("model", "", "Anthropic model to use (default anthropic_model)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.PersistentFlags().IntVar(&analyzeSeason, "season", 0, "restrict aggregates to one season")
	analyzeCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		_ = settings.BindPFlag("anthropic_model", analyzeCmd.PersistentFlags().Lookup("model"))
		return loadConfig(cmd, args)
	}

	analyzeCmd.AddCommand(analyzePlayerCmd)
	analyzeCmd.AddCommand(analyzeTeamCmd)
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	name, question := args[0], args[1]
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	contextJSON, err := buildPlayerContext(db, name, analyzeSeason)
	if err != nil {
		return err
	}
	return callAnthropic(cmd.Context(), os.Stdout, analyzeAPIKey, cfg.AnthropicModel, contextJSON, question)
}

func runAnalyzeTeam(cmd *cobra.Command, args []string) error {
	name, question := args[0], args[1]
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	contextJSON, err := buildTeamContext(db, name, analyzeSeason)
	if err != nil {
		return err
	}
	return callAnthropic(cmd.Context(), os.Stdout, analyzeAPIKey, cfg.AnthropicModel, contextJSON, question)
}

// buildPlayerContext serialises a player's aggregates and derived profile into compact JSON.
func buildPlayerContext(db *storage.DB, name string, season int) (string, error) {
	stats, err := db.PlayerStats(name, season)
	if err != nil {
		return "", fmt.Errorf("player stats: %w", err)
	}
	if stats.Batting.Innings == 0 && stats.Bowling.Balls == 0 {
		return "", fmt.Errorf("no data found for %q", name)
	}
	p, err := newProfileBuilder(db).Build(name)
	if err != nil {
		return "", fmt.Errorf("build profile: %w", err)
	}

	doc := map[string]any{
		"subject": "player",
		"player":  name,
		"season":  seasonLabel(season),
		"batting": stats.Batting,
		"bowling": stats.Bowling,
		"profile": p,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// buildTeamContext serialises a team's record and breakdowns into compact JSON.
func buildTeamContext(db *storage.DB, name string, season int) (string, error) {
	a := team.New(db)
	p, err := a.Profile(name, season)
	if err != nil {
		return "", fmt.Errorf("team profile: %w", err)
	}
	if p.Matches == 0 {
		return "", fmt.Errorf("no matches found for %q", name)
	}
	venues, err := a.Venues(name)
	if err != nil {
		return "", fmt.Errorf("venues: %w", err)
	}
	toss, err := a.TossImpact(name)
	if err != nil {
		return "", fmt.Errorf("toss impact: %w", err)
	}
	seasons, err := a.SeasonRecord(name)
	if err != nil {
		return "", fmt.Errorf("season record: %w", err)
	}

	doc := map[string]any{
		"subject":   "team",
		"team":      name,
		"season":    seasonLabel(season),
		"profile":   p,
		"venues":    venues,
		"toss":      toss,
		"by_season": seasons,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

func seasonLabel(season int) any {
	if season == 0 {
		return "all"
	}
	return season
}

// callAnthropic streams a response from the Anthropic API to w.
func callAnthropic(ctx context.Context, w io.Writer, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return errors.New("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)
	log.WithField("model", modelID).WithField("context_bytes", len(dataJSON)).Debug("requesting analysis")

	fmt.Fprintln(w, "\n─── AI Analysis ─────────────────────────────────────")
	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: analyzeMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})
	for stream.Next() {
		evt := stream.Current()
		if evt.Type != "content_block_delta" {
			continue
		}
		if delta := evt.AsContentBlockDelta(); delta.Delta.Type == "text_delta" {
			fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
		}
	}
	fmt.Fprintln(w, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "401") || strings.Contains(msg, "authentication") {
			return errors.New("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
