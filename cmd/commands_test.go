package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/cricmetrics/internal/config"
	"github.com/pable/cricmetrics/internal/logging"
	"github.com/pable/cricmetrics/internal/model"
	"github.com/pable/cricmetrics/internal/storage"
)

func setupStore(t *testing.T) *storage.DB {
	t.Helper()
	cfg = &config.Config{}
	log = logging.Discard()
	dbPath = filepath.Join(t.TempDir(), "cricket.db")

	db, err := storage.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	b, err := db.BeginBatch()
	require.NoError(t, err)
	defer b.Rollback()
	for i := 0; i < 3; i++ {
		_, err := b.InsertMatch(&model.MatchRecord{
			Match: model.Match{
				Season: 2021, Date: fmt.Sprintf("2021-04-%02d", i+10), Venue: "Wankhede Stadium", City: "Mumbai",
				Team1: "Mumbai Indians", Team2: "Chennai Super Kings", TossWinner: "Mumbai Indians", TossDecision: "field",
				Winner: "Mumbai Indians", ResultType: model.ResultWickets, ResultMargin: 6, MatchType: model.MatchLeague,
			},
			Batting: []model.BattingFact{
				{Player: "RG Sharma", Team: "Mumbai Indians", Innings: 2, Runs: 40, Balls: 30, Fours: 4, Sixes: 1, StrikeRate: 133.33, Position: 1},
			},
			Bowling: []model.BowlingFact{
				{Player: "JJ Bumrah", Team: "Mumbai Indians", Innings: 1, Balls: 24, Overs: 4, RunsConceded: 24, Wickets: 2, Economy: 6, Dots: 12},
			},
		})
		require.NoError(t, err)
	}
	require.NoError(t, b.Commit())
	return db
}

func TestPrintPlayer(t *testing.T) {
	db := setupStore(t)

	var buf bytes.Buffer
	require.NoError(t, printPlayer(&buf, db, "RG Sharma", 0))
	assert.Contains(t, buf.String(), "RG Sharma (all seasons)")
	assert.Contains(t, buf.String(), "Insufficient Data")

	buf.Reset()
	require.NoError(t, printPlayer(&buf, db, "Nobody", 0))
	assert.Contains(t, buf.String(), `No data found for "Nobody"`)

	buf.Reset()
	require.NoError(t, printSearch(&buf, db, "bum"))
	assert.Equal(t, "JJ Bumrah\n", buf.String())
}

func TestPrintTeamAndHeadToHead(t *testing.T) {
	db := setupStore(t)

	var buf bytes.Buffer
	require.NoError(t, printTeam(&buf, db, "Mumbai Indians", 0))
	out := buf.String()
	assert.Contains(t, out, "Mumbai Indians (all seasons)")
	assert.Contains(t, out, "Won 3 tosses, went on to win 3 (100.0%)")
	assert.Contains(t, out, "Wankhede Stadium")

	buf.Reset()
	require.NoError(t, printTeam(&buf, db, "Nowhere XI", 0))
	assert.Contains(t, buf.String(), "No matches found")

	assert.Error(t, printHeadToHead(&buf, db, "Mumbai Indians", "Mumbai Indians"))
}

func TestPrintLeaders(t *testing.T) {
	db := setupStore(t)

	var buf bytes.Buffer
	require.NoError(t, printLeaders(&buf, db, "runs", 2021, 5))
	assert.Contains(t, buf.String(), "RG Sharma")

	buf.Reset()
	require.NoError(t, printLeaders(&buf, db, "wickets", 0, 5))
	assert.Contains(t, buf.String(), "JJ Bumrah")

	assert.ErrorContains(t, printLeaders(&buf, db, "catches", 0, 5), "unknown leaderboard")
}

func TestPrintQuery(t *testing.T) {
	db := setupStore(t)

	var buf bytes.Buffer
	require.NoError(t, printQuery(&buf, db, "SELECT COUNT(*) FROM matches"))
	assert.Contains(t, buf.String(), "(1 rows)")
	assert.Error(t, printQuery(&buf, db, "SELECT * FROM nope"))
}

func TestBuildContexts(t *testing.T) {
	db := setupStore(t)

	raw, err := buildPlayerContext(db, "JJ Bumrah", 0)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "player", doc["subject"])
	assert.Equal(t, "all", doc["season"])
	assert.Contains(t, doc, "profile")

	_, err = buildPlayerContext(db, "Nobody", 0)
	assert.ErrorContains(t, err, "no data found")

	raw, err = buildTeamContext(db, "Chennai Super Kings", 2021)
	require.NoError(t, err)
	doc = nil
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "team", doc["subject"])
	assert.Equal(t, 2021.0, doc["season"])

	_, err = buildTeamContext(db, "Nowhere XI", 0)
	assert.ErrorContains(t, err, "no matches found")
}

func TestRefreshFillsCaches(t *testing.T) {
	db := setupStore(t)
	require.NoError(t, db.Close())

	refreshCmd.SetContext(context.Background())
	require.NoError(t, runRefresh(refreshCmd, nil))

	db, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	c, err := db.GetClassification("JJ Bumrah")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Insufficient Data", c.BowlingClass)

	stats, err := db.ListTeamSeasonStats("Chennai Super Kings")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].Played)
	assert.Zero(t, stats[0].Won)
}
