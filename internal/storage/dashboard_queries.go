package storage

import (
	"strings"

	"github.com/pable/cricmetrics/internal/model"
)

// Read-only leaderboards and breakdowns for the dashboard surface. season 0
// means every season throughout.

// PlayerStats aggregates a player's batting and bowling, optionally for one season.
func (db *DB) PlayerStats(player string, season int) (model.PlayerStats, error) {
	ps := model.PlayerStats{Player: player, Season: season}
	ps.Batting.Player = player
	ps.Bowling.Player = player

	b := &ps.Batting
	err := db.conn.QueryRow(`
		SELECT COUNT(DISTINCT b.match_id), COUNT(b.id),
		       COALESCE(SUM(b.runs), 0), COALESCE(SUM(b.balls_faced), 0),
		       COALESCE(AVG(b.runs), 0), COALESCE(MAX(b.runs), 0), COALESCE(AVG(b.strike_rate), 0),
		       COALESCE(SUM(b.fours), 0), COALESCE(SUM(b.sixes), 0),
		       COALESCE(SUM(CASE WHEN b.runs >= 50 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN b.runs >= 100 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(b.is_not_out), 0)
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE b.player_name = ? AND (? = 0 OR m.season = ?)`, player, season, season).
		Scan(&b.Matches, &b.Innings, &b.Runs, &b.Balls, &b.AvgRuns, &b.HighestScore, &b.AvgStrikeRate,
			&b.Fours, &b.Sixes, &b.Fifties, &b.Hundreds, &b.NotOuts)
	if err != nil {
		return ps, err
	}

	w := &ps.Bowling
	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT b.match_id),
		       COALESCE(SUM(b.balls), 0), COALESCE(SUM(b.overs), 0), COALESCE(SUM(b.wickets), 0),
		       COALESCE(SUM(b.runs_conceded), 0), COALESCE(AVG(b.economy), 0),
		       COALESCE(SUM(CASE WHEN b.wickets >= 3 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN b.wickets >= 4 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(b.dots), 0)
		FROM bowling_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE b.player_name = ? AND (? = 0 OR m.season = ?)`, player, season, season).
		Scan(&w.Matches, &w.Balls, &w.Overs, &w.Wickets, &w.RunsConceded, &w.AvgEconomy,
			&w.ThreeWickets, &w.FourWickets, &w.Dots)
	return ps, err
}

// SearchPlayers returns player names containing fragment, case-insensitively.
func (db *DB) SearchPlayers(fragment string, limit int) ([]string, error) {
	like := "%" + escapeLike(fragment) + "%"
	return db.strings(`
		SELECT player_name FROM batting_stats WHERE player_name LIKE ? ESCAPE '\'
		UNION
		SELECT player_name FROM bowling_stats WHERE player_name LIKE ? ESCAPE '\'
		ORDER BY 1 LIMIT ?`, like, like, limit)
}

// TopRunScorers ranks batters by total runs.
func (db *DB) TopRunScorers(season, limit int) ([]model.ScorerRow, error) {
	return db.scorers(`
		SELECT b.player_name, COUNT(DISTINCT b.match_id), COUNT(*), SUM(b.runs), AVG(b.strike_rate)
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE (? = 0 OR m.season = ?)
		GROUP BY b.player_name
		ORDER BY SUM(b.runs) DESC, b.player_name
		LIMIT ?`, season, season, limit)
}

// TopWicketTakers ranks bowlers by total wickets.
func (db *DB) TopWicketTakers(season, limit int) ([]model.WicketRow, error) {
	rows, err := db.conn.Query(`
		SELECT b.player_name, COUNT(DISTINCT b.match_id), SUM(b.wickets), AVG(b.economy)
		FROM bowling_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE (? = 0 OR m.season = ?)
		GROUP BY b.player_name
		ORDER BY SUM(b.wickets) DESC, AVG(b.economy), b.player_name
		LIMIT ?`, season, season, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WicketRow
	for rows.Next() {
		var w model.WicketRow
		if err := rows.Scan(&w.Player, &w.Matches, &w.Wickets, &w.AvgEconomy); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// HighestScores lists the largest individual innings.
func (db *DB) HighestScores(season, limit int) ([]model.HighScore, error) {
	rows, err := db.conn.Query(`
		SELECT b.match_id, m.season, b.player_name, b.team, b.runs, b.balls_faced, b.fours, b.sixes, b.strike_rate
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE (? = 0 OR m.season = ?)
		ORDER BY b.runs DESC, b.balls_faced, b.id
		LIMIT ?`, season, season, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HighScore
	for rows.Next() {
		var h model.HighScore
		if err := rows.Scan(&h.MatchID, &h.Season, &h.Player, &h.Team, &h.Runs, &h.Balls,
			&h.Fours, &h.Sixes, &h.StrikeRate); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ValueLeaders ranks batters by ValueScore.
func (db *DB) ValueLeaders(season, limit int) ([]model.ValueRow, error) {
	rows, err := db.conn.Query(`
		SELECT b.player_name, COUNT(DISTINCT b.match_id), SUM(b.runs), AVG(b.strike_rate)
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE (? = 0 OR m.season = ?)
		GROUP BY b.player_name
		ORDER BY SUM(b.runs) * 0.5 + COUNT(DISTINCT b.match_id) * 20 + AVG(b.strike_rate) * 0.3 DESC, b.player_name
		LIMIT ?`, season, season, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ValueRow
	for rows.Next() {
		var v model.ValueRow
		if err := rows.Scan(&v.Player, &v.Matches, &v.Runs, &v.AvgStrikeRate); err != nil {
			return nil, err
		}
		v.Score = model.ValueScore(v.Runs, v.Matches, v.AvgStrikeRate)
		out = append(out, v)
	}
	return out, rows.Err()
}

// RunsPerSeason totals runs off the bat per season.
func (db *DB) RunsPerSeason() ([]model.SeasonRuns, error) {
	rows, err := db.conn.Query(`
		SELECT m.season, COUNT(DISTINCT m.match_id), COALESCE(SUM(b.runs), 0)
		FROM matches m LEFT JOIN batting_stats b ON b.match_id = m.match_id
		GROUP BY m.season
		ORDER BY m.season`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonRuns
	for rows.Next() {
		var s model.SeasonRuns
		if err := rows.Scan(&s.Season, &s.Matches, &s.Runs); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MatchesBySeason counts stored matches per season.
func (db *DB) MatchesBySeason() ([]model.CountRow, error) {
	return db.counts(`
		SELECT CAST(season AS TEXT), COUNT(*) FROM matches
		GROUP BY season ORDER BY season`)
}

// TeamWins counts wins per team.
func (db *DB) TeamWins(season, limit int) ([]model.CountRow, error) {
	return db.counts(`
		SELECT winner, COUNT(*) FROM matches
		WHERE winner IS NOT NULL AND (? = 0 OR season = ?)
		GROUP BY winner ORDER BY COUNT(*) DESC, winner LIMIT ?`, season, season, limit)
}

// PopularVenues counts matches per venue.
func (db *DB) PopularVenues(season, limit int) ([]model.CountRow, error) {
	return db.counts(`
		SELECT venue, COUNT(*) FROM matches
		WHERE (? = 0 OR season = ?)
		GROUP BY venue ORDER BY COUNT(*) DESC, venue LIMIT ?`, season, season, limit)
}

// PlayerOfMatchCounts counts player-of-the-match awards.
func (db *DB) PlayerOfMatchCounts(season, limit int) ([]model.CountRow, error) {
	return db.counts(`
		SELECT player_of_match, COUNT(*) FROM matches
		WHERE player_of_match IS NOT NULL AND (? = 0 OR season = ?)
		GROUP BY player_of_match ORDER BY COUNT(*) DESC, player_of_match LIMIT ?`, season, season, limit)
}

// ResultDistribution counts matches per result type.
func (db *DB) ResultDistribution(season int) ([]model.CountRow, error) {
	return db.counts(`
		SELECT result_type, COUNT(*) FROM matches
		WHERE (? = 0 OR season = ?)
		GROUP BY result_type ORDER BY COUNT(*) DESC, result_type`, season, season)
}

func (db *DB) counts(query string, args ...any) ([]model.CountRow, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CountRow
	for rows.Next() {
		var c model.CountRow
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// placeholders returns a comma-separated list of n SQL placeholders ("?,?,?").
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
