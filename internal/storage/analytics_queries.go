package storage

import (
	"database/sql"
	"strings"

	"github.com/pable/cricmetrics/internal/model"
)

// Queries backing the metrics, classifier and team packages. Every
// user-supplied value is bound; aggregates over zero rows come back as zero.

// ---- Per-player samples ----

// RecentBattingRuns returns up to limit run totals from the player's most
// recent innings with at least minBalls balls faced.
func (db *DB) RecentBattingRuns(player string, minBalls, limit int) ([]float64, error) {
	return db.floats(`
		SELECT b.runs
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE b.player_name = ? AND b.balls_faced >= ?
		ORDER BY m.match_date DESC, b.id DESC
		LIMIT ?`, player, minBalls, limit)
}

// RecentBowlingEconomies returns up to limit economy rates from the player's
// most recent spells of at least minOvers overs.
func (db *DB) RecentBowlingEconomies(player string, minOvers float64, limit int) ([]float64, error) {
	return db.floats(`
		SELECT b.economy
		FROM bowling_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE b.player_name = ? AND b.overs >= ?
		ORDER BY m.match_date DESC, b.id DESC
		LIMIT ?`, player, minOvers, limit)
}

// BattingAverages returns mean runs and strike rate over the player's innings
// that pass f.
func (db *DB) BattingAverages(player string, f model.InningsFilter) (model.BattingAverage, error) {
	var where []string
	args := []any{player}
	where = append(where, "b.player_name = ?")
	if f.MinBalls > 0 {
		where = append(where, "b.balls_faced >= ?")
		args = append(args, f.MinBalls)
	}
	if f.MaxMargin > 0 {
		where = append(where, "m.result_margin <= ?")
		args = append(args, f.MaxMargin)
	}
	if len(f.MatchTypes) > 0 {
		where = append(where, "m.match_type IN ("+placeholders(len(f.MatchTypes))+")")
		for _, t := range f.MatchTypes {
			args = append(args, string(t))
		}
	}
	if f.MinPosition > 0 {
		where = append(where, "b.position >= ?")
		args = append(args, f.MinPosition)
	}
	if f.MaxPosition > 0 {
		where = append(where, "b.position <= ?")
		args = append(args, f.MaxPosition)
	}

	var a model.BattingAverage
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(b.runs), 0), COALESCE(AVG(b.strike_rate), 0)
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE `+strings.Join(where, " AND "), args...).
		Scan(&a.Innings, &a.AvgRuns, &a.AvgStrikeRate)
	return a, err
}

// BoundaryTotals returns the player's career runs, fours and sixes.
func (db *DB) BoundaryTotals(player string) (runs, fours, sixes int, err error) {
	err = db.conn.QueryRow(`
		SELECT COALESCE(SUM(runs), 0), COALESCE(SUM(fours), 0), COALESCE(SUM(sixes), 0)
		FROM batting_stats WHERE player_name = ?`, player).Scan(&runs, &fours, &sixes)
	return
}

// Matchup averages the batter's innings in matches where the bowler also
// bowled, counting only innings of at least minBalls balls.
func (db *DB) Matchup(batter, bowler string, minBalls int) (model.BattingAverage, error) {
	var a model.BattingAverage
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(b.runs), 0), COALESCE(AVG(b.strike_rate), 0)
		FROM batting_stats b
		JOIN bowling_stats bo ON b.match_id = bo.match_id
		WHERE b.player_name = ? AND bo.player_name = ? AND b.balls_faced >= ?`,
		batter, bowler, minBalls).Scan(&a.Innings, &a.AvgRuns, &a.AvgStrikeRate)
	return a, err
}

// ---- Classifier inputs ----

// BattingProfile aggregates the player's innings of at least minBalls balls.
func (db *DB) BattingProfile(player string, minBalls int) (model.BattingProfile, error) {
	var p model.BattingProfile
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(AVG(runs), 0),
		       COALESCE(AVG(strike_rate), 0),
		       COALESCE(AVG(fours + sixes), 0),
		       COALESCE(AVG(position), 0),
		       COALESCE(SUM(runs), 0),
		       COALESCE(SUM(CASE WHEN runs >= 50 THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(*), 0), 0)
		FROM batting_stats
		WHERE player_name = ? AND balls_faced >= ?`, player, minBalls).
		Scan(&p.Innings, &p.AvgRuns, &p.AvgStrikeRate, &p.BoundariesPerInning,
			&p.AvgPosition, &p.TotalRuns, &p.FiftyRate)
	return p, err
}

// BowlingProfile aggregates the player's spells of at least minOvers overs.
func (db *DB) BowlingProfile(player string, minOvers float64) (model.BowlingProfile, error) {
	var p model.BowlingProfile
	err := db.conn.QueryRow(`
		SELECT COUNT(DISTINCT match_id),
		       COALESCE(AVG(economy), 0),
		       COALESCE(SUM(wickets) * 1.0 / NULLIF(COUNT(DISTINCT match_id), 0), 0),
		       COALESCE(AVG(dots * 100.0 / balls), 0),
		       COALESCE(SUM(wickets), 0)
		FROM bowling_stats
		WHERE player_name = ? AND overs >= ?`, player, minOvers).
		Scan(&p.Matches, &p.AvgEconomy, &p.WicketsPerMatch, &p.DotBallPct, &p.TotalWickets)
	return p, err
}

// WinningRuns returns the player's run totals in innings their team won.
func (db *DB) WinningRuns(player string) ([]int, error) {
	return db.ints(`
		SELECT b.runs
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE b.player_name = ? AND m.winner = b.team`, player)
}

// WinningWickets returns the player's wicket counts in spells their team won.
func (db *DB) WinningWickets(player string) ([]int, error) {
	return db.ints(`
		SELECT b.wickets
		FROM bowling_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE b.player_name = ? AND m.winner = b.team`, player)
}

// ---- Team queries ----

// TeamRecord tallies the team's matches, wins and no-results. season 0 spans
// every season.
func (db *DB) TeamRecord(team string, season int) (model.TeamRecord, error) {
	r := model.TeamRecord{Team: team, Season: season}
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN winner IS NULL THEN 1 ELSE 0 END), 0)
		FROM matches
		WHERE (team1 = ? OR team2 = ?) AND (? = 0 OR season = ?)`,
		team, team, team, season, season).Scan(&r.Matches, &r.Wins, &r.NoResults)
	return r, err
}

// TeamInningsTotals returns the team's batting total in each match it batted.
func (db *DB) TeamInningsTotals(team string, season int) ([]int, error) {
	return db.ints(`
		SELECT SUM(b.runs)
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE b.team = ? AND (? = 0 OR m.season = ?)
		GROUP BY b.match_id
		ORDER BY b.match_id`, team, season, season)
}

// TopTeamBatsmen ranks the team's run scorers.
func (db *DB) TopTeamBatsmen(team string, season, limit int) ([]model.ScorerRow, error) {
	return db.scorers(`
		SELECT b.player_name, COUNT(DISTINCT b.match_id), COUNT(*), SUM(b.runs), AVG(b.strike_rate)
		FROM batting_stats b JOIN matches m ON b.match_id = m.match_id
		WHERE b.team = ? AND (? = 0 OR m.season = ?)
		GROUP BY b.player_name
		ORDER BY SUM(b.runs) DESC, b.player_name
		LIMIT ?`, team, season, season, limit)
}

// TeamVenues returns the team's record per ground for grounds with at least
// minMatches matches, best win percentage first.
func (db *DB) TeamVenues(team string, minMatches int) ([]model.VenueRecord, error) {
	rows, err := db.conn.Query(`
		SELECT venue, city, COUNT(*) AS played,
		       SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END),
		       ROUND(SUM(CASE WHEN winner = ? THEN 1.0 ELSE 0 END) / COUNT(*) * 100, 2) AS win_pct
		FROM matches
		WHERE team1 = ? OR team2 = ?
		GROUP BY venue, city
		HAVING played >= ?
		ORDER BY win_pct DESC, played DESC, venue`, team, team, team, team, minMatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.VenueRecord
	for rows.Next() {
		var v model.VenueRecord
		if err := rows.Scan(&v.Venue, &v.City, &v.Matches, &v.Wins, &v.WinPct); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// TossRecord counts tosses the team won and matches it went on to win.
func (db *DB) TossRecord(team string) (tossWins, matchWins int, err error) {
	err = db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0)
		FROM matches WHERE toss_winner = ?`, team, team).Scan(&tossWins, &matchWins)
	return
}

// TeamSeasons returns the team's record season by season, newest first.
func (db *DB) TeamSeasons(team string) ([]model.SeasonRecord, error) {
	rows, err := db.conn.Query(`
		SELECT season, COUNT(*),
		       SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN winner <> ? AND winner IS NOT NULL THEN 1 ELSE 0 END),
		       ROUND(SUM(CASE WHEN winner = ? THEN 1.0 ELSE 0 END) / COUNT(*) * 100, 2)
		FROM matches
		WHERE team1 = ? OR team2 = ?
		GROUP BY season
		ORDER BY season DESC`, team, team, team, team, team)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonRecord
	for rows.Next() {
		var s model.SeasonRecord
		if err := rows.Scan(&s.Season, &s.Matches, &s.Wins, &s.Losses, &s.WinPct); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---- Cache tables ----

// UpsertClassification stores or replaces a player's analytics snapshot.
func (db *DB) UpsertClassification(c model.PlayerClassification) error {
	_, err := db.conn.Exec(`
		INSERT INTO player_classifications(
			player_name, batting_class, batting_conf, bowling_class, bowling_conf,
			consistency, impact_score, pressure_rating, updated_at
		) VALUES (?,?,?,?,?,?,?,?, datetime('now'))
		ON CONFLICT(player_name) DO UPDATE SET
			batting_class = excluded.batting_class,
			batting_conf = excluded.batting_conf,
			bowling_class = excluded.bowling_class,
			bowling_conf = excluded.bowling_conf,
			consistency = excluded.consistency,
			impact_score = excluded.impact_score,
			pressure_rating = excluded.pressure_rating,
			updated_at = excluded.updated_at`,
		c.Player, c.BattingClass, c.BattingConf, c.BowlingClass, c.BowlingConf,
		c.Consistency, c.Impact, c.Pressure)
	return err
}

// GetClassification returns the cached snapshot for player, or nil.
func (db *DB) GetClassification(player string) (*model.PlayerClassification, error) {
	var c model.PlayerClassification
	err := db.conn.QueryRow(`
		SELECT player_name, batting_class, batting_conf, bowling_class, bowling_conf,
		       consistency, impact_score, pressure_rating, updated_at
		FROM player_classifications WHERE player_name = ?`, player).
		Scan(&c.Player, &c.BattingClass, &c.BattingConf, &c.BowlingClass, &c.BowlingConf,
			&c.Consistency, &c.Impact, &c.Pressure, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertTeamSeasonStats stores or replaces one team-season summary.
func (db *DB) UpsertTeamSeasonStats(s model.TeamSeasonStats) error {
	_, err := db.conn.Exec(`
		INSERT INTO team_stats_cache(team, season, played, won, win_pct, avg_score, highest_score, lowest_score, updated_at)
		VALUES (?,?,?,?,?,?,?,?, datetime('now'))
		ON CONFLICT(team, season) DO UPDATE SET
			played = excluded.played,
			won = excluded.won,
			win_pct = excluded.win_pct,
			avg_score = excluded.avg_score,
			highest_score = excluded.highest_score,
			lowest_score = excluded.lowest_score,
			updated_at = excluded.updated_at`,
		s.Team, s.Season, s.Played, s.Won, s.WinPct, s.AvgScore, s.Highest, s.Lowest)
	return err
}

// ListTeamSeasonStats returns the cached summaries for team, newest season first.
func (db *DB) ListTeamSeasonStats(team string) ([]model.TeamSeasonStats, error) {
	rows, err := db.conn.Query(`
		SELECT team, season, played, won, win_pct, avg_score, highest_score, lowest_score, updated_at
		FROM team_stats_cache WHERE team = ? ORDER BY season DESC`, team)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamSeasonStats
	for rows.Next() {
		var s model.TeamSeasonStats
		if err := rows.Scan(&s.Team, &s.Season, &s.Played, &s.Won, &s.WinPct,
			&s.AvgScore, &s.Highest, &s.Lowest, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---- scan helpers ----

func (db *DB) floats(query string, args ...any) ([]float64, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (db *DB) ints(query string, args ...any) ([]int, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (db *DB) scorers(query string, args ...any) ([]model.ScorerRow, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScorerRow
	for rows.Next() {
		var s model.ScorerRow
		if err := rows.Scan(&s.Player, &s.Matches, &s.Innings, &s.Runs, &s.AvgStrikeRate); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
