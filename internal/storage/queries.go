package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/cricmetrics/internal/model"
)

const matchColumns = `
	match_id, season, match_number, match_date, venue, city, team1, team2,
	toss_winner, toss_decision, COALESCE(winner, ''), result_type, result_margin,
	COALESCE(player_of_match, ''), match_type`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(s scanner) (model.Match, error) {
	var m model.Match
	var resultType, matchType string
	err := s.Scan(&m.ID, &m.Season, &m.MatchNumber, &m.Date, &m.Venue, &m.City, &m.Team1, &m.Team2,
		&m.TossWinner, &m.TossDecision, &m.Winner, &resultType, &m.ResultMargin,
		&m.PlayerOfMatch, &matchType)
	m.ResultType = model.ResultType(resultType)
	m.MatchType = model.MatchType(matchType)
	return m, err
}

// GetMatch returns the match with the given id, or nil if absent.
func (db *DB) GetMatch(id int64) (*model.Match, error) {
	row := db.conn.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`, id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountMatches returns the number of stored matches.
func (db *DB) CountMatches() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM matches").Scan(&n)
	return n, err
}

// ListMatches returns stored matches newest first. season 0 lists every
// season; limit <= 0 lists everything.
func (db *DB) ListMatches(season, limit int) ([]model.MatchSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT match_id, season, match_date, team1, team2, venue, COALESCE(winner, ''),
		       result_type, result_margin, COALESCE(player_of_match, ''), match_type
		FROM matches
		WHERE (? = 0 OR season = ?)
		ORDER BY match_date DESC, match_id DESC
		LIMIT ?`, season, season, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		var resultType, matchType string
		if err := rows.Scan(&s.ID, &s.Season, &s.Date, &s.Team1, &s.Team2, &s.Venue, &s.Winner,
			&resultType, &s.ResultMargin, &s.PlayerOfMatch, &matchType); err != nil {
			return nil, err
		}
		s.ResultType = model.ResultType(resultType)
		s.MatchType = model.MatchType(matchType)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetBattingFacts returns a match's batting card in innings then position order.
func (db *DB) GetBattingFacts(matchID int64) ([]model.BattingFact, error) {
	rows, err := db.conn.Query(`
		SELECT id, match_id, player_name, team, innings, runs, balls_faced, fours, sixes,
		       strike_rate, position, COALESCE(dismissal_kind, ''), is_not_out
		FROM batting_stats WHERE match_id = ?
		ORDER BY innings, position`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BattingFact
	for rows.Next() {
		var f model.BattingFact
		var notOut int
		if err := rows.Scan(&f.ID, &f.MatchID, &f.Player, &f.Team, &f.Innings, &f.Runs, &f.Balls,
			&f.Fours, &f.Sixes, &f.StrikeRate, &f.Position, &f.DismissalKind, &notOut); err != nil {
			return nil, err
		}
		f.NotOut = notOut != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetBowlingFacts returns a match's bowling figures in innings then id order.
func (db *DB) GetBowlingFacts(matchID int64) ([]model.BowlingFact, error) {
	rows, err := db.conn.Query(`
		SELECT id, match_id, player_name, team, innings, balls, overs, runs_conceded,
		       wickets, economy, dots
		FROM bowling_stats WHERE match_id = ?
		ORDER BY innings, id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BowlingFact
	for rows.Next() {
		var f model.BowlingFact
		if err := rows.Scan(&f.ID, &f.MatchID, &f.Player, &f.Team, &f.Innings, &f.Balls, &f.Overs,
			&f.RunsConceded, &f.Wickets, &f.Economy, &f.Dots); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetMatchRecord loads a match with its facts, or nil if absent.
func (db *DB) GetMatchRecord(id int64) (*model.MatchRecord, error) {
	m, err := db.GetMatch(id)
	if err != nil || m == nil {
		return nil, err
	}
	bat, err := db.GetBattingFacts(id)
	if err != nil {
		return nil, fmt.Errorf("batting facts: %w", err)
	}
	bowl, err := db.GetBowlingFacts(id)
	if err != nil {
		return nil, fmt.Errorf("bowling facts: %w", err)
	}
	return &model.MatchRecord{Match: *m, Batting: bat, Bowling: bowl}, nil
}

// ListPlayers returns every distinct player name with at least one fact of the role.
func (db *DB) ListPlayers(role model.Role) ([]string, error) {
	table := "batting_stats"
	if role == model.RoleBowling {
		table = "bowling_stats"
	}
	return db.strings(`SELECT DISTINCT player_name FROM ` + table + ` ORDER BY player_name`)
}

// ListTeams returns every team that appears in a stored match.
func (db *DB) ListTeams() ([]string, error) {
	return db.strings(`SELECT team1 FROM matches UNION SELECT team2 FROM matches ORDER BY 1`)
}

// ListSeasons returns the stored seasons in ascending order.
func (db *DB) ListSeasons() ([]int, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT season FROM matches ORDER BY season`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (db *DB) strings(query string, args ...any) ([]string, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
