package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pable/cricmetrics/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by lookups that require exactly one row.
var ErrNotFound = errors.New("not found")

// DB wraps a sql.DB for the fact store.
//
// The pool is capped at one connection: an in-memory database exists per
// connection, and SQLite serialises writers anyway. Callers must drain every
// *sql.Rows before issuing the next query, and must not use DB read methods
// while a Batch is open.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ---- Write batches ----

// Batch is an open write transaction spanning several match records. Each
// InsertMatch is atomic on its own through a savepoint, so a failed record
// leaves nothing behind while earlier records of the batch survive.
type Batch struct {
	tx      *sql.Tx
	match   *sql.Stmt
	batting *sql.Stmt
	bowling *sql.Stmt
	n       int
}

// BeginBatch opens a write transaction with its insert statements prepared.
func (db *DB) BeginBatch() (*Batch, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	b := &Batch{tx: tx}
	if err := b.prepare(); err != nil {
		b.Rollback()
		return nil, err
	}
	return b, nil
}

func (b *Batch) prepare() error {
	var err error
	b.match, err = b.tx.Prepare(`
		INSERT INTO matches(
			season, match_number, match_date, venue, city, team1, team2,
			toss_winner, toss_decision, winner, result_type, result_margin,
			player_of_match, match_type
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare match insert: %w", err)
	}
	b.batting, err = b.tx.Prepare(`
		INSERT INTO batting_stats(
			match_id, player_name, team, innings, runs, balls_faced,
			fours, sixes, strike_rate, position, dismissal_kind, is_not_out
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare batting insert: %w", err)
	}
	b.bowling, err = b.tx.Prepare(`
		INSERT INTO bowling_stats(
			match_id, player_name, team, innings, balls, overs,
			runs_conceded, wickets, economy, dots
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare bowling insert: %w", err)
	}
	return nil
}

// Len returns how many matches this batch has inserted.
func (b *Batch) Len() int { return b.n }

// FixtureExists reports whether a match with this fingerprint is already
// stored, including by this uncommitted batch.
func (b *Batch) FixtureExists(fp model.Fingerprint) (bool, error) {
	var count int
	err := b.tx.QueryRow(`
		SELECT COUNT(1) FROM matches
		WHERE season = ? AND match_date = ? AND team1 = ? AND team2 = ? AND venue = ?`,
		fp.Season, fp.Date, fp.Team1, fp.Team2, fp.Venue).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check fixture: %w", err)
	}
	return count > 0, nil
}

// InsertMatch writes one match and all its facts, returning the new match id.
// On error nothing of this record remains in the batch.
func (b *Batch) InsertMatch(rec *model.MatchRecord) (int64, error) {
	if _, err := b.tx.Exec("SAVEPOINT record"); err != nil {
		return 0, fmt.Errorf("savepoint: %w", err)
	}
	id, err := b.insertRecord(rec)
	if err != nil {
		if _, rbErr := b.tx.Exec("ROLLBACK TO record"); rbErr != nil {
			return 0, fmt.Errorf("%v (rollback to savepoint: %w)", err, rbErr)
		}
		b.tx.Exec("RELEASE record")
		return 0, err
	}
	if _, err := b.tx.Exec("RELEASE record"); err != nil {
		return 0, fmt.Errorf("release savepoint: %w", err)
	}
	b.n++
	return id, nil
}

func (b *Batch) insertRecord(rec *model.MatchRecord) (int64, error) {
	m := rec.Match
	res, err := b.match.Exec(
		m.Season, m.MatchNumber, m.Date, m.Venue, m.City, m.Team1, m.Team2,
		m.TossWinner, m.TossDecision, nullString(m.Winner), string(m.ResultType), m.ResultMargin,
		nullString(m.PlayerOfMatch), string(m.MatchType),
	)
	if err != nil {
		return 0, fmt.Errorf("insert match %s v %s on %s: %w", m.Team1, m.Team2, m.Date, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("match id: %w", err)
	}

	for _, f := range rec.Batting {
		_, err = b.batting.Exec(
			id, f.Player, f.Team, f.Innings, f.Runs, f.Balls,
			f.Fours, f.Sixes, f.StrikeRate, f.Position, nullString(f.DismissalKind), boolInt(f.NotOut),
		)
		if err != nil {
			return 0, fmt.Errorf("insert batting_stats for %s: %w", f.Player, err)
		}
	}
	for _, f := range rec.Bowling {
		_, err = b.bowling.Exec(
			id, f.Player, f.Team, f.Innings, f.Balls, f.Overs,
			f.RunsConceded, f.Wickets, f.Economy, f.Dots,
		)
		if err != nil {
			return 0, fmt.Errorf("insert bowling_stats for %s: %w", f.Player, err)
		}
	}
	return id, nil
}

// Commit commits the batch and releases its statements.
func (b *Batch) Commit() error {
	b.closeStmts()
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Rollback discards the batch. Safe to call after Commit or on a nil batch.
func (b *Batch) Rollback() error {
	if b == nil {
		return nil
	}
	b.closeStmts()
	err := b.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (b *Batch) closeStmts() {
	for _, s := range []*sql.Stmt{b.match, b.batting, b.bowling} {
		if s != nil {
			s.Close()
		}
	}
}

// ---- Run bookkeeping ----

// runTimeLayout keeps fixed-width timestamps so they sort as text.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z"

// IngestRun is the persisted summary of one ingestion run.
type IngestRun struct {
	RunID      string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Skipped    int
	Duplicates int
	Failed     int
}

// RecordRun stores a run summary.
func (db *DB) RecordRun(r IngestRun) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO ingest_runs(run_id, source, started_at, finished_at, processed, skipped, duplicates, failed)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.RunID, r.Source, r.StartedAt.UTC().Format(runTimeLayout), r.FinishedAt.UTC().Format(runTimeLayout),
		r.Processed, r.Skipped, r.Duplicates, r.Failed,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent ingestion runs, newest first.
func (db *DB) ListRuns(limit int) ([]IngestRun, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, source, started_at, finished_at, processed, skipped, duplicates, failed
		FROM ingest_runs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IngestRun
	for rows.Next() {
		var r IngestRun
		var started, finished string
		if err := rows.Scan(&r.RunID, &r.Source, &started, &finished,
			&r.Processed, &r.Skipped, &r.Duplicates, &r.Failed); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(runTimeLayout, started)
		r.FinishedAt, _ = time.Parse(runTimeLayout, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Generation identifies the committed state of the fact store. It changes
// whenever a match is added or removed or an ingestion run finishes.
func (db *DB) Generation() (string, error) {
	var count, maxID int64
	var runID string
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(MAX(match_id), 0),
		       COALESCE((SELECT run_id FROM ingest_runs ORDER BY finished_at DESC LIMIT 1), '')
		FROM matches`).Scan(&count, &maxID, &runID)
	if err != nil {
		return "", fmt.Errorf("store generation: %w", err)
	}
	return fmt.Sprintf("%d.%d.%s", count, maxID, runID), nil
}

// DeleteMatch removes a match. Its facts go with it.
func (db *DB) DeleteMatch(id int64) error {
	res, err := db.conn.Exec("DELETE FROM matches WHERE match_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
