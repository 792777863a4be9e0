// Package ingest turns upstream match records into stored matches and facts.
// Records pass four validation gates in order; anything that fails a gate or
// cannot be decoded is counted and skipped without stopping the run.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pable/cricmetrics/internal/aggregator"
	"github.com/pable/cricmetrics/internal/cricsheet"
	"github.com/pable/cricmetrics/internal/model"
	"github.com/pable/cricmetrics/internal/storage"
)

// Reason is why a record was skipped.
type Reason string

const (
	ReasonCompetition  Reason = "non-target-competition"
	ReasonMissingTeams Reason = "missing-teams"
	ReasonSeason       Reason = "out-of-range-season"
	ReasonDuplicate    Reason = "duplicate-fixture"
	ReasonMalformed    Reason = "malformed"
)

// DefaultBatchSize is the number of inserted matches per commit.
const DefaultBatchSize = 50

// Config selects which records are kept.
type Config struct {
	Competition string // matched exactly or as a substring of the event name; empty keeps all
	SeasonFrom  int    // inclusive; 0 = unbounded
	SeasonTo    int    // inclusive; 0 = unbounded
	BatchSize   int    // matches per commit; <= 0 uses DefaultBatchSize
	MaxMatches  int    // entries examined, newest first; <= 0 = all
}

// Summary counts the outcome of every record examined by a run.
type Summary struct {
	RunID      string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Skipped    map[Reason]int
	Failed     int // records that passed every gate but could not be stored
}

// Duplicates returns the number of records skipped as already-seen fixtures.
func (s *Summary) Duplicates() int { return s.Skipped[ReasonDuplicate] }

// SkippedTotal counts every skip except duplicates.
func (s *Summary) SkippedTotal() int {
	n := 0
	for r, c := range s.Skipped {
		if r != ReasonDuplicate {
			n += c
		}
	}
	return n
}

// Reasons returns the skip reasons present, sorted.
func (s *Summary) Reasons() []Reason {
	out := make([]Reason, 0, len(s.Skipped))
	for r := range s.Skipped {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Run converts the summary into its persisted form.
func (s *Summary) Run() storage.IngestRun {
	return storage.IngestRun{
		RunID:      s.RunID,
		Source:     s.Source,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Processed:  s.Processed,
		Skipped:    s.SkippedTotal(),
		Duplicates: s.Duplicates(),
		Failed:     s.Failed,
	}
}

// Pipeline ingests sources into one fact store.
type Pipeline struct {
	db  *storage.DB
	cfg Config
	log logrus.FieldLogger
}

// New returns a pipeline writing to db.
func New(db *storage.DB, cfg Config, log logrus.FieldLogger) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Pipeline{db: db, cfg: cfg, log: log}
}

// outcome is what happened to one record.
type outcome struct {
	reason  Reason
	matchID int64
	err     error // set with reason for skips, alone for store failures
}

// Run ingests every entry of src. Validation skips and per-record failures
// are counted in the summary. A returned error means a batch could not be
// committed or ctx was cancelled; matches committed before that point stay.
func (p *Pipeline) Run(ctx context.Context, src *cricsheet.Source, source string) (*Summary, error) {
	sum := &Summary{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: time.Now(),
		Skipped:   make(map[Reason]int),
	}
	log := p.log.WithField("run_id", sum.RunID)
	src.Limit(p.cfg.MaxMatches)
	log.WithField("entries", len(src.Entries)).Info("ingest started")

	batch, err := p.db.BeginBatch()
	if err != nil {
		return nil, err
	}
	defer func() { batch.Rollback() }()

	seen := make(map[model.Fingerprint]struct{})
	var runErr error
	for _, e := range src.Entries {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		out := p.process(batch, e, seen)
		entry := log.WithField("file", e.Name)
		switch {
		case out.reason == ReasonMalformed:
			sum.Skipped[out.reason]++
			entry.WithError(out.err).WithField("reason", out.reason).Warn("skipped record")
		case out.reason != "":
			sum.Skipped[out.reason]++
			entry.WithField("reason", out.reason).Debug("skipped record")
		case out.err != nil:
			sum.Failed++
			entry.WithError(out.err).Warn("store record")
		default:
			sum.Processed++
			entry.WithField("match_id", out.matchID).Debug("stored match")
		}

		if batch.Len() >= p.cfg.BatchSize {
			if err := batch.Commit(); err != nil {
				return sum, err
			}
			log.WithField("processed", sum.Processed).Info("batch committed")
			if batch, err = p.db.BeginBatch(); err != nil {
				return sum, err
			}
		}
	}

	if err := batch.Commit(); err != nil {
		return sum, err
	}
	sum.FinishedAt = time.Now()
	if err := p.db.RecordRun(sum.Run()); err != nil {
		log.WithError(err).Warn("record run summary")
	}
	log.WithFields(logrus.Fields{
		"processed":  sum.Processed,
		"skipped":    sum.SkippedTotal(),
		"duplicates": sum.Duplicates(),
		"failed":     sum.Failed,
	}).Info("ingest finished")
	return sum, runErr
}

// process runs one record through the gates and, if it passes, stores it.
// A panic while handling the record is reported as malformed.
func (p *Pipeline) process(batch *storage.Batch, e cricsheet.Entry, seen map[model.Fingerprint]struct{}) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{reason: ReasonMalformed, err: fmt.Errorf("panic: %v", r)}
		}
	}()

	raw, err := decodeEntry(e)
	if err != nil {
		return outcome{reason: ReasonMalformed, err: err}
	}

	rec, reason, err := p.validate(raw)
	if reason != "" || err != nil {
		return outcome{reason: reason, err: err}
	}

	fp := rec.Match.Fingerprint()
	if _, dup := seen[fp]; dup {
		return outcome{reason: ReasonDuplicate}
	}
	exists, err := batch.FixtureExists(fp)
	if err != nil {
		return outcome{err: err}
	}
	if exists {
		seen[fp] = struct{}{}
		return outcome{reason: ReasonDuplicate}
	}

	id, err := batch.InsertMatch(rec)
	if err != nil {
		return outcome{err: err}
	}
	seen[fp] = struct{}{}
	return outcome{matchID: id}
}

// validate applies the competition, season and team gates, then builds the
// record to store.
func (p *Pipeline) validate(raw *model.RawRecord) (*model.MatchRecord, Reason, error) {
	if !competitionMatches(raw.Info.Event.Name, p.cfg.Competition) {
		return nil, ReasonCompetition, nil
	}

	season, err := raw.Info.Season.Year()
	if err != nil {
		return nil, ReasonMalformed, err
	}
	if (p.cfg.SeasonFrom > 0 && season < p.cfg.SeasonFrom) || (p.cfg.SeasonTo > 0 && season > p.cfg.SeasonTo) {
		return nil, ReasonSeason, nil
	}

	teams := raw.Info.Teams
	if len(teams) != 2 || teams[0] == "" || teams[1] == "" || teams[0] == teams[1] {
		return nil, ReasonMissingTeams, nil
	}

	rec, err := aggregator.Aggregate(buildMatch(raw, season), raw)
	if err != nil {
		return nil, ReasonMalformed, err
	}
	return rec, "", nil
}

func decodeEntry(e cricsheet.Entry) (*model.RawRecord, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", cricsheet.ErrMalformed, err)
	}
	defer rc.Close()
	return cricsheet.Decode(rc)
}
