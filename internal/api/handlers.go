package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pable/cricmetrics/internal/metrics"
	"github.com/pable/cricmetrics/internal/model"
	"github.com/pable/cricmetrics/internal/profile"
	"github.com/pable/cricmetrics/internal/storage"
	"github.com/pable/cricmetrics/internal/team"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	n, err := s.db.CountMatches()
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"matches":   n,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) listSeasons(w http.ResponseWriter, r *http.Request) {
	serveCached(s, w, r, []string{"seasons"}, s.db.ListSeasons)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer", nil)
		return
	}
	runs, err := s.db.ListRuns(limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list runs", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// ---- Matches ----

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	season, ok := parseIntParam(r, "season", 0)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "season must be a year", nil)
		return
	}
	limit, ok := limitParam(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer", nil)
		return
	}
	key := []string{"matches", strconv.Itoa(season), strconv.Itoa(limit)}
	serveCached(s, w, r, key, func() ([]model.MatchSummary, error) {
		return s.db.ListMatches(season, limit)
	})
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "match id must be an integer", nil)
		return
	}
	serveCached(s, w, r, []string{"match", strconv.FormatInt(id, 10)}, func() (*model.MatchRecord, error) {
		rec, err := s.db.GetMatchRecord(id)
		if err == nil && rec == nil {
			return nil, storage.ErrNotFound
		}
		return rec, err
	})
}

// ---- Players ----

func (s *Server) searchPlayers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "q is required", nil)
		return
	}
	limit, ok := limitParam(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer", nil)
		return
	}
	serveCached(s, w, r, []string{"search", strings.ToLower(q), strconv.Itoa(limit)}, func() ([]string, error) {
		return s.db.SearchPlayers(q, limit)
	})
}

func (s *Server) getPlayerStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	season, ok := parseIntParam(r, "season", 0)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "season must be a year", nil)
		return
	}
	serveCached(s, w, r, []string{"player", name, strconv.Itoa(season)}, func() (model.PlayerStats, error) {
		ps, err := s.db.PlayerStats(name, season)
		if err == nil && ps.Batting.Innings == 0 && ps.Bowling.Balls == 0 {
			return ps, storage.ErrNotFound
		}
		return ps, err
	})
}

func (s *Server) getPlayerProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	serveCached(s, w, r, []string{"profile", name}, func() (profile.Player, error) {
		return s.profiles.Build(name)
	})
}

func (s *Server) getMatchup(w http.ResponseWriter, r *http.Request) {
	batter := r.URL.Query().Get("batter")
	bowler := r.URL.Query().Get("bowler")
	if batter == "" || bowler == "" {
		s.respondError(w, http.StatusBadRequest, "batter and bowler are required", nil)
		return
	}
	serveCached(s, w, r, []string{"matchup", batter, bowler}, func() (metrics.MatchupResult, error) {
		return s.engine.Matchup(batter, bowler)
	})
}

// ---- Teams ----

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	serveCached(s, w, r, []string{"teams"}, s.db.ListTeams)
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	season, ok := parseIntParam(r, "season", 0)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "season must be a year", nil)
		return
	}
	serveCached(s, w, r, []string{"team", name, strconv.Itoa(season)}, func() (team.Profile, error) {
		p, err := s.teams.Profile(name, season)
		if err == nil && p.Matches == 0 {
			return p, storage.ErrNotFound
		}
		return p, err
	})
}

func (s *Server) getTeamVenues(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	serveCached(s, w, r, []string{"venues", name}, func() ([]model.VenueRecord, error) {
		return s.teams.Venues(name)
	})
}

func (s *Server) getTeamToss(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	serveCached(s, w, r, []string{"toss", name}, func() (team.Toss, error) {
		return s.teams.TossImpact(name)
	})
}

func (s *Server) getTeamSeasons(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	serveCached(s, w, r, []string{"team-seasons", name}, func() ([]model.SeasonRecord, error) {
		return s.teams.SeasonRecord(name)
	})
}

func (s *Server) getHeadToHead(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" || a == b {
		s.respondError(w, http.StatusBadRequest, "two different teams a and b are required", nil)
		return
	}
	serveCached(s, w, r, []string{"h2h", a, b}, func() (team.HeadToHead, error) {
		return s.teams.HeadToHead(a, b)
	})
}

// ---- Leaderboards and breakdowns ----

func (s *Server) getLeaders(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")
	season, ok := parseIntParam(r, "season", 0)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "season must be a year", nil)
		return
	}
	limit, ok := limitParam(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer", nil)
		return
	}
	key := []string{"leaders", board, strconv.Itoa(season), strconv.Itoa(limit)}

	switch board {
	case "runs":
		serveCached(s, w, r, key, func() ([]model.ScorerRow, error) { return s.db.TopRunScorers(season, limit) })
	case "wickets":
		serveCached(s, w, r, key, func() ([]model.WicketRow, error) { return s.db.TopWicketTakers(season, limit) })
	case "scores":
		serveCached(s, w, r, key, func() ([]model.HighScore, error) { return s.db.HighestScores(season, limit) })
	case "value":
		serveCached(s, w, r, key, func() ([]model.ValueRow, error) { return s.db.ValueLeaders(season, limit) })
	default:
		s.respondError(w, http.StatusNotFound, "unknown leaderboard "+board, nil)
	}
}

func (s *Server) getBreakdown(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	season, ok := parseIntParam(r, "season", 0)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "season must be a year", nil)
		return
	}
	limit, ok := limitParam(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer", nil)
		return
	}
	key := []string{"breakdown", kind, strconv.Itoa(season), strconv.Itoa(limit)}

	var load func() ([]model.CountRow, error)
	switch kind {
	case "season-matches":
		load = s.db.MatchesBySeason
	case "team-wins":
		load = func() ([]model.CountRow, error) { return s.db.TeamWins(season, limit) }
	case "venues":
		load = func() ([]model.CountRow, error) { return s.db.PopularVenues(season, limit) }
	case "player-of-match":
		load = func() ([]model.CountRow, error) { return s.db.PlayerOfMatchCounts(season, limit) }
	case "results":
		load = func() ([]model.CountRow, error) { return s.db.ResultDistribution(season) }
	case "season-runs":
		serveCached(s, w, r, key, s.db.RunsPerSeason)
		return
	default:
		s.respondError(w, http.StatusNotFound, "unknown breakdown "+kind, nil)
		return
	}
	serveCached(s, w, r, key, load)
}
