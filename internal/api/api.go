// Package api serves the read-only query surface as JSON over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/pable/cricmetrics/internal/cache"
	"github.com/pable/cricmetrics/internal/classifier"
	"github.com/pable/cricmetrics/internal/metrics"
	"github.com/pable/cricmetrics/internal/profile"
	"github.com/pable/cricmetrics/internal/storage"
	"github.com/pable/cricmetrics/internal/team"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Options configures a Server.
type Options struct {
	Styles      classifier.StyleLookup
	Cache       cache.Cache // nil disables caching
	CORSOrigins []string
	Log         logrus.FieldLogger
}

// Server holds the handlers' dependencies.
type Server struct {
	db       *storage.DB
	engine   *metrics.Engine
	teams    *team.Analyzer
	profiles *profile.Builder
	cache    cache.Cache
	cors     []string
	log      logrus.FieldLogger
}

// New returns a server reading from db.
func New(db *storage.DB, opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		opts.Log = l
	}
	engine := metrics.New(db)
	return &Server{
		db:       db,
		engine:   engine,
		teams:    team.New(db),
		profiles: profile.NewBuilder(engine, classifier.New(db, opts.Styles)),
		cache:    opts.Cache,
		cors:     opts.CORSOrigins,
		log:      opts.Log,
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cors,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/seasons", s.listSeasons)
		r.Get("/runs", s.listRuns)

		r.Get("/matches", s.listMatches)
		r.Get("/matches/{id}", s.getMatch)

		r.Get("/players", s.searchPlayers)
		r.Get("/players/{name}", s.getPlayerStats)
		r.Get("/players/{name}/profile", s.getPlayerProfile)
		r.Get("/matchup", s.getMatchup)

		r.Get("/teams", s.listTeams)
		r.Get("/teams/{name}", s.getTeam)
		r.Get("/teams/{name}/venues", s.getTeamVenues)
		r.Get("/teams/{name}/toss", s.getTeamToss)
		r.Get("/teams/{name}/seasons", s.getTeamSeasons)
		r.Get("/head-to-head", s.getHeadToHead)

		r.Get("/leaders/{board}", s.getLeaders)
		r.Get("/breakdowns/{kind}", s.getBreakdown)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": chimiddleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		s.log.WithError(err).WithField("status", status).Error(message)
	}
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// parseIntParam reads an integer query parameter. A missing value yields def;
// a malformed one is reported as false.
func parseIntParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func limitParam(r *http.Request) (int, bool) {
	n, ok := parseIntParam(r, "limit", defaultLimit)
	if !ok {
		return 0, false
	}
	if n == 0 || n > maxLimit {
		n = maxLimit
	}
	return n, true
}

// serveCached answers with load's result, memoized under the current store
// generation. storage.ErrNotFound from load becomes a 404.
func serveCached[T any](s *Server, w http.ResponseWriter, r *http.Request, parts []string, load func() (T, error)) {
	gen, err := s.db.Generation()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "store unavailable", err)
		return
	}
	v, err := cache.Fetch(r.Context(), s.cache, s.log, cache.Key(gen, parts...), load)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not found", nil)
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "query failed", err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}
