package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zojize/exusiai-bot"
	"github.com/zojize/exusiai-bot/internal/logging"
	"github.com/zojize/exusiai-bot/internal/presentation/graph"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/gacha"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// DefaultUser is used when a pull request names no user.
const DefaultUser = "anonymous"

// Gacha defines the operations the server exposes. *exusiai.Gacha satisfies it.
type Gacha interface {
	Banner() domain.Banner
	Banners() []domain.Banner
	SetBanner(ctx context.Context, name string) error
	Info() exusiai.Info
	PityEnabled() bool
	SetPity(enabled bool) error
	Pull(ctx context.Context, user string, n int) ([]domain.Pull, error)
	Status(ctx context.Context, user string) (gacha.Status, error)
	View(fn func(root *probtree.Node))
}

// Server holds the handlers.
type Server struct {
	Gacha    Gacha
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer exposes gatherer on /metrics. Without it the default
// Prometheus registry is served.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// PullRequest is the body of POST /pulls.
type PullRequest struct {
	User  string `json:"user"`
	Count int    `json:"count"`
}

// PullResponse is the result of POST /pulls.
type PullResponse struct {
	Banner string        `json:"banner"`
	User   string        `json:"user"`
	Pulls  []domain.Pull `json:"pulls"`
}

// BannerRequest is the body of PUT /banners/current.
type BannerRequest struct {
	Name string `json:"name"`
}

// PityRequest is the body of PUT /pity.
type PityRequest struct {
	Enabled bool `json:"enabled"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates a new HTTP handler for g.
func NewHandler(g Gacha, opts ...Option) http.Handler {
	s := &Server{
		Gacha:    g,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.Health)
	r.Get("/info", s.GetInfo)
	r.Get("/banners", s.ListBanners)
	r.Get("/banners/current", s.GetInfo)
	r.Put("/banners/current", s.SetBanner)
	r.Put("/pity", s.SetPity)
	r.Post("/pulls", s.Pull)
	r.Get("/users/{user}/pity", s.GetPity)
	r.Get("/tree", s.Tree)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": exusiai.Version,
		"banner":  s.Gacha.Banner().Name,
	})
}

// GetInfo handles GET /info and GET /banners/current.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Gacha.Info())
}

// ListBanners handles GET /banners.
func (s *Server) ListBanners(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Gacha.Banners())
}

// SetBanner handles PUT /banners/current.
func (s *Server) SetBanner(w http.ResponseWriter, r *http.Request) {
	var body BannerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("SetBanner: Invalid request body", "error", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.Gacha.SetBanner(r.Context(), body.Name); err != nil {
		s.fail(w, "SetBanner", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Gacha.Info())
}

// SetPity handles PUT /pity.
func (s *Server) SetPity(w http.ResponseWriter, r *http.Request) {
	var body PityRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("SetPity: Invalid request body", "error", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.Gacha.SetPity(body.Enabled); err != nil {
		s.fail(w, "SetPity", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"enabled": s.Gacha.PityEnabled()})
}

// Pull handles POST /pulls.
func (s *Server) Pull(w http.ResponseWriter, r *http.Request) {
	var body PullRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("Pull: Invalid request body", "error", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.User == "" {
		body.User = DefaultUser
	}
	if body.Count == 0 {
		body.Count = 1
	}

	pulls, err := s.Gacha.Pull(r.Context(), body.User, body.Count)
	if err != nil {
		s.fail(w, "Pull", err)
		return
	}
	s.writeJSON(w, http.StatusOK, PullResponse{
		Banner: s.Gacha.Banner().Name,
		User:   body.User,
		Pulls:  pulls,
	})
}

// GetPity handles GET /users/{user}/pity.
func (s *Server) GetPity(w http.ResponseWriter, r *http.Request) {
	st, err := s.Gacha.Status(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		s.fail(w, "GetPity", err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// Tree handles GET /tree, returning the banner tree as a Mermaid flowchart.
func (s *Server) Tree(w http.ResponseWriter, r *http.Request) {
	var out string
	s.Gacha.View(func(root *probtree.Node) {
		out = graph.GenerateMermaid(root, nil)
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrBannerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCount):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err)
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}
