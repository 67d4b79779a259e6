package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/driver"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/session"
)

// Error kinds reported in ErrorResponse.Kind.
const (
	KindBadRequest         = "bad_request"
	KindInvalidVariables   = "invalid_variables"
	KindMissingDestination = "missing_destination"
	KindRequestFailed      = "request_failed"
	KindConfig             = "config"
	KindInternal           = "internal"
)

// Server drives pages on behalf of clients that keep their own session record.
// Every request carries the state; nothing is kept between requests.
// Each request runs on its own driver and gate, so a client that overlaps
// requests for one session must serialize them itself.
type Server struct {
	config     ports.ConfigSource
	webhook    ports.Webhook
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	storageKey string
	metrics    http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithHooks registers lifecycle callbacks on every per-request driver.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithLogger configures the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStorageKey overrides the key the per-request session is stored under.
func WithStorageKey(key string) Option {
	return func(s *Server) {
		if key != "" {
			s.storageKey = key
		}
	}
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer creates a Server for one flow configuration.
func NewServer(config ports.ConfigSource, webhook ports.Webhook, opts ...Option) *Server {
	s := &Server{
		config:     config,
		webhook:    webhook,
		logger:     logging.NewNop(),
		storageKey: domain.DefaultStorageKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for a flow.
func NewHandler(config ports.ConfigSource, webhook ports.Webhook, opts ...Option) http.Handler {
	return NewServer(config, webhook, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/pages/{page}", func(r chi.Router) {
		r.Post("/load", s.Load)
		r.Post("/submit", s.Submit)
		r.Post("/actions", s.Action)
		r.Post("/archive", s.ListArchive)
		r.Post("/archive/select", s.SelectArchive)
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PageRequest is the part every page request shares.
type PageRequest struct {
	// State is the client's session record. Absent means a fresh session.
	State   *domain.State     `json:"state,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Landing bool              `json:"landing,omitempty"`
}

// SubmitRequest carries a form submission.
type SubmitRequest struct {
	PageRequest
	domain.Submission
}

// ActionRequest carries an action trigger.
type ActionRequest struct {
	PageRequest
	Action domain.Declaration `json:"action"`
}

// SelectRequest carries the chosen archive entry.
type SelectRequest struct {
	PageRequest
	Title domain.Title `json:"title"`
}

// Response is returned by every page endpoint on success.
type Response struct {
	State    domain.State   `json:"state"`
	Redirect string         `json:"redirect,omitempty"`
	Ready    bool           `json:"ready"`
	Dropped  bool           `json:"dropped"`
	Titles   []domain.Title `json:"titles,omitempty"`
}

// ErrorResponse is returned when a trigger fails. State is the record the client should
// keep, which may have changed (e.g. a merge persisted before navigation failed).
type ErrorResponse struct {
	Error string        `json:"error"`
	Kind  string        `json:"kind"`
	State *domain.State `json:"state,omitempty"`
}

type trigger func(ctx context.Context, d *driver.Driver, page domain.Page) (driver.Outcome, error)

// Load handles POST /pages/{page}/load.
func (s *Server) Load(w http.ResponseWriter, r *http.Request) {
	var body PageRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.run(w, r, body, func(ctx context.Context, d *driver.Driver, page domain.Page) (driver.Outcome, error) {
		return d.Load(ctx, page)
	})
}

// Submit handles POST /pages/{page}/submit.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.run(w, r, body.PageRequest, func(ctx context.Context, d *driver.Driver, page domain.Page) (driver.Outcome, error) {
		return d.Submit(ctx, page, body.Submission)
	})
}

// Action handles POST /pages/{page}/actions.
func (s *Server) Action(w http.ResponseWriter, r *http.Request) {
	var body ActionRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.run(w, r, body.PageRequest, func(ctx context.Context, d *driver.Driver, page domain.Page) (driver.Outcome, error) {
		return d.Invoke(ctx, page, body.Action)
	})
}

// ListArchive handles POST /pages/{page}/archive.
func (s *Server) ListArchive(w http.ResponseWriter, r *http.Request) {
	var body PageRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.run(w, r, body, func(ctx context.Context, d *driver.Driver, page domain.Page) (driver.Outcome, error) {
		return d.ListArchive(ctx, page)
	})
}

// SelectArchive handles POST /pages/{page}/archive/select.
func (s *Server) SelectArchive(w http.ResponseWriter, r *http.Request) {
	var body SelectRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Title.ID == "" {
		s.writeError(w, http.StatusBadRequest, KindBadRequest, errors.New("title id is required"), nil)
		return
	}
	s.run(w, r, body.PageRequest, func(ctx context.Context, d *driver.Driver, page domain.Page) (driver.Outcome, error) {
		return d.SelectArchive(ctx, page, body.Title)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("invalid request body", logging.Err(err))
		s.writeError(w, http.StatusBadRequest, KindBadRequest, errors.New("invalid request body"), nil)
		return false
	}
	return true
}

// run seeds a throwaway session from the request, runs one trigger on a fresh driver
// and answers with the resulting record.
func (s *Server) run(w http.ResponseWriter, r *http.Request, body PageRequest, fn trigger) {
	ctx := r.Context()
	page := domain.Page{
		File:    chi.URLParam(r, "page"),
		Query:   toValues(body.Query),
		Landing: body.Landing,
	}

	seed := domain.NewState()
	if body.State != nil {
		seed = body.State.Normalize()
	}
	raw, err := json.Marshal(seed)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, KindBadRequest, err, nil)
		return
	}

	store := session.New(memory.Seed(s.storageKey, raw),
		session.WithKey(s.storageKey),
		session.WithLogger(s.logger),
	)
	d := driver.New(s.config, store, s.webhook,
		driver.WithHooks(s.hooks),
		driver.WithLogger(s.logger),
	)

	out, err := fn(ctx, d, page)
	state := store.Read(ctx)
	if err != nil {
		status, kind := classify(err)
		s.logger.Warn("trigger failed", logging.Page(page.File), logging.Err(err), slog.Int("status", status))
		s.writeError(w, status, kind, err, &state)
		return
	}

	s.writeJSON(w, http.StatusOK, Response{
		State:    state,
		Redirect: out.Redirect,
		Ready:    out.Ready,
		Dropped:  out.Dropped,
		Titles:   out.Titles,
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidVariableJSON):
		return http.StatusBadRequest, KindInvalidVariables
	case errors.Is(err, domain.ErrMissingDestination):
		return http.StatusUnprocessableEntity, KindMissingDestination
	case errors.Is(err, domain.ErrRequestFailed):
		return http.StatusBadGateway, KindRequestFailed
	case errors.Is(err, domain.ErrConfigLoad), errors.Is(err, domain.ErrMissingWebhook):
		return http.StatusInternalServerError, KindConfig
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

func toValues(query map[string]string) url.Values {
	values := make(url.Values, len(query))
	for k, v := range query {
		values.Set(k, v)
	}
	return values
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind string, err error, state *domain.State) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind, State: state})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", logging.Err(err))
	}
}
