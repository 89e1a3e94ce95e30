// Package api serves lesson sessions over HTTP. Each session is an
// independent gateway kept in memory.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/tutorloop/internal/gateway"
	"github.com/abhisek/tutorloop/internal/metrics"
	"github.com/abhisek/tutorloop/internal/phase"
)

// GatewayFactory creates the gateway for a new session.
type GatewayFactory func(sessionID string, cfg gateway.Config) (*gateway.Gateway, error)

// Server holds the HTTP handlers.
type Server struct {
	lesson   gateway.Config
	sessions *Registry
	factory  GatewayFactory
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewServer creates a Server. lesson is the default for sessions that
// don't override it. m may be nil.
func NewServer(lesson gateway.Config, sessions *Registry, factory GatewayFactory, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{lesson: lesson, sessions: sessions, factory: factory, metrics: m, logger: logger}
}

// Router returns the chi router with all routes registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/begin", s.turn(func(ctx context.Context, g *gateway.Gateway, _ *http.Request) (*gateway.TurnResult, error) {
				return g.Begin(ctx)
			}))
			r.Post("/continue", s.turn(func(ctx context.Context, g *gateway.Gateway, _ *http.Request) (*gateway.TurnResult, error) {
				return g.Continue(ctx)
			}))
			r.Post("/select", s.turn(func(ctx context.Context, g *gateway.Gateway, req *http.Request) (*gateway.TurnResult, error) {
				var body struct {
					OptionID string `json:"option_id"`
				}
				if err := decode(req, &body); err != nil || body.OptionID == "" {
					return nil, errBadRequest("option_id is required")
				}
				return g.SelectOption(ctx, body.OptionID)
			}))
			r.Post("/command", s.turn(func(ctx context.Context, g *gateway.Gateway, req *http.Request) (*gateway.TurnResult, error) {
				var body struct {
					Text string `json:"text"`
				}
				if err := decode(req, &body); err != nil {
					return nil, errBadRequest("invalid JSON body")
				}
				return g.SubmitCommand(ctx, body.Text)
			}))
			r.Post("/exit", s.turn(func(ctx context.Context, g *gateway.Gateway, _ *http.Request) (*gateway.TurnResult, error) {
				return g.Exit(ctx)
			}))
			r.Post("/restart", s.turn(func(ctx context.Context, g *gateway.Gateway, _ *http.Request) (*gateway.TurnResult, error) {
				return g.Restart(ctx)
			}))
		})
	})

	return r
}

// turnResponse wraps a turn with its session id.
type turnResponse struct {
	SessionID string              `json:"session_id"`
	Turn      *gateway.TurnResult `json:"turn"`
}

// createRequest optionally overrides the lesson of a new session.
type createRequest struct {
	Topic          string `json:"topic"`
	Audience       string `json:"audience"`
	TotalQuestions int    `json:"total_questions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, s.sessions.Snapshots())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	cfg := s.lesson
	if body.Topic != "" {
		cfg.Topic = body.Topic
	}
	if body.Audience != "" {
		cfg.Audience = body.Audience
	}
	if body.TotalQuestions != 0 {
		cfg.Lesson = phase.Config{TotalQuestions: body.TotalQuestions}
	}
	if err := cfg.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	g, err := s.factory(id, cfg)
	if err != nil {
		s.logger.Error("failed to create session", zap.Error(err))
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.sessions.Add(g); err != nil {
		Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.SessionsCreated.Inc()
		s.metrics.SessionsActive.Set(float64(s.sessions.Len()))
	}

	// The session exists even if the first screen fails; the client can
	// retry with POST /sessions/{id}/begin.
	res, err := g.Begin(r.Context())
	if err != nil {
		turnError(w, id, err)
		return
	}
	JSON(w, http.StatusCreated, turnResponse{SessionID: id, Turn: res})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	g, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, g.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Remove(chi.URLParam(r, "id")) {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	if s.metrics != nil {
		s.metrics.SessionsActive.Set(float64(s.sessions.Len()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// badRequestError is a request the handler rejected before reaching the
// gateway.
type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func errBadRequest(msg string) error { return badRequestError(msg) }

// turn adapts a gateway event to a handler.
func (s *Server) turn(fn func(ctx context.Context, g *gateway.Gateway, r *http.Request) (*gateway.TurnResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		g, ok := s.sessions.Get(id)
		if !ok {
			Error(w, http.StatusNotFound, "session not found")
			return
		}

		res, err := fn(r.Context(), g, r)
		if err != nil {
			var bad badRequestError
			if errors.As(err, &bad) {
				Error(w, http.StatusBadRequest, bad.Error())
				return
			}
			turnError(w, id, err)
			return
		}
		JSON(w, http.StatusOK, turnResponse{SessionID: id, Turn: res})
	}
}

// decode reads a JSON body of at most 64KB.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
		})
	}
}
