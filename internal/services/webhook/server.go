// Package webhook receives notifier deliveries and fans them out to the
// wallets they concern.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/stellarwallet/relay/internal/normalizer"
	"github.com/stellarwallet/relay/internal/obs"
)

const DefaultMaxBodyBytes int64 = 1 << 20

// Verifier authenticates a delivery over its exact body bytes.
type Verifier interface {
	Verify(h http.Header, body []byte) bool
}

// Pinger backs /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	verifier  Verifier
	processor *Processor
	health    Pinger
	log       *zap.Logger
	maxBody   int64
}

func NewServer(v Verifier, p *Processor, health Pinger, log *zap.Logger, maxBody int64) *Server {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		verifier:  v,
		processor: p,
		health:    health,
		log:       log.With(zap.String("component", "webhook.server")),
		maxBody:   maxBody,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Post("/webhook", s.handleWebhook)
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := obs.WithTrace(r.Context(), s.log).With(zap.String("request_id", middleware.GetReqID(r.Context())))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.reject(w, log, "too_large", http.StatusBadRequest, "payload too large")
			return
		}
		s.reject(w, log, "read_error", http.StatusBadRequest, "cannot read body")
		return
	}
	if len(body) == 0 {
		s.reject(w, log, "empty", http.StatusBadRequest, "empty body")
		return
	}
	if !s.verifier.Verify(r.Header, body) {
		s.reject(w, log, "forbidden", http.StatusForbidden, "invalid signature")
		return
	}
	payload, err := normalizer.Decode(body)
	if err != nil {
		log.Warn("malformed webhook json", zap.Error(err))
		s.reject(w, log, "bad_json", http.StatusBadRequest, "invalid json")
		return
	}

	outcome, err := s.process(r.Context(), payload)
	if err != nil {
		log.Error("webhook processing failed", zap.Error(err))
		mWebhooks.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	mWebhooks.WithLabelValues(string(outcome)).Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (s *Server) process(ctx context.Context, payload normalizer.Payload) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.processor.Process(ctx, payload)
}

func (s *Server) reject(w http.ResponseWriter, log *zap.Logger, outcome string, code int, msg string) {
	mWebhooks.WithLabelValues(outcome).Inc()
	log.Debug("webhook rejected", zap.String("outcome", outcome), zap.Int("status", code))
	http.Error(w, msg, code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			http.Error(w, "unhealthy: db", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
