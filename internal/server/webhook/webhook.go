// Package webhook receives oracle callbacks over HTTP and serves the
// health and metrics endpoints.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/logging"
	"github.com/dmitrijs2005/gophreveal/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ProofHeader carries the proof when the request body is the raw payload.
const ProofHeader = "X-Oracle-Proof"

const maxBodyBytes = 1 << 20

// Callbacks is the completion side of services.RevealService.
type Callbacks interface {
	OnRecordDecrypted(ctx context.Context, cid string, payload, proof []byte) error
	OnTopicCountDecrypted(ctx context.Context, cid string, payload, proof []byte) error
}

// Envelope is the JSON callback body. Payload is base64 in JSON so the
// bytes covered by the proof digest survive unchanged.
type Envelope struct {
	Payload []byte `json:"payload"`
	Proof   string `json:"proof"`
}

type Server struct {
	address   string
	callbacks Callbacks
	metrics   *metrics.Metrics
	logger    logging.Logger
}

// NewServer builds the webhook server; m may be nil.
func NewServer(address string, l logging.Logger, cb Callbacks, m *metrics.Metrics) *Server {
	return &Server{
		address:   address,
		callbacks: cb,
		metrics:   m,
		logger:    l.With("module", "webhook"),
	}
}

// RegisterRoutes registers the callback, health and metrics routes.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Route("/callbacks", func(r chi.Router) {
		r.Post("/records/{cid}", s.handleCallback(common.CallbackRecord, s.callbacks.OnRecordDecrypted))
		r.Post("/topics/{cid}", s.handleCallback(common.CallbackTopicCount, s.callbacks.OnTopicCountDecrypted))
	})
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterRoutes(r)
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping webhook server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting webhook server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

type completeFunc func(ctx context.Context, cid string, payload, proof []byte) error

func (s *Server) handleCallback(name string, complete completeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cid := chi.URLParam(r, "cid")

		env, err := readEnvelope(w, r)
		if err != nil {
			s.respond(w, r, name, cid, http.StatusBadRequest, err)
			return
		}

		err = complete(r.Context(), cid, env.Payload, []byte(env.Proof))
		s.respond(w, r, name, cid, statusFor(err), err)
	}
}

// readEnvelope accepts either a JSON Envelope or a raw payload with the
// proof in ProofHeader.
func readEnvelope(w http.ResponseWriter, r *http.Request) (*Envelope, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if proof := r.Header.Get(ProofHeader); proof != "" {
		return &Envelope{Payload: body, Proof: proof}, nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Proof == "" {
		return nil, errors.New("proof is required")
	}
	return &env, nil
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, name, cid string, code int, err error) {
	if s.metrics != nil {
		s.metrics.ObserveCallback(name, code)
	}

	ctx := r.Context()
	switch {
	case err == nil:
		s.logger.Info(ctx, "callback applied", "callback", name, "correlation_id", cid)
		w.WriteHeader(http.StatusNoContent)
		return
	case code == http.StatusInternalServerError:
		s.logger.Error(ctx, "callback failed", "callback", name, "correlation_id", cid, "error", err)
		writeError(w, code, "internal error")
		return
	default:
		s.logger.Warn(ctx, "callback rejected", "callback", name, "correlation_id", cid, "status", code, "error", err)
		writeError(w, code, err.Error())
	}
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusNoContent
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, common.ErrVerificationFailed):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorMalformedPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
