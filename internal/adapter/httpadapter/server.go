package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/profile-header-etl/internal/domain"
)

// maxUploadBytes bounds one file posted to /v1/headers.
const maxUploadBytes = 10 << 20

// HeaderParser interprets one field file. pipeline.ProfileTransformer implements it.
type HeaderParser interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.NormalizedProfileHeader, error)
}

// Server exposes health, readiness, metrics, and on-demand header parsing.
type Server struct {
	httpServer *http.Server
	parser     HeaderParser
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /v1/headers routes. A nil parser leaves /v1/headers unregistered.
func NewServer(addr string, ready sharedobs.ReadinessChecker, gatherer prometheus.Gatherer, parser HeaderParser, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		parser: parser,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if parser != nil {
		mux.HandleFunc("POST /v1/headers", s.handleParse)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type parseError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// handleParse parses the posted file body. Query parameters mirror the
// source topic message headers: filename, timezone, epsg, header_sep,
// northern_hemisphere, and extra.<key> overrides.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, parseError{Error: err.Error(), Kind: "size"})
			return
		}
		writeJSON(w, http.StatusBadRequest, parseError{Error: err.Error(), Kind: "read"})
		return
	}

	headers := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	h, err := s.parser.Transform(r.Context(), domain.RawEvent{Value: body, Headers: headers, Timestamp: time.Now()})
	if err != nil {
		kind := domain.ErrorKind(err)
		status := http.StatusUnprocessableEntity
		if kind == "other" {
			status = http.StatusInternalServerError
		}
		s.logger.Info("header rejected", "filename", headers[domain.HeaderFilename], "kind", kind, "error", err)
		writeJSON(w, status, parseError{Error: err.Error(), Kind: kind})
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
