// Package http exposes the generation pipeline over HTTP. Handlers decode
// the wire contracts, delegate to the generator and interpreter, and render
// typed JSON results; no orchestration logic lives here.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"partforge/pkg/builder"
	"partforge/pkg/generator"
	"partforge/pkg/intent"
	"partforge/pkg/interp"
	"partforge/pkg/observability"
)

// maxBodyBytes bounds request bodies; part intents are small.
const maxBodyBytes = 1 << 20

// Server wires the HTTP surface.
type Server struct {
	gen         *generator.Generator
	interpreter interp.Interpreter // may be nil
	registry    *builder.Registry
	outputDir   string
	log         *zap.Logger
	mux         *http.ServeMux
}

// NewServer builds the HTTP surface. interpreter may be nil, in which case
// the interpret endpoint reports a missing capability.
func NewServer(gen *generator.Generator, interpreter interp.Interpreter, registry *builder.Registry, outputDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		gen:         gen,
		interpreter: interpreter,
		registry:    registry,
		outputDir:   outputDir,
		log:         log,
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/v1/parts", s.handleGenerate)
	s.mux.HandleFunc("POST /api/v1/interpret", s.handleInterpret)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", observability.Handler())
	return s
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// generateRequest is the JSON body for generation: a part intent plus the
// optional engine selector.
type generateRequest struct {
	intent.Part
	Engine string `json:"engine,omitempty"`
}

// generateResponse is the success form of the output contract.
type generateResponse struct {
	Status   string   `json:"status"`
	FilePath string   `json:"file_path"`
	Warnings []string `json:"warnings,omitempty"`
}

// handleGenerate validates and builds a part from a structured request.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}

	path, err := s.gen.Generate(r.Context(), req.Part, req.Engine)
	if err != nil {
		writeGenerationError(w, generator.AsError(err))
		return
	}

	var warnings []string
	for _, warning := range s.gen.Warnings(req.Part) {
		warnings = append(warnings, warning.Message)
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Status:   "success",
		FilePath: path,
		Warnings: warnings,
	})
}

// interpretRequest carries the free-text part description.
type interpretRequest struct {
	Text string `json:"text"`
}

// interpretResponse returns the structured intent extracted from text.
type interpretResponse struct {
	Status string       `json:"status"`
	Intent *intent.Part `json:"intent"`
}

// handleInterpret forwards text to the wired interpreter.
func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	if s.interpreter == nil {
		writeError(w, http.StatusServiceUnavailable,
			string(generator.MissingCapability), interp.ErrNotConfigured.Error(), nil)
		return
	}

	var req interpretRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest,
			string(generator.ValidationFailed), "text must not be empty", nil)
		return
	}

	part, err := s.interpreter.Interpret(r.Context(), req.Text)
	if err != nil {
		s.log.Error("interpretation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError,
			string(generator.InternalFault), "interpretation failed", nil)
		return
	}
	writeJSON(w, http.StatusOK, interpretResponse{Status: "success", Intent: &part})
}

// healthResponse reports service status and the configured engines.
type healthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	OutputDir string            `json:"output_dir"`
	Engines   map[string]string `json:"engines"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	engines := make(map[string]string)
	for _, key := range s.registry.Keys() {
		if s.registry.Available(key) {
			engines[key] = "available"
		} else {
			engines[key] = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Service:   "partforge",
		OutputDir: s.outputDir,
		Engines:   engines,
	})
}

// decode reads a bounded JSON body into dst, writing the error response
// itself when decoding fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest,
			string(generator.ValidationFailed), fmt.Sprintf("invalid request body: %v", err), nil)
		return false
	}
	return true
}

// logRequests wraps next with structured request logging.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
