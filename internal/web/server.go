package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/phonecat/internal/config"
	"github.com/vbonduro/phonecat/internal/service"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	service        *service.CatalogService
	mux            *http.ServeMux
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewServer(svc *service.CatalogService, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		service:        svc,
		mux:            http.NewServeMux(),
		maxUploadBytes: cfg.MaxUploadMB << 20,
		logger:         logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /smartphones", s.handleListSmartphones)
	s.mux.HandleFunc("POST /smartphones", s.handleCreateSmartphone)
	s.mux.HandleFunc("POST /smartphones/compare", s.handleCompareSmartphones)
	s.mux.HandleFunc("GET /smartphones/{id}", s.handleGetSmartphone)
	s.mux.HandleFunc("PUT /smartphones/{id}", s.handleUpdateSmartphone)
	s.mux.HandleFunc("DELETE /smartphones/{id}", s.handleDeleteSmartphone)
	s.mux.HandleFunc("GET /smartphones/{id}/image", s.handleGetImage)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs one line per request and echoes the caller's request id,
// generating one when the caller did not send it.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves HTTP on addr until ctx is cancelled, then drains
// in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
