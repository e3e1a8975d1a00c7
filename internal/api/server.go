// Package api serves read-only advisor queries as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-advisor/internal/advisor"
	"github.com/rxtech-lab/argo-advisor/internal/logger"
	"github.com/rxtech-lab/argo-advisor/internal/metrics"
	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Server exposes one advisor session over HTTP.
type Server struct {
	router  *mux.Router
	server  *http.Server
	session *advisor.Session
	metrics *metrics.Registry
	logger  *logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics records queries and serves them on /metrics.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a server bound to addr. It does not start listening.
func NewServer(addr string, session *advisor.Session, opts ...Option) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		session: session,
		logger:  logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/").Subrouter()
	api.Use(jsonContentTypeMiddleware)

	api.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	api.HandleFunc("/products", s.products).Methods(http.MethodGet)
	api.HandleFunc("/time", s.currentTime).Methods(http.MethodGet)
	api.HandleFunc("/time/step", s.step).Methods(http.MethodPost)
	api.HandleFunc("/orders", s.orders).Methods(http.MethodGet)
	api.HandleFunc("/extreme/{kind}", s.extreme).Methods(http.MethodGet)
	api.HandleFunc("/average", s.average).Methods(http.MethodGet)
	api.HandleFunc("/forecast/{kind}", s.forecast).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(notFound)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutting down HTTP server")

		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		requestID, _ := r.Context().Value(requestIDKey).(string)

		s.logger.Debug("Request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
