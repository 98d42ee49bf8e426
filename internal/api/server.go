// Package api exposes study sessions over JSON/HTTP for web and mobile
// clients.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// NewRouter registers every route on a gorilla/mux router.
func NewRouter(h *Handler, log *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(log))

	r.HandleFunc("/health", h.Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/topics", h.ListTopics).Methods("GET")

	api.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", h.DeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/topic", h.SelectTopic).Methods("POST")
	api.HandleFunc("/sessions/{id}/search", h.Search).Methods("POST")
	api.HandleFunc("/sessions/{id}/home", h.GoHome).Methods("POST")
	api.HandleFunc("/sessions/{id}/quiz", h.StartQuiz).Methods("POST")
	api.HandleFunc("/sessions/{id}/quiz/answer", h.Answer).Methods("POST")
	api.HandleFunc("/sessions/{id}/quiz/next", h.NextQuestion).Methods("POST")
	api.HandleFunc("/sessions/{id}/quiz/quit", h.QuitQuiz).Methods("POST")
	api.HandleFunc("/sessions/{id}/chat", h.SendChat).Methods("POST")

	return r
}

// WithCORS wraps next with the CORS policy for allowedOrigins.
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(next)
}

// Server runs the HTTP API and the idle-session janitor.
type Server struct {
	http     *http.Server
	sessions *Registry
	log      *zap.Logger
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Addr           string
	SessionTTL     time.Duration
	AllowedOrigins []string
}

// NewServer builds a server with its own session registry.
func NewServer(cfg ServerConfig, providers Providers, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	sessions := NewRegistry(cfg.SessionTTL)
	h := NewHandler(sessions, providers, log)

	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           WithCORS(NewRouter(h, log), cfg.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		},
		sessions: sessions,
		log:      log,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	janitorCtx, stop := context.WithCancel(ctx)
	defer stop()
	if ttl := s.sessions.ttl; ttl > 0 {
		go s.sessions.RunJanitor(janitorCtx, ttl/2, s.log)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(log *zap.Logger) mux.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
