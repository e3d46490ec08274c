package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Server wraps the HTTP server and handlers.
type Server struct {
	addr     string
	handlers *Handlers
}

// NewServer creates a server configured for the given address and dependencies.
func NewServer(addr string, hub *Hub, compute ComputeFunc, optimizeFn OptimizeFunc, status StatusFunc, formDefaults FormConfig) *Server {
	return &Server{
		addr:     addr,
		handlers: NewHandlers(hub, compute, optimizeFn, status, formDefaults),
	}
}

// Router returns an http.Handler with all routes registered.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/config", s.handlers.HandleConfig).Methods(http.MethodGet)
	api.HandleFunc("/status", s.handlers.HandleStatus).Methods(http.MethodGet)
	api.HandleFunc("/compute", s.handlers.HandleCompute).Methods(http.MethodPost)
	api.HandleFunc("/optimize", s.handlers.HandleOptimize).Methods(http.MethodPost)
	api.HandleFunc("/stream", s.handlers.Hub.HandleStream).Methods(http.MethodGet)

	return r
}

// Run starts the server and blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("web server listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.handlers.Hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
