// Package server implements the HTTP control surface of the player.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/reelbox/reelbox/log"
	"github.com/rs/cors"
)

var logger = log.For("server")

const shutdownTimeout = 5 * time.Second

// Server serves the control API until its context ends.
type Server struct {
	http *http.Server
}

// New returns a server listening on addr. Cross-origin requests are accepted
// from origins; an empty list disables CORS handling.
func New(addr string, handler *Handler, origins []string) *Server {
	var h http.Handler = NewRouter(handler)

	if len(origins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(h)
	}

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the root handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run listens until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Infof("stopped")
	return nil
}
