package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService runs an HTTP server as a supervised service. An *http.Server
// cannot be reused after Shutdown, so a fresh one is built on every Serve.
type HTTPService struct {
	newServer       func() HTTPServer
	shutdownTimeout time.Duration
}

// NewHTTPService wraps newServer. shutdownTimeout bounds graceful shutdown;
// zero means 10s.
func NewHTTPService(newServer func() HTTPServer, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{newServer: newServer, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service. It returns when ctx is cancelled (after
// a graceful Shutdown) or when the server fails.
func (h *HTTPService) Serve(ctx context.Context) error {
	srv := h.newServer()

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return errors.New("http server stopped unexpectedly")

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPService) String() string { return "http-server" }
