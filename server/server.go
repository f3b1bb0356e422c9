package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// HTTPWorker runs the HTTP server under the supervisor like any other
// worker, so a listener crash gets the same restart treatment as a
// room actor.
type HTTPWorker struct {
	log    *slog.Logger
	server *http.Server
}

func NewHTTPWorker(log *slog.Logger, host string, port int, handler http.Handler) *HTTPWorker {
	return &HTTPWorker{
		log: log,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *HTTPWorker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		w.log.Info("HTTP server listening", "addr", w.server.Addr)
		errCh <- w.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.log.Warn("HTTP shutdown not clean", "error", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
