// Package health exposes the liveness HTTP endpoints and the keepalive
// self-pinger that keeps free-tier hosts from idling the process out.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server serves the liveness endpoints.
type Server struct {
	srv *http.Server
	log *zap.Logger
}

// NewServer builds the health server on addr.
func NewServer(addr string, log *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "stylebot is running")
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("health server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("health server shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	}
}

// Keepalive GETs url every interval until ctx is cancelled. Failures are
// logged and the loop continues; a dead pinger must not take the bot down.
func Keepalive(ctx context.Context, client *http.Client, url string, interval time.Duration, log *zap.Logger) error {
	if url == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("keepalive pinger started", zap.String("url", url), zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				log.Warn("keepalive request build failed", zap.Error(err))
				continue
			}
			resp, err := client.Do(req)
			if err != nil {
				log.Warn("keepalive ping failed", zap.Error(err))
				continue
			}
			resp.Body.Close()
			log.Debug("keepalive ping", zap.Int("status", resp.StatusCode))
		}
	}
}
