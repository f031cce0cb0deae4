// Package server exposes the invocation surface over HTTP: the manual and
// scheduled poll triggers, the read-only stats endpoints and the
// administrative reset.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tweet_tracker/internal/analytics"
	"tweet_tracker/internal/domain"
)

type Poller interface {
	Poll(ctx context.Context) (*domain.PollStats, error)
}

// PostAdmin covers the administrative bulk-clear operation.
type PostAdmin interface {
	DeleteAll(ctx context.Context) error
}

type PollStateAccess interface {
	Get(ctx context.Context) (*domain.PollState, error)
	Delete(ctx context.Context) error
}

type Server struct {
	poller     Poller
	stats      *analytics.Service
	posts      PostAdmin
	pollState  PollStateAccess
	cronSecret string
	logger     *slog.Logger
	mux        *http.ServeMux
}

func New(
	poller Poller,
	stats *analytics.Service,
	posts PostAdmin,
	pollState PollStateAccess,
	cronSecret string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		poller:     poller,
		stats:      stats,
		posts:      posts,
		pollState:  pollState,
		cronSecret: cronSecret,
		logger:     logger.With("component", "http"),
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()
	err := httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
