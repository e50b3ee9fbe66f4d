// Package server exposes a recruiter session over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/logger"
	"github.com/spigell/lynxhire/internal/screening"
	"github.com/spigell/lynxhire/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Config holds the HTTP settings.
type Config struct {
	Listen          string          `mapstructure:"listen"`
	MaxRequestBytes int64           `mapstructure:"max-request-bytes"`
	RateLimit       RateLimitConfig `mapstructure:"rate-limit"`
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests-per-minute"`
	Burst             int  `mapstructure:"burst"`
}

// Server serves one session. Every mutation is saved to the store.
type Server struct {
	cfg       Config
	session   *session.Session
	store     session.Store
	shortlist screening.Config
	version   string

	logger  *zap.Logger
	limiter *limiterManager
	metrics *metrics
	handler http.Handler

	// persistMu orders snapshots so an older one never overwrites a newer save.
	persistMu sync.Mutex
}

// Options carries the collaborators of a Server.
type Options struct {
	Config    Config
	Session   *session.Session
	Store     session.Store
	Shortlist screening.Config
	Version   string
	Logger    *zap.Logger
}

func New(opts Options) (*Server, error) {
	if opts.Session == nil {
		return nil, errors.New("session is required")
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}

	s := &Server{
		cfg:       opts.Config,
		session:   opts.Session,
		store:     opts.Store,
		shortlist: opts.Shortlist,
		version:   opts.Version,
		logger:    logger.WithFields(opts.Logger, zap.String("component", "server")),
		metrics:   newMetrics(),
	}
	s.metrics.candidates.Set(float64(opts.Session.Candidates().Len()))

	if rl := opts.Config.RateLimit; rl.Enabled {
		if rl.RequestsPerMinute <= 0 || rl.Burst <= 0 {
			return nil, fmt.Errorf("rate limit needs positive requests-per-minute and burst, got %d and %d", rl.RequestsPerMinute, rl.Burst)
		}
		s.limiter = newLimiterManager(rl.RequestsPerMinute, rl.Burst, s.logger)
	}

	s.handler = s.routes()
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close releases background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

func (s *Server) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.store.Save(ctx, s.session.Snapshot()); err != nil {
		s.logger.Error("failed to save session", zap.Error(err))
	}
}
