// Package server exposes a bhandar.Store over HTTP: the plain form/text
// endpoints, the bhandar.v1.CacheService Connect API, gRPC health and
// reflection, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/grpchealth"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rudransh61/Bhandar/api/bhandar/v1/bhandarv1connect"
	"github.com/rudransh61/Bhandar/internal/log"
	"github.com/rudransh61/Bhandar/pkg/bhandar"
)

// Config holds the server settings.
type Config struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	TTLParser       *bhandar.TTLParser
}

// Server serves one store.
type Server struct {
	addr            string
	shutdownTimeout time.Duration

	store   *bhandar.Store
	handler *Handler
	metrics *Metrics
	checker *grpchealth.StaticChecker

	// closed when shutdown starts; ends Watch streams only
	streams  chan struct{}
	stopOnce sync.Once
}

// DefaultShutdownTimeout is the grace period used when Config leaves it unset.
const DefaultShutdownTimeout = 5 * time.Second

// New returns a Server for store. Zero Config fields take their defaults.
func New(store *bhandar.Store, cfg Config) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	metrics := NewMetrics(store)
	return &Server{
		addr:            cfg.Addr,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           store,
		metrics:         metrics,
		handler: NewHandler(store,
			WithTTLParser(cfg.TTLParser),
			WithRequestTimeout(cfg.RequestTimeout),
			WithMetrics(metrics),
		),
		checker: grpchealth.NewStaticChecker(bhandarv1connect.CacheServiceName),
		streams: make(chan struct{}),
	}
}

// stopStreams ends every open Watch stream. Unary requests are unaffected.
func (s *Server) stopStreams() {
	s.stopOnce.Do(func() { close(s.streams) })
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// HTTPHandler returns the full route tree, accepting HTTP/1.1 and cleartext
// HTTP/2.
func (s *Server) HTTPHandler() http.Handler {
	return h2c.NewHandler(s.routes(), &http2.Server{})
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then marks the service
// as not serving and shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.HTTPHandler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	// Watch streams never go idle on their own.
	srv.RegisterOnShutdown(s.stopStreams)

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx).Str("addr", ln.Addr().String()).Msg("bhandard listening")
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	log.Info(ctx).Msg("shutting down...")
	s.checker.SetStatus("", grpchealth.StatusNotServing)
	s.checker.SetStatus(bhandarv1connect.CacheServiceName, grpchealth.StatusNotServing)

	sctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
