package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
)

const defaultShutdownTimeout = 10 * time.Second

// Binding describes the bound listener and the services sharing it.
type Binding struct {
	Addr     net.Addr
	Port     int
	Services []string
}

type Server struct {
	httpServer *http.Server
	realtime   RealtimeService
	cfg        config.Server

	mu       sync.Mutex
	started  bool
	serveErr chan error

	logger *logger.Logger
}

// NewServer prepares the HTTP server for router. realtime may be nil.
func NewServer(router http.Handler, realtime RealtimeService, cfg config.Server, logger *logger.Logger) *Server {
	logger.Info().Msg("creating new server...")
	return &Server{
		httpServer: newHTTPServer(router, logger),
		realtime:   realtime,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start binds ":<port>", attaches the realtime service and starts serving in
// the background. A bind failure is returned to the caller; there is no
// retry or fallback port.
func (s *Server) Start() (*Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil, ErrAlreadyStarted
	}

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("error binding port %d: %w", s.cfg.Port, err)
	}

	binding := &Binding{
		Addr:     listener.Addr(),
		Port:     listener.Addr().(*net.TCPAddr).Port,
		Services: []string{"http"},
	}
	s.logger.Info().Msgf("parse-server-example running on port %d.", binding.Port)

	if s.realtime != nil {
		s.realtime.Attach(s.httpServer)
		binding.Services = append(binding.Services, s.realtime.Name())
	}

	s.serveErr = make(chan error, 1)
	go func() {
		defer close(s.serveErr)
		if err := s.httpServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			s.serveErr <- err
		}
	}()

	s.started = true
	return binding, nil
}

// Run blocks until ctx is done or the HTTP server fails, then shuts down the
// realtime service and the HTTP server within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	serveErr := s.serveErr
	s.mu.Unlock()

	if serveErr == nil {
		return ErrNotStarted
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown requested")
	case err, ok := <-serveErr:
		if ok {
			s.logger.Err(err).Msg("HTTP server stopped")
			runErr = fmt.Errorf("error serving HTTP: %w", err)
		}
	}

	if err := s.shutdown(); err != nil {
		return errors.Join(runErr, err)
	}
	s.logger.Info().Msg("server shutdown gracefully")
	return runErr
}

func (s *Server) shutdown() error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var err error
	// hijacked WebSocket connections are not tracked by http.Server
	if s.realtime != nil {
		if rErr := s.realtime.Shutdown(ctx); rErr != nil {
			err = errors.Join(err, fmt.Errorf("error shutting down %s: %w", s.realtime.Name(), rErr))
		}
	}
	if hErr := s.httpServer.Shutdown(ctx); hErr != nil {
		err = errors.Join(err, fmt.Errorf("error shutting down HTTP server: %w", hErr))
	}
	return err
}
