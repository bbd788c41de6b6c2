package livequery

import (
	"context"
	"net/http"
	"sync"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/models"
	"github.com/redis/go-redis/v9"
)

// Publisher forwards object events to live query subscribers.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// Server is the live query service attached to the HTTP listener. It owns
// the hub and, when Redis is configured, the bridge feeding it.
type Server struct {
	hub    *Hub
	bridge *RedisBridge

	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewServer builds the live query service. A nil redisClient keeps event
// delivery inside this process.
func NewServer(cfg config.LiveQuery, app config.App, redisClient *redis.Client, log *logger.Logger) (*Server, error) {
	s := &Server{
		hub:    NewHub(cfg, app, log),
		logger: log,
	}

	if redisClient != nil {
		bridge, err := NewRedisBridge(redisClient, DefaultRedisChannel, s.hub, log)
		if err != nil {
			return nil, err
		}
		s.bridge = bridge
	}

	return s, nil
}

// Name identifies the service in the listener binding.
func (s *Server) Name() string {
	return "livequery"
}

// Publisher returns where object events should be sent.
func (s *Server) Publisher() Publisher {
	if s.bridge != nil {
		return s.bridge
	}
	return s.hub
}

// Hub returns the local hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Attach registers the upgrade hook on srv and starts the Redis bridge.
func (s *Server) Attach(srv *http.Server) {
	s.hub.Attach(srv)
	s.logger.Info().Strs("classNames", s.hub.classNames).Msg("live query server attached")

	if s.bridge == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.bridge.Run(ctx); err != nil {
			s.logger.Err(err).Msg("live query redis bridge stopped")
		}
	}()
}

// Shutdown stops the bridge and disconnects every client.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return s.hub.Shutdown(ctx)
}
