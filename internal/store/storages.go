package store

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/redis/go-redis/v9"
)

// memoryURIScheme selects the in-process object repository.
const memoryURIScheme = "memory://"

// Storages aggregates the persistence backends used by the API services.
type Storages struct {
	Objects ObjectRepository
	Users   UserRepository
	Lockout LockoutStore

	// Redis is nil unless a Redis URL is configured. It is shared with the
	// live query bridge.
	Redis *redis.Client
}

// NewStorages opens the configured backends. An empty database URI selects
// [DefaultDatabaseURI]; an empty Redis URL keeps lockout state in memory.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating storages...")

	objects, err := newObjectRepository(ctx, cfg.DatabaseURI, log)
	if err != nil {
		return nil, err
	}

	storages := &Storages{
		Objects: objects,
		Users:   NewUserRepository(objects),
		Lockout: NewMemoryLockoutStore(),
	}

	if cfg.RedisURL != "" {
		client, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, errors.Join(err, objects.Close(ctx))
		}
		storages.Redis = client
		storages.Lockout = NewRedisLockoutStore(client)
		log.Info().Msg("using redis lockout store")
	}

	return storages, nil
}

func newObjectRepository(ctx context.Context, uri string, log *logger.Logger) (ObjectRepository, error) {
	switch {
	case uri == "":
		log.Info().Str("uri", DefaultDatabaseURI).Msg("no database URI configured, using local default store")
		return NewMongoObjectRepository(ctx, DefaultDatabaseURI, log)
	case strings.HasPrefix(uri, memoryURIScheme):
		log.Warn().Msg("using in-memory object store, data is lost on restart")
		return NewMemoryObjectRepository(), nil
	default:
		return NewMongoObjectRepository(ctx, uri, log)
	}
}

// Close releases every opened backend.
func (s *Storages) Close(ctx context.Context) error {
	var err error
	if s.Objects != nil {
		err = errors.Join(err, s.Objects.Close(ctx))
	}
	if s.Redis != nil {
		err = errors.Join(err, s.Redis.Close())
	}
	return err
}
