package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/baas-sample/internal/adapter"
	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/handler/api"
	"github.com/MKhiriev/baas-sample/internal/handler/dashboard"
	"github.com/MKhiriev/baas-sample/internal/handler/http"
	"github.com/MKhiriev/baas-sample/internal/livequery"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/service"
	"github.com/MKhiriev/baas-sample/internal/store"
	"github.com/MKhiriev/baas-sample/models"
)

// Handlers are the composed collaborators served on the single listener.
type Handlers struct {
	HTTP      *http.Handler
	LiveQuery *livequery.Server

	storages *store.Storages
}

// NewHandlers builds the API, the dashboard and the live query service from
// cfg and mounts them on the front handler. Collaborator construction errors
// are returned unchanged.
func NewHandlers(ctx context.Context, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	storages, err := store.NewStorages(ctx, cfg.Storage, logger.Component("store"))
	if err != nil {
		return nil, err
	}

	handlers, err := compose(cfg, storages, buildInfo, logger)
	if err != nil {
		return nil, errors.Join(err, storages.Close(ctx))
	}
	return handlers, nil
}

func compose(cfg *config.StructuredConfig, storages *store.Storages, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Handlers, error) {
	liveQuery, err := livequery.NewServer(cfg.LiveQuery, cfg.App, storages.Redis, logger.Component("livequery"))
	if err != nil {
		return nil, fmt.Errorf("error creating live query server: %w", err)
	}

	mailer := adapter.NewEmailAdapter(cfg.EmailAdapter, logger.Component("email"))

	services, err := service.NewServices(storages, cfg.API(), liveQuery.Publisher(), mailer, buildInfo, logger.Component("api"))
	if err != nil {
		return nil, err
	}

	apiHandler := api.NewHandler(services, cfg.App, logger.Component("api"))
	dashboardHandler := dashboard.NewHandler(cfg.DashboardOptions(), logger.Component("dashboard"))

	front, err := http.NewHandler(cfg, apiHandler.Init(), dashboardHandler.Init(), logger)
	if err != nil {
		return nil, err
	}

	return &Handlers{
		HTTP:      front,
		LiveQuery: liveQuery,
		storages:  storages,
	}, nil
}

// Close releases the storage backends. The live query service is shut down
// by the server together with the listener.
func (h *Handlers) Close(ctx context.Context) error {
	return h.storages.Close(ctx)
}
