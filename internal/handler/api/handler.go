// Package api implements the REST API mounted under the configurable API
// prefix. It authenticates requests by application keys, maps service
// errors to {"code":N,"error":"..."} bodies and delegates to the service
// layer.
package api

import (
	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/service"
)

type Handler struct {
	services *service.Services
	app      config.App

	logger *logger.Logger
}

func NewHandler(services *service.Services, app config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("api handler created")
	return &Handler{
		services: services,
		app:      app,
		logger:   logger,
	}
}
