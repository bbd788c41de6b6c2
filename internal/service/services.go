package service

import (
	"fmt"

	"github.com/MKhiriev/baas-sample/internal/adapter"
	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/store"
	"github.com/MKhiriev/baas-sample/models"
)

type Services struct {
	AuthService       AuthService
	ObjectService     ObjectService
	ServerInfoService ServerInfoService
}

// NewServices validates cfg and builds the API services on top of storages.
func NewServices(storages *store.Storages, cfg config.API, publisher EventPublisher, mailer adapter.EmailAdapter, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	if err := validateAPIConfig(cfg); err != nil {
		return nil, err
	}

	authService, err := NewAuthService(storages.Users, storages.Lockout, mailer, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating auth service: %w", err)
	}

	objectService := NewObjectValidationService().Wrap(
		NewObjectService(storages.Objects, publisher, logger),
	)

	return &Services{
		AuthService:       authService,
		ObjectService:     objectService,
		ServerInfoService: NewServerInfoService(cfg, buildInfo, logger),
	}, nil
}
