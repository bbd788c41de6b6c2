package service

import (
	"context"
	"slices"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/models"
)

type serverInfoService struct {
	info models.ServerInfo

	logger *logger.Logger
}

// NewServerInfoService snapshots the build metadata and the configured
// optional features; the reported info never changes afterwards.
func NewServerInfoService(cfg config.API, buildInfo models.AppBuildInfo, logger *logger.Logger) ServerInfoService {
	return &serverInfoService{
		info: models.ServerInfo{
			ParseServerVersion: buildInfo.BuildVersion(),
			BuildDate:          buildInfo.BuildDate(),
			BuildCommit:        buildInfo.BuildCommit(),
			Features: models.ServerFeatures{
				Push: models.PushFeatures{
					Android: cfg.Push.Android.APIKey != "",
				},
				LiveQuery: models.LiveQueryFeatures{
					ClassNames: slices.Clone(cfg.LiveQuery.ClassNames),
				},
				Email: models.EmailFeatures{
					Adapter:          cfg.EmailAdapter.Module,
					VerifyUserEmails: cfg.Email.VerifyUserEmails,
				},
			},
		},
		logger: logger,
	}
}

func (s *serverInfoService) ServerInfo(ctx context.Context) models.ServerInfo {
	info := s.info
	info.Features.LiveQuery.ClassNames = slices.Clone(s.info.Features.LiveQuery.ClassNames)
	return info
}
