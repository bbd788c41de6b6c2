package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
)

// Fixed prefixes of the mount table.
const (
	PublicPath    = "/public"
	DashboardPath = "/dashboard"
	TestPagePath  = "/test"
)

type Handler struct {
	api       http.Handler
	dashboard http.Handler

	appID     string
	mountPath string
	server    config.Server

	logger *logger.Logger
}

// NewHandler validates the mount table and returns the front handler. The
// api handler is mounted under cfg.App.MountPath.
func NewHandler(cfg *config.StructuredConfig, api, dashboard http.Handler, logger *logger.Logger) (*Handler, error) {
	mountPath := cfg.App.MountPath
	if err := checkMountPath(mountPath); err != nil {
		return nil, err
	}

	logger.Info().Str("mount_path", mountPath).Msg("http handler created")
	return &Handler{
		api:       api,
		dashboard: dashboard,
		appID:     cfg.App.AppID,
		mountPath: mountPath,
		server:    cfg.Server,
		logger:    logger,
	}, nil
}

func checkMountPath(mountPath string) error {
	if mountPath == "" || mountPath == "/" {
		return fmt.Errorf("%w: %q", ErrMountPathConflict, mountPath)
	}
	for _, reserved := range []string{PublicPath, DashboardPath, TestPagePath} {
		if mountPath == reserved ||
			strings.HasPrefix(mountPath, reserved+"/") ||
			strings.HasPrefix(reserved, mountPath+"/") {
			return fmt.Errorf("%w: %q overlaps %q", ErrMountPathConflict, mountPath, reserved)
		}
	}
	return nil
}
