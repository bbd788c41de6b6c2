// Package dashboard serves the administrative dashboard: an HTTPS gate,
// basic authentication against the configured users and a read-only view of
// the configured applications.
package dashboard

import (
	"html/template"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/go-chi/chi/v5"
)

// Realm is announced in basic authentication challenges.
const Realm = "Parse Dashboard"

// MessageHTTPSRequired is the body of requests rejected by the HTTPS gate.
const MessageHTTPSRequired = "Parse Dashboard can only be remotely accessed via HTTPS"

type Handler struct {
	options config.DashboardOptions
	page    *template.Template

	logger *logger.Logger
}

func NewHandler(options config.DashboardOptions, logger *logger.Logger) *Handler {
	logger.Info().Int("apps", len(options.Apps)).Msg("dashboard handler created")
	return &Handler{
		options: options,
		page:    template.Must(template.New("index").Parse(indexPage)),
		logger:  logger,
	}
}

// Init returns the dashboard router. Paths are relative to the mount prefix.
func (h *Handler) Init() chi.Router {
	router := chi.NewRouter()
	router.Use(h.requireHTTPS, h.basicAuth)

	router.Get("/", h.index)
	router.Get("/parse-dashboard-config.json", h.appsConfig)

	return router
}
