package dashboard

import (
	"net/http"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/utils"
)

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Parse Dashboard</title>
</head>
<body>
  <h1>Parse Dashboard</h1>
  <ul>
  {{- range .}}
    <li><strong>{{.AppName}}</strong> ({{.AppID}}) at <code>{{.ServerURL}}</code></li>
  {{- else}}
    <li>No apps configured</li>
  {{- end}}
  </ul>
</body>
</html>
`

// appsConfig is the body of GET /parse-dashboard-config.json.
type appsConfig struct {
	Apps []config.DashboardApp `json:"apps"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, h.options.Apps); err != nil {
		logger.FromRequest(r).Err(err).Msg("error rendering dashboard page")
	}
}

func (h *Handler) appsConfig(w http.ResponseWriter, r *http.Request) {
	apps := h.options.Apps
	if apps == nil {
		apps = []config.DashboardApp{}
	}
	_, _ = utils.WriteJSON(w, appsConfig{Apps: apps}, http.StatusOK)
}
