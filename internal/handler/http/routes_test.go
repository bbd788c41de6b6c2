package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/baas-sample/internal/config"
	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPageBody = "<html><body>live query test page</body></html>"

// recordingHandler remembers the last path it served.
type recordingHandler struct {
	name string
	path string
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.path = r.URL.Path
	_, _ = w.Write([]byte(h.name))
}

type routesFixture struct {
	router    http.Handler
	api       *recordingHandler
	dashboard *recordingHandler
}

func newRoutesFixture(t *testing.T) *routesFixture {
	t.Helper()

	dir := t.TempDir()
	publicDir := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(publicDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "asset.txt"), []byte(strings.Repeat("asset ", 200)), 0o644))
	testPage := filepath.Join(publicDir, "test.html")
	require.NoError(t, os.WriteFile(testPage, []byte(testPageBody), 0o644))

	cfg := configWithMountPath("/parse")
	cfg.Server = config.Server{PublicDir: publicDir, TestPage: testPage}

	f := &routesFixture{
		api:       &recordingHandler{name: "api"},
		dashboard: &recordingHandler{name: "dashboard"},
	}
	h, err := NewHandler(cfg, f.api, f.dashboard, logger.Nop())
	require.NoError(t, err)
	f.router = h.Init()
	return f
}

func (f *routesFixture) get(target string, headers map[string]string) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, target, headers)
}

func (f *routesFixture) do(method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestInit_Root(t *testing.T) {
	f := newRoutesFixture(t)

	rec := f.get("/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Parse-Server for demonstrating demo", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(TraceIDHeader))
}

func TestInit_TestPage(t *testing.T) {
	f := newRoutesFixture(t)

	rec := f.get("/test", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testPageBody, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestInit_HeadOnInlineRoutes(t *testing.T) {
	tests := []struct {
		target      string
		contentType string
	}{
		{target: "/", contentType: "text/plain"},
		{target: "/test", contentType: "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			f := newRoutesFixture(t)

			rec := f.do(http.MethodHead, tt.target, nil)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
		})
	}
}

func TestInit_MountedHandlers(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantBody string
		wantPath string
	}{
		{name: "api root", target: "/parse", wantBody: "api", wantPath: "/parse"},
		{name: "api nested", target: "/parse/classes/Posts", wantBody: "api", wantPath: "/parse/classes/Posts"},
		{name: "dashboard", target: "/dashboard/", wantBody: "dashboard", wantPath: "/dashboard/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRoutesFixture(t)

			rec := f.get(tt.target, nil)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			if tt.wantBody == "api" {
				assert.Equal(t, tt.wantPath, f.api.path)
			} else {
				assert.Equal(t, tt.wantPath, f.dashboard.path)
			}
		})
	}
}

func TestInit_PublicAssets(t *testing.T) {
	f := newRoutesFixture(t)

	rec := f.get("/public/asset.txt", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strings.Repeat("asset ", 200), rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}

func TestInit_PublicAssetsGzip(t *testing.T) {
	f := newRoutesFixture(t)

	rec := f.get("/public/asset.txt", map[string]string{"Accept-Encoding": "gzip"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Empty(t, rec.Header().Get("Content-Length"))

	gz, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("asset ", 200), string(body))
}

func TestInit_PublicMissingAsset(t *testing.T) {
	f := newRoutesFixture(t)

	rec := f.get("/public/missing.txt", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_UnsupportedMethodOnInlineRoute(t *testing.T) {
	f := newRoutesFixture(t)

	rec := f.do(http.MethodPost, "/", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot POST /")
}

func TestInit_UnknownRoute(t *testing.T) {
	f := newRoutesFixture(t)

	rec := f.get("/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_RecoversFromPanics(t *testing.T) {
	cfg := configWithMountPath("/parse")
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h, err := NewHandler(cfg, panicking, http.NotFoundHandler(), logger.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/parse/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
