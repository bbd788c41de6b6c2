package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the mount table.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.GetHead)
	router.Use(h.withTraceID, h.withLogging)

	router.With(withGZip).Handle(PublicPath+"/*",
		http.StripPrefix(PublicPath, http.FileServer(http.Dir(h.server.PublicDir))))
	router.Mount(h.mountPath, h.api)
	router.Mount(DashboardPath, h.dashboard)
	router.Get("/", h.root)
	router.Get(TestPagePath, h.testPage)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Parse-Server for demonstrating " + h.appID))
}

func (h *Handler) testPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, h.server.TestPage)
}
