package api

import (
	"net/http"

	"github.com/MKhiriev/baas-sample/internal/utils"
	"github.com/go-chi/chi/v5"
)

// Init returns the API router. Paths are relative to the mount prefix.
func (h *Handler) Init() chi.Router {
	router := chi.NewRouter()

	// routes without keys
	router.Group(func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/apps/{appId}/verify_email", h.verifyEmail)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.keys)

		r.With(h.requireMaster).Get("/serverInfo", h.serverInfo)

		r.Post("/classes/{className}", h.createObject)
		r.Get("/classes/{className}/{objectId}", h.getObject)

		r.Post("/users", h.signUp)
		r.Get("/login", h.login)
		r.Post("/login", h.login)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteAPIError(w, http.StatusNotFound, 0, "Cannot "+r.Method+" "+r.URL.Path)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteAPIError(w, http.StatusNotFound, 0, "Cannot "+r.Method+" "+r.URL.Path)
	})

	return router
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
