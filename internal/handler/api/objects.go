package api

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/utils"
	"github.com/MKhiriev/baas-sample/models"
	"github.com/go-chi/chi/v5"
)

var errEmptyBody = errors.New("request body must be a JSON object")

func (h *Handler) createObject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	className := chi.URLParam(r, "className")

	var data models.Object
	if err := utils.DecodeJSON(r, &data); err != nil {
		log.Err(err).Msg("invalid object body")
		utils.WriteAPIError(w, http.StatusBadRequest, models.CodeInvalidJSON, "invalid JSON")
		return
	}
	if data == nil {
		log.Err(errEmptyBody).Msg("invalid object body")
		utils.WriteAPIError(w, http.StatusBadRequest, models.CodeInvalidJSON, "invalid JSON")
		return
	}

	created, err := h.services.ObjectService.CreateObject(ctx, className, data)
	if err != nil {
		log.Err(err).Str("class", className).Msg("error creating object")
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", h.app.ServerURL+"/classes/"+className+"/"+created.ObjectID())
	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getObject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	className := chi.URLParam(r, "className")
	objectID := chi.URLParam(r, "objectId")

	object, err := h.services.ObjectService.GetObject(ctx, className, objectID)
	if err != nil {
		log.Err(err).Str("class", className).Str("object_id", objectID).Msg("error getting object")
		h.writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, object, http.StatusOK)
}

func (h *Handler) serverInfo(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, h.services.ServerInfoService.ServerInfo(r.Context()), http.StatusOK)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	e := errorFromService(err)
	utils.WriteAPIError(w, e.status, e.code, e.message)
}
