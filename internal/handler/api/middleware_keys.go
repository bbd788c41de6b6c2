package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/utils"
	"github.com/MKhiriev/baas-sample/models"
)

// Request headers carrying application keys.
const (
	headerApplicationID = "X-Parse-Application-Id"
	headerMasterKey     = "X-Parse-Master-Key"
	headerClientKey     = "X-Parse-Client-Key"
	headerRESTAPIKey    = "X-Parse-REST-API-Key"
)

// keys is an HTTP middleware that authenticates requests by application keys.
//
// The application id must match. A matching master key marks the request
// context with [utils.WithMaster]. Otherwise, when a client key or REST key
// is configured, one of them must be presented.
//
// Rejected requests get 403 {"error":"unauthorized"}.
func (h *Handler) keys(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		if !keyEquals(r.Header.Get(headerApplicationID), h.app.AppID) {
			log.Warn().Msg("request with unknown application id")
			utils.WriteAPIError(w, http.StatusForbidden, 0, "unauthorized")
			return
		}

		if keyEquals(r.Header.Get(headerMasterKey), h.app.MasterKey) {
			next.ServeHTTP(w, r.WithContext(utils.WithMaster(r.Context())))
			return
		}

		if h.app.ClientKey != "" || h.app.RESTAPIKey != "" {
			clientOK := keyEquals(r.Header.Get(headerClientKey), h.app.ClientKey)
			restOK := keyEquals(r.Header.Get(headerRESTAPIKey), h.app.RESTAPIKey)
			if !clientOK && !restOK {
				log.Warn().Msg("request without a valid client or REST key")
				utils.WriteAPIError(w, http.StatusForbidden, 0, "unauthorized")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// requireMaster rejects requests not authenticated with the master key.
func (h *Handler) requireMaster(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !utils.IsMaster(r.Context()) {
			utils.WriteAPIError(w, http.StatusForbidden, models.CodeOperationForbidden, "unauthorized: master key is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// keyEquals compares a presented key with a configured one in constant
// time. An unconfigured key never matches.
func keyEquals(presented, configured string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}
