package api

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/baas-sample/internal/logger"
	"github.com/MKhiriev/baas-sample/internal/service"
	"github.com/MKhiriev/baas-sample/internal/utils"
	"github.com/MKhiriev/baas-sample/models"
	"github.com/go-chi/chi/v5"
)

type signUpResponse struct {
	ObjectID     string `json:"objectId"`
	CreatedAt    string `json:"createdAt"`
	SessionToken string `json:"sessionToken"`
}

type loginResponse struct {
	ObjectID      string `json:"objectId"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	CreatedAt     string `json:"createdAt"`
	SessionToken  string `json:"sessionToken"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if err := utils.DecodeJSON(r, &user); err != nil {
		log.Err(err).Msg("invalid sign up body")
		utils.WriteAPIError(w, http.StatusBadRequest, models.CodeInvalidJSON, "invalid JSON")
		return
	}

	created, session, err := h.services.AuthService.SignUp(ctx, user)
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("sign up failed")
		h.writeServiceError(w, err)
		return
	}

	log.Info().Str("user_id", created.ObjectID).Msg("user signed up")
	w.Header().Set("Location", h.app.ServerURL+"/users/"+created.ObjectID)
	_, _ = utils.WriteJSON(w, signUpResponse{
		ObjectID:     created.ObjectID,
		CreatedAt:    models.FormatTime(created.CreatedAt),
		SessionToken: session.SessionToken,
	}, http.StatusCreated)
}

// login accepts credentials either as query parameters (GET) or as a JSON
// body (POST).
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var credentials models.User
	if r.Method == http.MethodGet {
		credentials.Username = r.URL.Query().Get("username")
		credentials.Password = r.URL.Query().Get("password")
	} else if err := utils.DecodeJSON(r, &credentials); err != nil {
		log.Err(err).Msg("invalid login body")
		utils.WriteAPIError(w, http.StatusBadRequest, models.CodeInvalidJSON, "invalid JSON")
		return
	}

	user, session, err := h.services.AuthService.Login(ctx, credentials.Username, credentials.Password)
	if err != nil {
		log.Err(err).Str("username", credentials.Username).Msg("login failed")
		h.writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, loginResponse{
		ObjectID:      user.ObjectID,
		Username:      user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		CreatedAt:     models.FormatTime(user.CreatedAt),
		SessionToken:  session.SessionToken,
	}, http.StatusOK)
}

// verifyEmail handles the link sent in verification emails. It is reachable
// without application keys.
func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if chi.URLParam(r, "appId") != h.app.AppID {
		utils.WriteAPIError(w, http.StatusNotFound, models.CodeObjectNotFound, "Invalid application id.")
		return
	}

	username := r.URL.Query().Get("username")
	err := h.services.AuthService.VerifyEmail(ctx, username, r.URL.Query().Get("token"))
	if errors.Is(err, service.ErrInvalidVerifyToken) {
		utils.WriteAPIError(w, http.StatusBadRequest, models.CodeObjectNotFound, "Invalid or expired email verification link.")
		return
	}
	if err != nil {
		log.Err(err).Str("username", username).Msg("email verification failed")
		h.writeServiceError(w, err)
		return
	}

	_, _ = utils.WriteJSON(w, map[string]string{"status": "verified", "username": username}, http.StatusOK)
}
