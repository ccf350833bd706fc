package api

import (
	"net/http"

	"forumapi/internal/api/middleware"
	"forumapi/internal/domain"
	"forumapi/pkg/logger"
)

type AuthHandler struct {
	users  domain.UserService
	logger logger.Logger
}

func NewAuthHandler(users domain.UserService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger,
	}
}

func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth", h.handlePost)
	mux.HandleFunc("GET /api/auth", h.handleGet)
}

func (h *AuthHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, domain.Validation("Invalid request body."))
		return
	}

	switch r.FormValue("action") {
	case "register":
		h.register(w, r)
	case "login":
		h.login(w, r)
	default:
		writeError(w, domain.Validation("Unknown action."))
	}
}

func (h *AuthHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "logout":
		h.logout(w, r)
	case "check_session":
		h.checkSession(w, r)
	default:
		writeError(w, domain.Validation("Unknown action."))
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	err := h.users.Register(
		r.Context(),
		r.FormValue("username"),
		r.FormValue("email"),
		r.FormValue("password"),
		r.FormValue("confirm_password"),
	)
	if err != nil {
		writeSoftError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Registration successful. You can now log in.",
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	identity, token, err := h.users.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		writeSoftError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful.",
		"user": map[string]interface{}{
			"id":       identity.UserID,
			"username": identity.Username,
			"role":     identity.Role,
		},
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := domain.RequireAuthenticated(middleware.IdentityFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Logout(r.Context(), middleware.TokenFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully.",
	})
}

func (h *AuthHandler) checkSession(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"loggedIn": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loggedIn": true,
		"user_id":  identity.UserID,
		"username": identity.Username,
		"role":     identity.Role,
	})
}
