package api

import (
	"context"
	"net/http"
	"strconv"

	"forumapi/internal/api/middleware"
	"forumapi/internal/domain"
	"forumapi/internal/upload"
	"forumapi/pkg/logger"
)

type UserHandler struct {
	users  domain.UserService
	logger logger.Logger
}

func NewUserHandler(users domain.UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

func (h *UserHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users", h.handlePost)
	mux.HandleFunc("GET /api/users", h.handleGet)
}

func (h *UserHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	// Multipart comes in for avatar uploads; everything else is form-encoded.
	// ParseMultipartForm falls back to ParseForm for plain bodies.
	if err := r.ParseMultipartForm(upload.MaxImageSize + 4096); err != nil && err != http.ErrNotMultipart {
		writeError(w, domain.Validation("Invalid request body."))
		return
	}

	switch r.FormValue("action") {
	case "update_profile":
		h.updateProfile(w, r)
	case "update_password":
		h.updatePassword(w, r)
	case "upload_avatar":
		h.uploadAvatar(w, r)
	case "promote":
		h.changeRole(w, r, h.users.Promote)
	case "demote":
		h.changeRole(w, r, h.users.Demote)
	case "delete_user":
		h.changeRole(w, r, h.users.DeleteUser)
	default:
		writeError(w, domain.Validation("Unknown action."))
	}
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "get_profile":
		h.getProfile(w, r)
	case "remove_avatar":
		h.removeAvatar(w, r)
	case "get_users":
		h.listUsers(w, r)
	default:
		writeError(w, domain.Validation("Unknown action."))
	}
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.Profile(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    profile,
	})
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := r.FormValue("username")

	err := h.users.UpdateProfile(ctx, middleware.IdentityFrom(ctx), middleware.TokenFrom(ctx), username, r.FormValue("email"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Profile updated successfully.",
		"username": username,
	})
}

func (h *UserHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	err := h.users.UpdatePassword(
		r.Context(),
		middleware.IdentityFrom(r.Context()),
		r.FormValue("current_password"),
		r.FormValue("new_password"),
		r.FormValue("confirm_password"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password updated successfully.",
	})
}

func (h *UserHandler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, domain.Validation("Upload failed or no file."))
		return
	}
	defer file.Close()

	img, err := upload.ReadImage(file, header)
	if err != nil {
		writeError(w, err)
		return
	}

	filename, err := h.users.UploadAvatar(r.Context(), middleware.IdentityFrom(r.Context()), img)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Avatar uploaded.",
		"filename": filename,
	})
}

func (h *UserHandler) removeAvatar(w http.ResponseWriter, r *http.Request) {
	if err := h.users.RemoveAvatar(r.Context(), middleware.IdentityFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Avatar removed.",
	})
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// changeRole covers promote, demote and delete_user, which share the same
// request shape and differ only in the service call.
func (h *UserHandler) changeRole(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor *domain.Identity, targetID int64) error) {
	targetID, err := strconv.ParseInt(r.FormValue("user_id"), 10, 64)
	if err != nil || targetID <= 0 {
		writeError(w, domain.Validation("Invalid user id."))
		return
	}

	if err := op(r.Context(), middleware.IdentityFrom(r.Context()), targetID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
