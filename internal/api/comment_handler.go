package api

import (
	"net/http"
	"strconv"

	"forumapi/internal/api/middleware"
	"forumapi/internal/domain"
	"forumapi/pkg/logger"
)

type CommentHandler struct {
	comments domain.CommentService
	logger   logger.Logger
}

func NewCommentHandler(comments domain.CommentService, logger logger.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		logger:   logger,
	}
}

func (h *CommentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/comments", h.handlePost)
	mux.HandleFunc("GET /api/comments", h.handleGet)
}

func (h *CommentHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, domain.Validation("Invalid request body."))
		return
	}

	switch r.FormValue("action") {
	case "create":
		h.create(w, r)
	case "edit":
		h.edit(w, r)
	default:
		writeError(w, domain.Validation("Unknown action."))
	}
}

func (h *CommentHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "get_comments":
		h.list(w, r)
	case "delete":
		h.delete(w, r)
	default:
		writeError(w, domain.Validation("Unknown action."))
	}
}

func (h *CommentHandler) list(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.URL.Query().Get("post_id"), 10, 64)
	if err != nil || postID <= 0 {
		writeError(w, domain.Validation("Invalid post id."))
		return
	}

	page, perPage := pageParams(r)

	comments, pagination, err := h.comments.ListByPost(r.Context(), postID, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"comments":   comments,
		"pagination": pagination,
	})
}

func (h *CommentHandler) create(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.FormValue("post_id"), 10, 64)
	if err != nil || postID <= 0 {
		writeError(w, domain.Validation("Invalid post id."))
		return
	}

	err = h.comments.Create(r.Context(), middleware.IdentityFrom(r.Context()), postID, r.FormValue("content"))
	if err != nil {
		writeSoftError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comment added.",
	})
}

func (h *CommentHandler) edit(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(r.FormValue("comment_id"), 10, 64)
	if err != nil || commentID <= 0 {
		writeError(w, domain.Validation("Invalid comment id."))
		return
	}

	err = h.comments.Update(r.Context(), middleware.IdentityFrom(r.Context()), commentID, r.FormValue("content"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comment updated.",
	})
}

func (h *CommentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, domain.Validation("Invalid comment id."))
		return
	}

	if err := h.comments.Delete(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comment deleted.",
	})
}
