package api

import (
	"net/http"
	"strconv"

	"forumapi/internal/api/middleware"
	"forumapi/internal/domain"
	"forumapi/internal/upload"
	"forumapi/pkg/logger"
)

const defaultPerPage = 5

type PostHandler struct {
	posts  domain.PostService
	logger logger.Logger
}

func NewPostHandler(posts domain.PostService, logger logger.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger,
	}
}

func (h *PostHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/posts", h.handlePost)
	mux.HandleFunc("GET /api/posts", h.handleGet)
}

func (h *PostHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(upload.MaxImageSize + 4096); err != nil && err != http.ErrNotMultipart {
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

func (h *PostHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "get_posts":
		h.list(w, r)
	case "get_post":
		h.get(w, r)
	case "delete":
		h.delete(w, r)
	default:
		writeError(w, domain.Validation("Unknown action."))
	}
}

// pageParams reads page and per_page, falling back to page 1 and the default
// page size on anything unparsable.
func pageParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}

	return page, perPage
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	var mine *domain.Identity
	if r.URL.Query().Get("mode") == "my" {
		mine = middleware.IdentityFrom(r.Context())
		if err := domain.RequireAuthenticated(mine); err != nil {
			writeError(w, err)
			return
		}
	}

	posts, pagination, err := h.posts.List(r.Context(), page, perPage, mine)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"posts":      posts,
		"pagination": pagination,
	})
}

func (h *PostHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, domain.Validation("Invalid post id."))
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"post":    post,
	})
}

func (h *PostHandler) create(w http.ResponseWriter, r *http.Request) {
	img, err := optionalImage(r, "image")
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.posts.Create(r.Context(), middleware.IdentityFrom(r.Context()), r.FormValue("title"), r.FormValue("content"), img)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Post successfully created.",
	})
}

func (h *PostHandler) edit(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.FormValue("post_id"), 10, 64)
	if err != nil || postID <= 0 {
		writeError(w, domain.Validation("Invalid post id."))
		return
	}

	img, err := optionalImage(r, "new_image")
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.posts.Update(
		r.Context(),
		middleware.IdentityFrom(r.Context()),
		postID,
		r.FormValue("title"),
		r.FormValue("content"),
		r.FormValue("delete_image") == "1",
		img,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Post successfully updated.",
	})
}

func (h *PostHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, domain.Validation("Invalid post id."))
		return
	}

	if err := h.posts.Delete(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Post successfully deleted.",
	})
}

// optionalImage validates the named file field when present. Absence is not
// an error; posts do not require an image.
func optionalImage(r *http.Request, field string) (*domain.ImageUpload, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Validation("Upload failed.")
	}
	defer file.Close()

	return upload.ReadImage(file, header)
}
