package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"forumapi/internal/upload"
	"forumapi/pkg/logger"
)

// FileHandler serves stored avatars and post images. Filenames are reduced to
// their base name before any disk access.
type FileHandler struct {
	files         *upload.Store
	defaultAvatar string
	logger        logger.Logger
}

func NewFileHandler(files *upload.Store, defaultAvatar string, logger logger.Logger) *FileHandler {
	return &FileHandler{
		files:         files,
		defaultAvatar: defaultAvatar,
		logger:        logger,
	}
}

func (h *FileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /avatar", h.serveAvatar)
	mux.HandleFunc("GET /uploads/posts/{file}", h.servePostImage)
}

func contentTypeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func (h *FileHandler) serveAvatar(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.URL.Query().Get("filename"))

	path := h.files.AvatarPath(name)
	if name == "" || name == "." {
		path = h.defaultAvatar
	} else if _, err := os.Stat(path); err != nil {
		path = h.defaultAvatar
	}

	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentTypeForName(path))
	w.Write(data)
}

func (h *FileHandler) servePostImage(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("file"))

	data, err := os.ReadFile(h.files.PostImagePath(name))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentTypeForName(name))
	w.Write(data)
}
