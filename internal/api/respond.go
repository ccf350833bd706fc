package api

import (
	"encoding/json"
	"net/http"

	"forumapi/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports a failure with the status matching its kind. Internal
// errors get a generic message so storage detail never leaks.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	message := err.Error()
	if kind == domain.KindInternal {
		message = "Something went wrong."
	}

	writeJSON(w, statusForKind(kind), map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeSoftError reports expected failures as a 200 body with success false,
// the shape the register/login and comment endpoints use. Internal errors
// still surface as 500.
func writeSoftError(w http.ResponseWriter, err error) {
	if domain.KindOf(err) == domain.KindInternal {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": false,
		"message": err.Error(),
	})
}
