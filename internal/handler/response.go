package handler

import (
	"encoding/json"
	"mime"
	"net/http"

	"clinic-web/internal/action"
	"clinic-web/internal/observability"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		observability.FromContext(r.Context()).Warn("failed to write response", observability.Err(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeResult writes an action result. Failures use 401 when the session was
// missing and 422 otherwise; the body is the same envelope either way.
func writeResult[T any](w http.ResponseWriter, r *http.Request, successStatus int, result action.Result[T]) {
	status := successStatus
	if result.Failed() {
		status = http.StatusUnprocessableEntity
		if action.IsNotAuthenticated(result) {
			status = http.StatusUnauthorized
		}
	}
	writeJSON(w, r, status, result)
}

// isJSON reports whether the request body is JSON rather than a form post.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// bind decodes a JSON body into dst, or fills it from form values via
// fromForm. It returns false after writing a 400 when the body is unreadable.
func bind(w http.ResponseWriter, r *http.Request, dst any, fromForm func(get func(string) string)) bool {
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			writeError(w, r, http.StatusBadRequest, "Invalid request body")
			return false
		}
		return true
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid form data")
		return false
	}
	fromForm(r.PostForm.Get)
	return true
}
