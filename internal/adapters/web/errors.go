package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// internalError logs the real cause and returns a generic page.
func internalError(w http.ResponseWriter, r *http.Request, cause string) {
	slog.Error("internal_error", "cause", cause, "request_id", requestIDFromContext(r.Context()))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// redirectFlash redirects with a flash message in the query string.
// kind is "success" or "error"; an empty msg redirects without one.
func redirectFlash(w http.ResponseWriter, r *http.Request, path, kind, msg string) {
	if msg != "" {
		path += "?" + url.Values{"flash_" + kind: {msg}}.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// flashFromQuery reads flash_success / flash_error set by redirectFlash.
func flashFromQuery(r *http.Request) (msg, kind string) {
	q := r.URL.Query()
	if fe := q.Get("flash_error"); fe != "" {
		return fe, "error"
	}
	if fs := q.Get("flash_success"); fs != "" {
		return fs, "success"
	}
	return "", ""
}
