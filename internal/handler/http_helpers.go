package handler

import (
	"encoding/json"
	"net/http"

	"pdf-study-assistant/internal/domain"
	apperrors "pdf-study-assistant/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// requestOwner returns the ID of the authenticated user, or "" when the
// request went through without authentication
func requestOwner(r *http.Request) string {
	if user, ok := GetUserFromContext(r); ok && user != nil {
		return user.ID
	}
	return ""
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err onto an AppError and writes its status, message and
// type
func writeAppError(w http.ResponseWriter, err error) {
	appErr := apperrors.FromDomain(err)
	body := map[string]string{
		"error": appErr.Message,
		"type":  string(appErr.Type),
	}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	writeJSON(w, appErr.StatusCode, body)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
