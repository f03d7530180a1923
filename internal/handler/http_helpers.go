package handler

import (
	"encoding/json"
	"net/http"

	"pdf-compare/internal/domain"
	apperrors "pdf-compare/pkg/errors"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err onto an application error and writes it. Internal
// failures are logged and their cause is not exposed.
func writeAppError(w http.ResponseWriter, logger domain.Logger, err error) {
	appErr := apperrors.FromDomain(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "type", appErr.Type)
	}
	respondAppError(w, appErr)
}

// respondAppError writes appErr without logging it
func respondAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	body := map[string]string{"error": appErr.Message, "type": string(appErr.Type)}
	if appErr.Details != "" && appErr.StatusCode < http.StatusInternalServerError {
		body["details"] = appErr.Details
	}
	writeJSON(w, appErr.StatusCode, body)
}
