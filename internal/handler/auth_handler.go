package handler

import (
	"net/http"

	apperrors "pdf-compare/pkg/errors"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct{}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// ValidateToken echoes the user resolved by the auth middleware
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		respondAppError(w, apperrors.NewUnauthorizedError("User not found in context"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
