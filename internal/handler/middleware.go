package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pdf-compare/internal/domain"
	apperrors "pdf-compare/pkg/errors"
)

// TokenValidator resolves a bearer token into a Supabase user
type TokenValidator interface {
	ValidateToken(token string) (*domain.SupabaseUser, error)
}

// AuthMiddleware validates Supabase JWT tokens
type AuthMiddleware struct {
	validator TokenValidator
	logger    domain.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(validator TokenValidator, logger domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Middleware rejects requests without a valid bearer token and stores the
// user and token in the request context.
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondAppError(w, apperrors.NewUnauthorizedError("Authorization header required"))
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondAppError(w, apperrors.NewUnauthorizedError("Invalid authorization header format"))
			return
		}

		token := parts[1]
		if token == "" {
			respondAppError(w, apperrors.NewUnauthorizedError("Token required"))
			return
		}

		user, err := m.validator.ValidateToken(token)
		if err != nil {
			m.logger.Error("Token validation failed", err, "token", redact(token))
			respondAppError(w, apperrors.NewUnauthorizedError("Invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func redact(token string) string {
	if len(token) <= 10 {
		return "..."
	}
	return token[:10] + "..."
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs method, path, status and latency of every request
func RequestLogger(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}
