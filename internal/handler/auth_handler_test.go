package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pdf-compare/internal/domain"
)

func createContextWithUser(r *http.Request, user *domain.SupabaseUser) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func TestAuthHandler_ValidateToken_Unauthorized(t *testing.T) {
	handler := NewAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/validate", nil)
	rr := httptest.NewRecorder()

	handler.ValidateToken(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "User not found in context") {
		t.Fatalf("expected error message in response, got %s", rr.Body.String())
	}
}

func TestAuthHandler_ValidateToken_OK(t *testing.T) {
	handler := NewAuthHandler()

	user := &domain.SupabaseUser{ID: "user-1", Email: "test@example.com"}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/validate", nil)
	req = createContextWithUser(req, user)

	rr := httptest.NewRecorder()
	handler.ValidateToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["ID"] != "user-1" {
		t.Fatalf("expected ID user-1, got %v", payload["ID"])
	}
}
