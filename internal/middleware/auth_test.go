package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/patungan/backend/internal/auth"
	"github.com/patungan/backend/internal/models"
)

func TestRequireAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret-key-16b", time.Hour)
	user := models.NewUser("alice@example.com", "Alice", "hash")
	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var gotUserID, gotEmail string
	handler := RequireAuth(manager, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		gotEmail, _ = GetEmail(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic " + token,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusNoContent {
				if gotUserID != user.ID {
					t.Errorf("user id in context = %s, want %s", gotUserID, user.ID)
				}
				if gotEmail != user.Email {
					t.Errorf("email in context = %s, want %s", gotEmail, user.Email)
				}
			}
		})
	}
}
