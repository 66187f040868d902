package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/instachef/internal/identity"
	"github.com/hitoshi/instachef/internal/middleware"
	"github.com/hitoshi/instachef/internal/model"
)

// mockProfileService はProfileServiceInterfaceのモック実装。
type mockProfileService struct {
	currentUserFn   func(ctx context.Context, email string) (*model.User, error)
	updateProfileFn func(ctx context.Context, email string, changes identity.ProfileChanges) (*model.User, error)
}

func (m *mockProfileService) CurrentUser(ctx context.Context, email string) (*model.User, error) {
	return m.currentUserFn(ctx, email)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, email string, changes identity.ProfileChanges) (*model.User, error) {
	return m.updateProfileFn(ctx, email, changes)
}

func TestProfileHandler_GetProfile_ReturnsCurrentUser(t *testing.T) {
	service := &mockProfileService{
		currentUserFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Firstname: "Alice", Email: email}, nil
		},
	}

	h := NewProfileHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req = req.WithContext(middleware.ContextWithUserEmail(req.Context(), "alice@example.com"))
	w := httptest.NewRecorder()

	h.GetProfile(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var got userResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "alice@example.com")
	}
}

func TestProfileHandler_GetProfile_NoSession_Returns401(t *testing.T) {
	service := &mockProfileService{}

	h := NewProfileHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()

	h.GetProfile(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestProfileHandler_UpdateProfile_PassesChangesToService(t *testing.T) {
	var gotChanges identity.ProfileChanges
	service := &mockProfileService{
		updateProfileFn: func(ctx context.Context, email string, changes identity.ProfileChanges) (*model.User, error) {
			gotChanges = changes
			return &model.User{Firstname: changes.Firstname, Email: email}, nil
		},
	}

	h := NewProfileHandler(service)

	body, _ := json.Marshal(identity.ProfileChanges{Firstname: "Alicia"})

	req := httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewReader(body))
	req = req.WithContext(middleware.ContextWithUserEmail(req.Context(), "alice@example.com"))
	w := httptest.NewRecorder()

	h.UpdateProfile(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if gotChanges.Firstname != "Alicia" {
		t.Errorf("firstname = %q, want %q", gotChanges.Firstname, "Alicia")
	}
}

func TestProfileHandler_UpdateProfile_UserNotFound_Returns404(t *testing.T) {
	service := &mockProfileService{
		updateProfileFn: func(ctx context.Context, email string, changes identity.ProfileChanges) (*model.User, error) {
			return nil, model.NewUserNotFoundError()
		},
	}

	h := NewProfileHandler(service)

	body, _ := json.Marshal(identity.ProfileChanges{Firstname: "X"})

	req := httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewReader(body))
	req = req.WithContext(middleware.ContextWithUserEmail(req.Context(), "ghost@example.com"))
	w := httptest.NewRecorder()

	h.UpdateProfile(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

func TestPasswordStrength_ReturnsScore(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     int
	}{
		{"empty", "", 0},
		{"strong", "ABcdefgh12345!", 4},
		{"length only", "abcdefgh", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/password-strength?password="+tt.password, nil)
			w := httptest.NewRecorder()

			PasswordStrength(w, req)

			if w.Result().StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
			}

			var got passwordStrengthResponse
			if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if got.Score != tt.want {
				t.Errorf("score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}
