package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/instachef/internal/identity"
	"github.com/hitoshi/instachef/internal/middleware"
	"github.com/hitoshi/instachef/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	CurrentUser(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, email string, changes identity.ProfileChanges) (*model.User, error)
}

// ProfileHandler はユーザープロフィールのHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile は現在ユーザーのプロフィールを返す。
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email, err := middleware.UserEmailFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.CurrentUser(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// UpdateProfile は現在ユーザーのプロフィールを更新する。
// 空のフィールドは変更しない。
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email, err := middleware.UserEmailFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var changes identity.ProfileChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), email, changes)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// passwordStrengthResponse はパスワード強度のAPIレスポンス。
type passwordStrengthResponse struct {
	Score int `json:"score"`
}

// PasswordStrength はパスワード強度スコア（0〜4）を返す。
// 判定は助言にとどまり、登録をブロックしない。
// GET /api/password-strength?password=xxx
func PasswordStrength(w http.ResponseWriter, r *http.Request) {
	password := r.URL.Query().Get("password")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(passwordStrengthResponse{
		Score: identity.PasswordStrength(password),
	})
}
