package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// LikeServiceInterface はライクハンドラーが必要とするサービスインターフェース。
type LikeServiceInterface interface {
	// IDs はライク済みレシピIDの一覧を返す。
	IDs(ctx context.Context) ([]int64, error)
	// IsLiked はレシピがライク済みかどうかを返す。
	IsLiked(ctx context.Context, recipeID int64) (bool, error)
	// Toggle はライク状態を反転し、反転後の状態を返す。
	Toggle(ctx context.Context, recipeID int64) (bool, error)
}

// LikeHandler はライクのHTTPハンドラー。
type LikeHandler struct {
	service LikeServiceInterface
	usage   UsageRecorder
}

// NewLikeHandler はLikeHandlerを生成する。
func NewLikeHandler(service LikeServiceInterface, usage UsageRecorder) *LikeHandler {
	return &LikeHandler{
		service: service,
		usage:   usage,
	}
}

// likeStateResponse はライク状態のAPIレスポンス。
type likeStateResponse struct {
	Liked bool `json:"liked"`
}

// ListLikes はライク済みレシピIDの一覧を返す。
// GET /api/likes
func (h *LikeHandler) ListLikes(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.IDs(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ids)
}

// GetLikeState はレシピのライク状態を返す。
// GET /api/recipes/{id}/like
func (h *LikeHandler) GetLikeState(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDFromURL(w, r)
	if !ok {
		return
	}

	liked, err := h.service.IsLiked(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(likeStateResponse{Liked: liked})
}

// ToggleLike はレシピのライク状態を反転する。
// PUT /api/recipes/{id}/like
func (h *LikeHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDFromURL(w, r)
	if !ok {
		return
	}

	liked, err := h.service.Toggle(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.usage != nil {
		h.usage.RecordLikeToggled()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(likeStateResponse{Liked: liked})
}
