package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/instachef/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// List はレシピのコメントスレッドを返す。
	List(ctx context.Context, recipeID int64) ([]model.Comment, error)
	// Post はコメントを投稿する。空白のみの本文はEMPTY_COMMENTで拒否する。
	Post(ctx context.Context, recipeID int64, text string) (*model.Comment, error)
	// Delete は位置指定でコメントを削除する。
	Delete(ctx context.Context, recipeID int64, index int) error
}

// CommentHandler はコメントスレッドのHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
	usage   UsageRecorder
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface, usage UsageRecorder) *CommentHandler {
	return &CommentHandler{
		service: service,
		usage:   usage,
	}
}

// postCommentRequest はコメント投稿リクエストのボディ。
type postCommentRequest struct {
	Content string `json:"content"`
}

// ListComments はレシピのコメントスレッドを返す。
// GET /api/recipes/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDFromURL(w, r)
	if !ok {
		return
	}

	comments, err := h.service.List(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comments)
}

// PostComment はコメントを投稿する。
// POST /api/recipes/{id}/comments
func (h *CommentHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDFromURL(w, r)
	if !ok {
		return
	}

	var req postCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	comment, err := h.service.Post(r.Context(), id, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.usage != nil {
		h.usage.RecordCommentPosted()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

// DeleteComment は位置指定でコメントを削除する。
// DELETE /api/recipes/{id}/comments/{index}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDFromURL(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("コメントの位置が不正です。"))
		return
	}

	if err := h.service.Delete(r.Context(), id, index); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
