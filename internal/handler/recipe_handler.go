// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/instachef/internal/model"
)

// RecipeServiceInterface はレシピハンドラーが必要とするサービスインターフェース。
type RecipeServiceInterface interface {
	// List は全レシピを返す。
	List(ctx context.Context) ([]model.Recipe, error)
	// Get はIDでレシピを取得する。
	Get(ctx context.Context, id int64) (*model.Recipe, error)
	// Create は新しいレシピを作成する。
	Create(ctx context.Context, draft model.RecipeDraft) (*model.Recipe, error)
	// Update は既存レシピを上書きする。
	Update(ctx context.Context, id int64, draft model.RecipeDraft) (*model.Recipe, error)
	// Delete はレシピと付随データを削除する。
	Delete(ctx context.Context, id int64) error
	// Filter は検索語とカテゴリでレシピを絞り込む。
	Filter(ctx context.Context, query, category string) ([]model.Recipe, error)
}

// UsageRecorder はドメインイベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type UsageRecorder interface {
	RecordRecipeCreated()
	RecordCommentPosted()
	RecordLikeToggled()
}

// RecipeHandler はレシピ管理のHTTPハンドラー。
type RecipeHandler struct {
	service RecipeServiceInterface
	usage   UsageRecorder
}

// NewRecipeHandler はRecipeHandlerを生成する。
func NewRecipeHandler(service RecipeServiceInterface, usage UsageRecorder) *RecipeHandler {
	return &RecipeHandler{
		service: service,
		usage:   usage,
	}
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListRecipes はレシピ一覧を返す。queryまたはcategoryパラメータがある場合は絞り込む。
// GET /api/recipes?query=xxx&category=yyy
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	var (
		recipes []model.Recipe
		err     error
	)
	if query != "" || category != "" {
		recipes, err = h.service.Filter(r.Context(), query, category)
	} else {
		recipes, err = h.service.List(r.Context())
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipes)
}

// GetRecipe はレシピ詳細を取得する。
// GET /api/recipes/{id}
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDFromURL(w, r)
	if !ok {
		return
	}

	recipe, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipe)
}

// CreateRecipe は新しいレシピを作成する。
// POST /api/recipes
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var draft model.RecipeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	if strings.TrimSpace(draft.Title) == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("レシピのタイトルが空です。"))
		return
	}

	recipe, err := h.service.Create(r.Context(), draft)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.usage != nil {
		h.usage.RecordRecipeCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(recipe)
}

// UpdateRecipe は既存レシピを上書きする。
// PUT /api/recipes/{id}
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDFromURL(w, r)
	if !ok {
		return
	}

	var draft model.RecipeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	if strings.TrimSpace(draft.Title) == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("レシピのタイトルが空です。"))
		return
	}

	recipe, err := h.service.Update(r.Context(), id, draft)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipe)
}

// DeleteRecipe はレシピと付随するライク・コメントを削除する。
// DELETE /api/recipes/{id}
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// recipeIDFromURL はURLパラメータからレシピIDを取り出す。
// 解析に失敗した場合はエラーレスポンスを書き込んでfalseを返す。
func recipeIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("レシピIDが不正です。"))
		return 0, false
	}
	return id, true
}

// invalidRequestError はリクエストボディの解析失敗エラーを生成する。
func invalidRequestError() *model.APIError {
	return &model.APIError{
		Code:     model.ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeRecipeNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmptyComment:
		return http.StatusUnprocessableEntity
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidRequest, model.ErrCodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
