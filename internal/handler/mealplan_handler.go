package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/instachef/internal/mealplan"
	"github.com/hitoshi/instachef/internal/model"
)

// RecipeLister は献立プランナーが必要とするレシピ一覧インターフェース。
// recipe.Serviceの部分集合として定義する。
type RecipeLister interface {
	List(ctx context.Context) ([]model.Recipe, error)
}

// MealPlanHandler は週間献立プランナーのHTTPハンドラー。
type MealPlanHandler struct {
	recipes RecipeLister
}

// NewMealPlanHandler はMealPlanHandlerを生成する。
func NewMealPlanHandler(recipes RecipeLister) *MealPlanHandler {
	return &MealPlanHandler{recipes: recipes}
}

// mealPlanResponse は献立プランナーのAPIレスポンス。
type mealPlanResponse struct {
	Days    []string      `json:"days"`
	Times   []string      `json:"times"`
	Grid    mealplan.Grid `json:"grid"`
	Options []string      `json:"options"`
}

// GetMealPlan は空の週間グリッドとレシピ選択肢を返す。
// グリッドは毎回新規に構築され、過去の状態は反映されない。
// GET /api/mealplan
func (h *MealPlanHandler) GetMealPlan(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mealPlanResponse{
		Days:    mealplan.Days,
		Times:   mealplan.Times,
		Grid:    mealplan.Build(),
		Options: mealplan.Options(recipes),
	})
}
