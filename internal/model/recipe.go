// Package model はドメインモデルを定義する。
package model

// カテゴリは小さなオープンな列挙。空文字列は「未分類」を意味する。
const (
	CategoryEntree  = "entrée"
	CategoryPlat    = "plat"
	CategoryDessert = "dessert"
)

// Ingredient は材料1件を表す。
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Recipe はレシピ1件を表す。recipes キー配下に配列として永続化される。
//
// IngredientImages は Ingredients と位置で対応する（空文字列はプレースホルダ）。
// いかなる変更操作の後も len(IngredientImages) == len(Ingredients) を維持する。
//
// Likes は旧実装のカウンタで、ライクセット（likedRecipes キー）に置き換えられた。
// 保存データとの互換のためフィールドは残すが、読み書きの対象にはしない。
type Recipe struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Servings         int          `json:"servings"`
	Category         string       `json:"category"`
	Image            string       `json:"image,omitempty"`
	Ingredients      []Ingredient `json:"ingredients"`
	IngredientImages []string     `json:"ingredientImages"`
	Steps            []string     `json:"steps"`
	Likes            int          `json:"likes"`
}

// RecipeDraft はレシピの作成・更新入力を表す。IDはストア側で採番される。
type RecipeDraft struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Servings         int          `json:"servings"`
	Category         string       `json:"category"`
	Image            string       `json:"image,omitempty"`
	Ingredients      []Ingredient `json:"ingredients"`
	IngredientImages []string     `json:"ingredientImages"`
	Steps            []string     `json:"steps"`
}
