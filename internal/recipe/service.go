// Package recipe はレシピのCRUDと一覧フィルタのドメインロジックを提供する。
package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/hitoshi/instachef/internal/kvstore"
	"github.com/hitoshi/instachef/internal/model"
)

// LikeRemover はレシピ削除時にライクセットから当該IDを取り除くインターフェース。
type LikeRemover interface {
	Remove(ctx context.Context, recipeID int64) error
}

// CommentRemover はレシピ削除時にコメントスレッドを破棄するインターフェース。
type CommentRemover interface {
	RemoveThread(ctx context.Context, recipeID int64) error
}

// Service はレシピストア。recipes キーを所有する。
// すべての変更操作は read-full → modify → write-full の順で行う。
type Service struct {
	store    kvstore.Store
	likes    LikeRemover
	comments CommentRemover

	// nowMillis はID採番の時刻源。テストで差し替える。
	nowMillis func() int64
}

// NewService はServiceを生成する。
func NewService(store kvstore.Store, likes LikeRemover, comments CommentRemover) *Service {
	return &Service{
		store:     store,
		likes:     likes,
		comments:  comments,
		nowMillis: func() int64 { return time.Now().UnixMilli() },
	}
}

// List は永続化された順序のままレシピ一覧を返す。
// 数値IDを持たないエントリの除外、servingsの補正、材料画像の整列といった
// 防御的な正規化だけを行い、ストレージ上のデータは変更しない。
func (s *Service) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if _, err := s.store.Read(ctx, kvstore.KeyRecipes, &recipes); err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	normalized := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.ID <= 0 {
			continue
		}
		normalized = append(normalized, normalize(r))
	}

	return normalized, nil
}

// Get は指定IDのレシピを取得する。見つからない場合はRECIPE_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Recipe, error) {
	recipes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range recipes {
		if recipes[i].ID == id {
			return &recipes[i], nil
		}
	}

	return nil, model.NewRecipeNotFoundError(id)
}

// Create は新しいIDを採番してレシピを追加し、作成されたレコードを返す。
// IDはミリ秒エポック由来のトークンで、既存IDと衝突した場合は小さな乱数で
// 摂動して再試行する（ベストエフォートであり厳密な一意性保証ではない）。
func (s *Service) Create(ctx context.Context, draft model.RecipeDraft) (*model.Recipe, error) {
	var recipes []model.Recipe
	if _, err := s.store.Read(ctx, kvstore.KeyRecipes, &recipes); err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	existing := make(map[int64]bool, len(recipes))
	for _, r := range recipes {
		existing[r.ID] = true
	}

	id := s.nowMillis()
	for tries := 0; existing[id] && tries < 8; tries++ {
		id += rand.Int63n(997) + 1
	}

	created := normalize(model.Recipe{
		ID:               id,
		Title:            draft.Title,
		Description:      draft.Description,
		Servings:         draft.Servings,
		Category:         draft.Category,
		Image:            draft.Image,
		Ingredients:      draft.Ingredients,
		IngredientImages: draft.IngredientImages,
		Steps:            draft.Steps,
		Likes:            0,
	})

	recipes = append(recipes, created)
	if err := s.store.Write(ctx, kvstore.KeyRecipes, recipes); err != nil {
		return nil, fmt.Errorf("failed to write recipes: %w", err)
	}

	slog.Info("recipe created",
		slog.Int64("recipe_id", created.ID),
		slog.String("title", created.Title),
	)

	return &created, nil
}

// Update は指定IDのレシピをその場で置き換える。IDは保持される。
// IDが存在しない場合はRECIPE_NOT_FOUNDを返し、ストレージは変更しない。
func (s *Service) Update(ctx context.Context, id int64, draft model.RecipeDraft) (*model.Recipe, error) {
	var recipes []model.Recipe
	if _, err := s.store.Read(ctx, kvstore.KeyRecipes, &recipes); err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	idx := -1
	for i := range recipes {
		if recipes[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, model.NewRecipeNotFoundError(id)
	}

	updated := normalize(model.Recipe{
		ID:               id,
		Title:            draft.Title,
		Description:      draft.Description,
		Servings:         draft.Servings,
		Category:         draft.Category,
		Image:            draft.Image,
		Ingredients:      draft.Ingredients,
		IngredientImages: draft.IngredientImages,
		Steps:            draft.Steps,
		Likes:            recipes[idx].Likes,
	})

	recipes[idx] = updated
	if err := s.store.Write(ctx, kvstore.KeyRecipes, recipes); err != nil {
		return nil, fmt.Errorf("failed to write recipes: %w", err)
	}

	return &updated, nil
}

// Delete は指定IDのレシピを取り除く。存在しないIDに対しては何もしない（冪等）。
// 削除はライクセットとコメントスレッドへカスケードする。
func (s *Service) Delete(ctx context.Context, id int64) error {
	var recipes []model.Recipe
	if _, err := s.store.Read(ctx, kvstore.KeyRecipes, &recipes); err != nil {
		return fmt.Errorf("failed to read recipes: %w", err)
	}

	remaining := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.ID != id {
			remaining = append(remaining, r)
		}
	}

	if err := s.store.Write(ctx, kvstore.KeyRecipes, remaining); err != nil {
		return fmt.Errorf("failed to write recipes: %w", err)
	}

	// 1. ライクセットから除外
	if s.likes != nil {
		if err := s.likes.Remove(ctx, id); err != nil {
			return fmt.Errorf("failed to remove like: %w", err)
		}
	}

	// 2. コメントスレッドを破棄
	if s.comments != nil {
		if err := s.comments.RemoveThread(ctx, id); err != nil {
			return fmt.Errorf("failed to remove comment thread: %w", err)
		}
	}

	return nil
}

// Filter はタイトル・説明文に対する大文字小文字を無視した部分一致と、
// カテゴリの完全一致（非空の場合のみ）をANDで組み合わせた一覧を返す。
func (s *Service) Filter(ctx context.Context, query, category string) ([]model.Recipe, error) {
	recipes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	cat := strings.ToLower(category)

	matched := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		inCat := cat == "" || strings.ToLower(r.Category) == cat
		inQuery := q == "" ||
			strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q)
		if inCat && inQuery {
			matched = append(matched, r)
		}
	}

	return matched, nil
}

// normalize はレシピ1件の防御的な補正を行う。
// servingsは1以上へ、IngredientImagesはIngredientsと同じ長さへ揃える
// （不足分は空文字列のプレースホルダ、超過分は切り詰め）。
func normalize(r model.Recipe) model.Recipe {
	if r.Servings < 1 {
		r.Servings = 1
	}

	if r.Ingredients == nil {
		r.Ingredients = []model.Ingredient{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}

	images := r.IngredientImages
	if images == nil {
		images = []string{}
	}
	switch {
	case len(images) < len(r.Ingredients):
		padded := make([]string, len(r.Ingredients))
		copy(padded, images)
		images = padded
	case len(images) > len(r.Ingredients):
		images = images[:len(r.Ingredients)]
	}
	r.IngredientImages = images

	return r
}
