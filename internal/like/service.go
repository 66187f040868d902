// Package like は現在ユーザーのライク済みレシピID集合を管理する。
package like

import (
	"context"
	"fmt"

	"github.com/hitoshi/instachef/internal/kvstore"
)

// Service はライクセット。正規キー likedRecipes を所有する。
//
// 読み出しはまず正規キーを試し、正規キーが欠損または破損している場合に限り
// 旧キー likedRecipeIds を1回だけフォールバックとして読む。書き込みは常に
// 正規キーへ行い、旧キーには二度と書かない（旧キーの自動削除も行わない）。
type Service struct {
	store kvstore.Store
}

// NewService はServiceを生成する。
func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// IDs はライク済みレシピIDの一覧を返す。
func (s *Service) IDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	found, err := s.store.Read(ctx, kvstore.KeyLikedRecipes, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read liked recipes: %w", err)
	}
	if found {
		return ids, nil
	}

	// 旧データへのフォールバック
	if _, err := s.store.Read(ctx, kvstore.KeyLegacyLikedRecipes, &ids); err != nil {
		return nil, fmt.Errorf("failed to read legacy liked recipes: %w", err)
	}
	return ids, nil
}

// IsLiked は指定レシピがライク済みかどうかを返す。
func (s *Service) IsLiked(ctx context.Context, recipeID int64) (bool, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return false, err
	}

	for _, id := range ids {
		if id == recipeID {
			return true, nil
		}
	}
	return false, nil
}

// Toggle は指定レシピのライク状態を反転し、集合全体を即座に永続化する。
// 反転後の状態（ライク済みならtrue）を返す。
func (s *Service) Toggle(ctx context.Context, recipeID int64) (bool, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return false, err
	}

	liked := false
	next := make([]int64, 0, len(ids)+1)
	for _, id := range ids {
		if id == recipeID {
			liked = true
			continue
		}
		next = append(next, id)
	}
	if !liked {
		next = append(next, recipeID)
	}

	if err := s.store.Write(ctx, kvstore.KeyLikedRecipes, next); err != nil {
		return false, fmt.Errorf("failed to write liked recipes: %w", err)
	}

	return !liked, nil
}

// Remove は指定レシピを集合から取り除く。レシピ削除のカスケードで呼ばれる。
// 含まれていない場合は何も書き込まない。
func (s *Service) Remove(ctx context.Context, recipeID int64) error {
	ids, err := s.IDs(ctx)
	if err != nil {
		return err
	}

	removed := false
	next := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == recipeID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		return nil
	}

	if err := s.store.Write(ctx, kvstore.KeyLikedRecipes, next); err != nil {
		return fmt.Errorf("failed to write liked recipes: %w", err)
	}

	return nil
}
