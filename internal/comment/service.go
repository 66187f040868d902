// Package comment はレシピごとのコメントスレッドを管理する。
package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hitoshi/instachef/internal/kvstore"
	"github.com/hitoshi/instachef/internal/model"
)

// dateLayout はコメント作成時刻の表示フォーマット。
// 元のSPAの toLocaleString と同様、日付と時刻を人が読む形で整形する。
const dateLayout = "02/01/2006 15:04:05"

// Sanitizer はコメント本文のHTMLサニタイズインターフェース。
// security.CommentSanitizerの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Service はコメントスレッドストア。comments_<recipeId> のキー群を所有する。
type Service struct {
	store     kvstore.Store
	sanitizer Sanitizer

	// now はコメント日時の時刻源。テストで差し替える。
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(store kvstore.Store, sanitizer Sanitizer) *Service {
	return &Service{
		store:     store,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// List は指定レシピのコメントを投稿順で返す。スレッドが無ければ空を返す。
func (s *Service) List(ctx context.Context, recipeID int64) ([]model.Comment, error) {
	var comments []model.Comment
	if _, err := s.store.Read(ctx, kvstore.CommentsKey(recipeID), &comments); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// Post はトリム済み本文のコメントを末尾に追加して永続化する。
// トリム後に空になる本文はEMPTY_COMMENTで拒否し、スレッドは変更しない。
// 本文は保存前にサニタイズし、サニタイズで空になった場合も同様に拒否する。
func (s *Service) Post(ctx context.Context, recipeID int64, text string) (*model.Comment, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil, model.NewEmptyCommentError()
	}

	if s.sanitizer != nil {
		// サニタイズで全タグが除去されると空文字列になりうるため再チェックする
		content = strings.TrimSpace(s.sanitizer.Sanitize(content))
		if content == "" {
			return nil, model.NewEmptyCommentError()
		}
	}

	comments, err := s.List(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	created := model.Comment{
		Content: content,
		Date:    s.now().Format(dateLayout),
	}

	comments = append(comments, created)
	if err := s.store.Write(ctx, kvstore.CommentsKey(recipeID), comments); err != nil {
		return nil, fmt.Errorf("failed to write comments: %w", err)
	}

	return &created, nil
}

// Delete は位置indexのコメントを取り除く。範囲外のindexは何もしない。
func (s *Service) Delete(ctx context.Context, recipeID int64, index int) error {
	comments, err := s.List(ctx, recipeID)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(comments) {
		return nil
	}

	comments = append(comments[:index], comments[index+1:]...)
	if err := s.store.Write(ctx, kvstore.CommentsKey(recipeID), comments); err != nil {
		return fmt.Errorf("failed to write comments: %w", err)
	}

	return nil
}

// RemoveThread はスレッド全体のキーを削除する。レシピ削除のカスケードで呼ばれる。
func (s *Service) RemoveThread(ctx context.Context, recipeID int64) error {
	if err := s.store.Remove(ctx, kvstore.CommentsKey(recipeID)); err != nil {
		return fmt.Errorf("failed to remove comment thread: %w", err)
	}
	return nil
}
