package kvstore

import "fmt"

// ストレージキーは元のSPAと同一。名前空間は持たないフラットな文字列。
const (
	// KeyUsers は登録済みユーザーの配列。
	KeyUsers = "users"
	// KeySessionUser は現在ユーザーの {email} 射影。
	KeySessionUser = "user"
	// KeyUserProfile は現在ユーザーの完全なレコード。
	KeyUserProfile = "userProfile"
	// KeyRememberedEmail は「メールアドレスを記憶する」で保存された文字列。
	KeyRememberedEmail = "rememberedEmail"
	// KeyRecipes はレシピの配列。
	KeyRecipes = "recipes"
	// KeyLikedRecipes はライク済みレシピIDの配列（正規キー）。
	KeyLikedRecipes = "likedRecipes"
	// KeyLegacyLikedRecipes は旧実装が使っていたライクのキー。
	// 読み出しフォールバック専用で、新規書き込みは常にKeyLikedRecipesへ行う。
	KeyLegacyLikedRecipes = "likedRecipeIds"
	// KeySessions はログインセッションのマップ（sessionID → Session）。
	KeySessions = "sessions"
)

// CommentsKey はレシピごとのコメントスレッドのキーを返す。
func CommentsKey(recipeID int64) string {
	return fmt.Sprintf("comments_%d", recipeID)
}
