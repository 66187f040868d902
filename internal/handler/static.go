package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// NewSPAHandler はシングルページアプリケーションの静的ファイル配信ハンドラーを返す。
// 実在するファイルはそのまま配信し、それ以外のGETリクエストはindex.htmlへ
// フォールバックする（クライアントサイドルーティングのため）。
func NewSPAHandler(staticDir string) http.Handler {
	fileServer := http.FileServer(http.Dir(staticDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// パストラバーサルを防ぐため、クリーンなパスで実在確認する
		path := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		// APIパスはフォールバックしない
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/auth/") {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	})
}
