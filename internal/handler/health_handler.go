package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/instachef/internal/kvstore"
)

// NewHealthHandler はストレージバックエンドの疎通を確認するヘルスチェックハンドラーを返す。
// pingerがnilの場合は常に200を返す（インメモリバックエンド）。
// GET /healthz
func NewHealthHandler(pinger kvstore.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
