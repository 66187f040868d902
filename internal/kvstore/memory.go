package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// MemoryStore はプロセス内マップによるStore実装。
// テストとSTORAGE_BACKEND=memoryでの起動に使用する。再起動でデータは消える。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore はMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

// Read はkey配下のJSON値をdestへデコードする。
func (s *MemoryStore) Read(ctx context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Warn("stored value is malformed, falling back to default",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false, nil
	}

	return true, nil
}

// Write はvalueのJSONエンコードでkeyの値全体を上書きする。
func (s *MemoryStore) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}

	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()

	return nil
}

// Remove はkeyを削除する。
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Ping は常に成功する。
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// SetRaw はJSONテキストをそのままkeyへ格納する。
// 破損データや旧形式データを再現するテスト専用のヘルパー。
func (s *MemoryStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
}
