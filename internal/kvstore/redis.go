package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisStore はRedisを使用したStore実装。
// 値はJSONテキストの文字列としてそのまま保持する。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore は指定アドレスへのRedisクライアントを構築してRedisStoreを生成する。
// passwordは認証なしの場合は空文字列を渡す。
func NewRedisStore(addr, password string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &RedisStore{client: client}
}

// NewRedisStoreWithClient は既存のクライアントからRedisStoreを生成する。テスト用。
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Read はkey配下のJSON値をdestへデコードする。
func (s *RedisStore) Read(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read key %q: %w", key, err)
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

// Write はvalueのJSONエンコードでkeyの値全体を上書きする。有効期限は設定しない。
func (s *RedisStore) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}

	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Remove はkeyを削除する。
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Ping はRedisへの疎通を確認する。
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close はクライアントを閉じる。
func (s *RedisStore) Close() error {
	return s.client.Close()
}
