// Package kvstore はフラットな文字列キーとJSON値によるキーバリューストレージを提供する。
//
// 元のSPAがlocalStorageに対して行っていた読み書き契約をそのまま引き継ぐ:
// 値は常にJSONテキスト、書き込みはキー全体の上書き、読み出しは欠損・破損時に
// 呼び出し側のゼロ値へフォールバックする。スキーマバージョニングは存在しないため、
// 壊れたデータからの回復はこのパッケージの中だけで完結させ、上位層には漏らさない。
package kvstore

import "context"

// Store はキーバリューストレージの契約。
type Store interface {
	// Read はkey配下のJSON値をdestへデコードする。
	// キーが存在しない場合は (false, nil) を返し、destには触れない
	// （呼び出し側のゼロ値がそのままフォールバックになる）。
	// 値が壊れている場合もログに記録した上で (false, nil) を返す。
	// errが非nilになるのはバックエンドへの入出力が失敗した場合のみ。
	Read(ctx context.Context, key string, dest any) (bool, error)

	// Write はvalueのJSONエンコードでkeyの値全体を上書きする。
	// 部分更新やマージは行わない。read-modify-writeの順序は呼び出し側の責任。
	Write(ctx context.Context, key string, value any) error

	// Remove はkeyを削除する。存在しないキーに対しては何もしない。
	Remove(ctx context.Context, key string) error
}

// Pinger はストレージバックエンドの疎通確認インターフェース。
// ヘルスチェックエンドポイントから利用する。
type Pinger interface {
	Ping(ctx context.Context) error
}
