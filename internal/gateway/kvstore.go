package gateway

import "context"

// 端末ローカル相当の永続KVストア。文字列のget/set/removeだけの外部能力として扱う。
// 実装は internal/infra/kvstore（memory / file / redis / postgres）。
type KVStore interface {
	// キーが無いときは ErrKeyNotFound を返す
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
