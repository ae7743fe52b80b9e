package gateway

import "errors"

var (
	//カートがサーバー側に存在しない（404/400）。これだけが状態を書き換える失敗。
	ErrCartNotFound = errors.New("cart not found")

	//認証失敗（ログイン失敗・トークン無効）
	ErrUnauthorized = errors.New("unauthorized")

	//KVストアにキーが無い
	ErrKeyNotFound = errors.New("key not found")
)
