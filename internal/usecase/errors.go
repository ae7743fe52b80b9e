package usecase

import (
	"errors"
	"time"
)

var (
	//400相当 入力不足
	ErrValidation = errors.New("validation error")
	//401相当 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//cartIdが必要な操作をカート無しで呼んだ
	ErrNoCart = errors.New("no cart")
)

// usecaseが時刻に依存する約束。テストで差し替える。
type Clock interface {
	Now() time.Time
}

// usecaseがアクセストークンに依存する約束。AuthSessionがこれを満たす。
type TokenSource interface {
	AccessToken() string
}
