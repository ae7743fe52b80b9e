package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文履歴の1件。一覧表示に必要な範囲だけ持つ。
type Order struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}
