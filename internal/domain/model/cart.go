package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 楽観的追加でまだサーバー未確定の明細に付ける一時ID接頭辞。
const TempLineIDPrefix = "temp-"

// カート明細。IDはサーバー採番（未確定のときは temp- 始まりの一時ID）。
// 同一アイテム判定は VariantID で行う。
type CartLineItem struct {
	ID          string          `json:"id"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`

	//画像URL（無いこともある）
	Image string `json:"image,omitempty"`

	//バリアント表示名（サイズ・色など）
	VariantTitle string `json:"variantTitle,omitempty"`

	//「同じ商品か」を判定する安定キー
	VariantID string `json:"variantId,omitempty"`
}

// サーバー未確定の一時明細かどうか。
func (l CartLineItem) IsTemporary() bool {
	return strings.HasPrefix(l.ID, TempLineIDPrefix)
}
