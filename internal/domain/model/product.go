package model

import "github.com/shopspring/decimal"

// カタログ商品。リモートAPIから取得する読み取り専用の値で、
// クライアント側では絞り込み・並び替え・キャッシュのみ行う。
type Product struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`

	//購入対象バリアント
	VariantID string `json:"variantId"`

	//単価（サーバーは文字列のdecimalで返す）
	Price decimal.Decimal `json:"price"`

	//購入可能フラグ
	Available bool `json:"available"`

	//残り在庫数
	QuantityAvailable int `json:"quantityAvailable"`

	//画像URL一覧
	Images []string `json:"images"`
}
