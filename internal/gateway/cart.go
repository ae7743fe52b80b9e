package gateway

import (
	"context"

	"app/internal/domain/model"
)

// サーバーから取得したカートの正本スナップショット。
type CartSnapshot struct {
	Items       []model.CartLineItem
	CheckoutURL string
}

// ユーザー紐付きカートの参照結果。
type UserCart struct {
	CartID    string
	IsDeleted bool
}

// カート新規作成の入力。最初の1点を入れた状態で作られる。
type CreateCartInput struct {
	VariantID   string
	Quantity    int
	AccessToken string
}

// カートAPIの呼び出し口。実装は internal/infra/api。
type CartGateway interface {
	// POST /api/cart/create。作成されたcartIdを返す。
	Create(ctx context.Context, in CreateCartInput) (string, error)

	// POST /api/cart/add
	Add(ctx context.Context, cartID string, variantID string, quantity int, accessToken string) error

	// PUT /api/cart/update
	UpdateLine(ctx context.Context, cartID string, variantID string, quantity int) error

	// DELETE /api/cart/remove
	RemoveLine(ctx context.Context, cartID string, variantID string) error

	// GET /api/cart/{cartId}。404/400は ErrCartNotFound。
	Get(ctx context.Context, cartID string, accessToken string) (CartSnapshot, error)

	// ログイン中ユーザーのサーバー側カートを引く
	GetForUser(ctx context.Context, userID string, accessToken string) (UserCart, error)

	// POST /api/cart/buy-now。checkoutUrlを返す。
	BuyNow(ctx context.Context, variantID string, quantity int, accessToken string) (string, error)

	// GET /api/cart/checkout/{cartId}。checkoutUrlを返す。
	Checkout(ctx context.Context, cartID string) (string, error)
}
