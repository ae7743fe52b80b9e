package gateway

import (
	"context"

	"app/internal/domain/model"
)

// お気に入り追加の入力。
type WishlistAddInput struct {
	CustomerID string
	ProductID  string
	VariantID  string
}

// お気に入りAPIの呼び出し口。レスポンスの形は揺れるのでinfra層で正規化する。
type WishlistGateway interface {
	// GET /api/wishlist/{customerId}
	List(ctx context.Context, customerID string) ([]model.WishlistItem, error)

	// POST /api/wishlist
	Add(ctx context.Context, in WishlistAddInput) error

	// DELETE /api/wishlist/{id}
	Remove(ctx context.Context, itemID string) error
}
