package api

import (
	"context"
	"net/http"
	"net/url"

	"app/internal/domain/model"
	"app/internal/gateway"
)

// gateway.WishlistGatewayの実装。

type wishlistAddRequest struct {
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	VariantID  string `json:"variantId,omitempty"`
}

// GET /api/wishlist/{customerId}
// レスポンスは生配列・{items}・{wishlist}など複数の形を許す。
func (a *wishlistAPI) List(ctx context.Context, customerID string) ([]model.WishlistItem, error) {
	data, err := a.c.doJSON(ctx, http.MethodGet, "/api/wishlist/"+url.PathEscape(customerID), nil, nil)
	if err != nil {
		return nil, err
	}

	raw, err := arrayFrom(data, "items", "Items", "wishlist", "Wishlist")
	if err != nil {
		return nil, err
	}

	out := make([]model.WishlistItem, 0, len(raw))
	for _, m := range raw {
		out = append(out, normalizeWishlistItem(m))
	}
	return out, nil
}

// POST /api/wishlist
func (a *wishlistAPI) Add(ctx context.Context, in gateway.WishlistAddInput) error {
	_, err := a.c.doJSON(ctx, http.MethodPost, "/api/wishlist", nil, wishlistAddRequest{
		CustomerID: in.CustomerID,
		ProductID:  in.ProductID,
		VariantID:  in.VariantID,
	})
	return err
}

// DELETE /api/wishlist/{id}
func (a *wishlistAPI) Remove(ctx context.Context, itemID string) error {
	_, err := a.c.doJSON(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(itemID), nil, nil)
	return err
}
