package api

import (
	"context"
	"net/http"
	"net/url"

	"app/internal/domain/model"
)

// gateway.OrderGatewayの実装。

// GET /api/Order/GetCustomerOrders
// パスの大文字はサーバー側の歴史的事情なのでそのまま合わせる。
func (a *orderAPI) ListOrders(ctx context.Context, accessToken string) ([]model.Order, error) {
	q := url.Values{}
	q.Set("customerAccessToken", accessToken)

	data, err := a.c.doJSON(ctx, http.MethodGet, "/api/Order/GetCustomerOrders", q, nil)
	if err != nil {
		return nil, err
	}

	raw, err := arrayFrom(data, "orders", "Orders", "items", "Items")
	if err != nil {
		return nil, err
	}

	out := make([]model.Order, 0, len(raw))
	for _, m := range raw {
		out = append(out, normalizeOrder(m))
	}
	return out, nil
}
