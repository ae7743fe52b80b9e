package api

import (
	"context"
	"net/http"
	"net/url"

	"app/internal/domain/model"
)

// gateway.CatalogGatewayの実装。

// GET /api/products/best-sellers
func (a *productAPI) BestSellers(ctx context.Context) ([]model.Product, error) {
	return a.fetchProducts(ctx, "/api/products/best-sellers", nil)
}

// GET /api/products/new-arrivals
func (a *productAPI) NewArrivals(ctx context.Context) ([]model.Product, error) {
	return a.fetchProducts(ctx, "/api/products/new-arrivals", nil)
}

// GET /api/storefront/products/all
func (a *productAPI) AllProducts(ctx context.Context) ([]model.Product, error) {
	return a.fetchProducts(ctx, "/api/storefront/products/all", nil)
}

// GET /api/products/search
func (a *productAPI) Search(ctx context.Context, query string) ([]model.Product, error) {
	q := url.Values{}
	q.Set("query", query)
	return a.fetchProducts(ctx, "/api/products/search", q)
}

// GET /api/storefront/predictive。落ちたら /api/products/predictive に切り替える。
func (a *productAPI) Predictive(ctx context.Context, query string) ([]model.Product, error) {
	q := url.Values{}
	q.Set("query", query)

	items, err := a.fetchProducts(ctx, "/api/storefront/predictive", q)
	if err == nil {
		return items, nil
	}

	a.c.logger.Warn().Err(err).Msg("predictive endpoint failed, falling back")
	return a.fetchProducts(ctx, "/api/products/predictive", q)
}

// 商品配列を返すエンドポイント共通の取得処理。
// 生配列・{products: []}・{data: {products: []}} のどれでも受ける。
func (a *productAPI) fetchProducts(ctx context.Context, path string, q url.Values) ([]model.Product, error) {
	data, err := a.c.doJSON(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}

	raw, err := arrayFrom(data, "products", "Products", "items", "Items", "results", "suggestions")
	if err != nil {
		return nil, err
	}

	out := make([]model.Product, 0, len(raw))
	for _, m := range raw {
		out = append(out, normalizeProduct(m))
	}
	return out, nil
}
