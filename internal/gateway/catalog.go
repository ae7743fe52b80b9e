package gateway

import (
	"context"

	"app/internal/domain/model"
)

// カタログAPIの呼び出し口。
type CatalogGateway interface {
	// GET /api/products/best-sellers
	BestSellers(ctx context.Context) ([]model.Product, error)

	// GET /api/products/new-arrivals
	NewArrivals(ctx context.Context) ([]model.Product, error)

	// GET /api/storefront/products/all（ネストされた形も来る）
	AllProducts(ctx context.Context) ([]model.Product, error)

	// GET /api/products/search
	Search(ctx context.Context, query string) ([]model.Product, error)

	// GET /api/storefront/predictive（落ちたら /api/products/predictive に切替）
	Predictive(ctx context.Context, query string) ([]model.Product, error)
}
