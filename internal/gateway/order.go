package gateway

import (
	"context"

	"app/internal/domain/model"
)

// 注文履歴APIの呼び出し口。
type OrderGateway interface {
	// GET /api/Order/GetCustomerOrders
	ListOrders(ctx context.Context, accessToken string) ([]model.Order, error)
}
