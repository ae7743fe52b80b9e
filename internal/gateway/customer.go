package gateway

import (
	"context"

	"app/internal/domain/model"
)

// 会員登録の入力。
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// 住所作成・更新の入力。bodyはPascalCaseで送る。
type AddressInput struct {
	FirstName string
	LastName  string
	Address1  string
	Address2  string
	City      string
	Province  string
	Zip       string
	Country   string
	Phone     string
}

// 顧客API（認証・プロフィール・住所）の呼び出し口。
type CustomerGateway interface {
	// POST /api/storefront/customer/login（クエリ渡し）。accessTokenを返す。
	Login(ctx context.Context, email string, password string) (string, error)

	// POST /api/storefront/customer/create（クエリ渡し）
	Register(ctx context.Context, in RegisterInput) error

	// GET /api/customer/profile
	Profile(ctx context.Context, accessToken string) (model.Customer, error)

	// GET /api/customer/address
	ListAddresses(ctx context.Context, accessToken string) ([]model.Address, error)

	// POST /api/customer/address
	CreateAddress(ctx context.Context, accessToken string, in AddressInput) error

	// PUT /api/customer/address/{id}
	UpdateAddress(ctx context.Context, accessToken string, addressID string, in AddressInput) error

	// DELETE /api/customer/address/{id}
	DeleteAddress(ctx context.Context, accessToken string, addressID string) error
}
