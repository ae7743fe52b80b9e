package usecase_test

import (
	"context"
	"sync"
	"time"

	"app/internal/domain/model"
	"app/internal/gateway"

	"github.com/stretchr/testify/mock"
)

// =====================
// Gateway mocks
// =====================

type CartGatewayMock struct{ mock.Mock }

func (m *CartGatewayMock) Create(ctx context.Context, in gateway.CreateCartInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *CartGatewayMock) Add(ctx context.Context, cartID string, variantID string, quantity int, accessToken string) error {
	args := m.Called(ctx, cartID, variantID, quantity, accessToken)
	return args.Error(0)
}

func (m *CartGatewayMock) UpdateLine(ctx context.Context, cartID string, variantID string, quantity int) error {
	args := m.Called(ctx, cartID, variantID, quantity)
	return args.Error(0)
}

func (m *CartGatewayMock) RemoveLine(ctx context.Context, cartID string, variantID string) error {
	args := m.Called(ctx, cartID, variantID)
	return args.Error(0)
}

func (m *CartGatewayMock) Get(ctx context.Context, cartID string, accessToken string) (gateway.CartSnapshot, error) {
	args := m.Called(ctx, cartID, accessToken)
	snap, _ := args.Get(0).(gateway.CartSnapshot)
	return snap, args.Error(1)
}

func (m *CartGatewayMock) GetForUser(ctx context.Context, userID string, accessToken string) (gateway.UserCart, error) {
	args := m.Called(ctx, userID, accessToken)
	uc, _ := args.Get(0).(gateway.UserCart)
	return uc, args.Error(1)
}

func (m *CartGatewayMock) BuyNow(ctx context.Context, variantID string, quantity int, accessToken string) (string, error) {
	args := m.Called(ctx, variantID, quantity, accessToken)
	return args.String(0), args.Error(1)
}

func (m *CartGatewayMock) Checkout(ctx context.Context, cartID string) (string, error) {
	args := m.Called(ctx, cartID)
	return args.String(0), args.Error(1)
}

type CatalogGatewayMock struct{ mock.Mock }

func (m *CatalogGatewayMock) BestSellers(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogGatewayMock) NewArrivals(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogGatewayMock) AllProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogGatewayMock) Search(ctx context.Context, query string) ([]model.Product, error) {
	args := m.Called(ctx, query)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogGatewayMock) Predictive(ctx context.Context, query string) ([]model.Product, error) {
	args := m.Called(ctx, query)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

type CustomerGatewayMock struct{ mock.Mock }

func (m *CustomerGatewayMock) Login(ctx context.Context, email string, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *CustomerGatewayMock) Register(ctx context.Context, in gateway.RegisterInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *CustomerGatewayMock) Profile(ctx context.Context, accessToken string) (model.Customer, error) {
	args := m.Called(ctx, accessToken)
	cust, _ := args.Get(0).(model.Customer)
	return cust, args.Error(1)
}

func (m *CustomerGatewayMock) ListAddresses(ctx context.Context, accessToken string) ([]model.Address, error) {
	args := m.Called(ctx, accessToken)
	addrs, _ := args.Get(0).([]model.Address)
	return addrs, args.Error(1)
}

func (m *CustomerGatewayMock) CreateAddress(ctx context.Context, accessToken string, in gateway.AddressInput) error {
	args := m.Called(ctx, accessToken, in)
	return args.Error(0)
}

func (m *CustomerGatewayMock) UpdateAddress(ctx context.Context, accessToken string, addressID string, in gateway.AddressInput) error {
	args := m.Called(ctx, accessToken, addressID, in)
	return args.Error(0)
}

func (m *CustomerGatewayMock) DeleteAddress(ctx context.Context, accessToken string, addressID string) error {
	args := m.Called(ctx, accessToken, addressID)
	return args.Error(0)
}

// =====================
// 時刻・トークンのフェイク
// =====================

// テストから進められる時計
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// 固定トークン
type fakeTokens struct{ token string }

func (t *fakeTokens) AccessToken() string { return t.token }

// =====================
// Validatorのフェイク
// =====================

type passValidator struct{}

func (passValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	return nil
}

func (passValidator) ValidateRegister(ctx context.Context, in gateway.RegisterInput) error {
	return nil
}

type failValidator struct{ err error }

func (v failValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	return v.err
}

func (v failValidator) ValidateRegister(ctx context.Context, in gateway.RegisterInput) error {
	return v.err
}
