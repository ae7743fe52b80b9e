package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/infra/kvstore"
	"app/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func products(ids ...string) []model.Product {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Product{ID: id, Title: id})
	}
	return out
}

func TestCatalogCache_ServesFromMemoryWithinTTL(t *testing.T) {
	ctx := context.Background()
	catalog := &CatalogGatewayMock{}
	store := kvstore.NewMemory()
	clock := newFakeClock()
	cache := usecase.NewCatalogCache(catalog, store, clock, zerolog.Nop())

	catalog.On("BestSellers", mock.Anything).Return(products("p1", "p2"), nil)

	first, err := cache.BestSellers(ctx)
	assert.NoError(t, err)
	assert.Len(t, first, 2)

	//TTL内の2回目はエンドポイントに行かない
	clock.Advance(4 * time.Minute)
	second, err := cache.BestSellers(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	catalog.AssertNumberOfCalls(t, "BestSellers", 1)

	//TTLを過ぎたら取り直す
	clock.Advance(2 * time.Minute)
	_, err = cache.BestSellers(ctx)
	assert.NoError(t, err)
	catalog.AssertNumberOfCalls(t, "BestSellers", 2)
}

func TestCatalogCache_ColdStartReadsDurableTier(t *testing.T) {
	ctx := context.Background()
	catalog := &CatalogGatewayMock{}
	store := kvstore.NewMemory()
	clock := newFakeClock()

	//前プロセスが残した永続キャッシュ
	entry := map[string]interface{}{
		"items": products("p1"),
		"ts":    clock.Now().Add(-time.Minute).UnixMilli(),
	}
	data, err := json.Marshal(entry)
	assert.NoError(t, err)
	assert.NoError(t, store.Set(ctx, "cache:newArrivals:v1", string(data)))

	cache := usecase.NewCatalogCache(catalog, store, clock, zerolog.Nop())
	items, err := cache.NewArrivals(ctx)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)

	//エンドポイントは呼ばれていない
	catalog.AssertNotCalled(t, "NewArrivals", mock.Anything)
}

func TestCatalogCache_StaleDurableEntryRefetches(t *testing.T) {
	ctx := context.Background()
	catalog := &CatalogGatewayMock{}
	store := kvstore.NewMemory()
	clock := newFakeClock()

	entry := map[string]interface{}{
		"items": products("old"),
		"ts":    clock.Now().Add(-10 * time.Minute).UnixMilli(),
	}
	data, _ := json.Marshal(entry)
	assert.NoError(t, store.Set(ctx, "cache:bestSellers:v1", string(data)))

	cache := usecase.NewCatalogCache(catalog, store, clock, zerolog.Nop())
	catalog.On("BestSellers", mock.Anything).Return(products("fresh"), nil)

	items, err := cache.BestSellers(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "fresh", items[0].ID)
}

func TestCatalogCache_WritesBothTiersTogether(t *testing.T) {
	ctx := context.Background()
	catalog := &CatalogGatewayMock{}
	store := kvstore.NewMemory()
	clock := newFakeClock()
	cache := usecase.NewCatalogCache(catalog, store, clock, zerolog.Nop())

	catalog.On("BestSellers", mock.Anything).Return(products("p1"), nil)
	_, err := cache.BestSellers(ctx)
	assert.NoError(t, err)

	//永続層にも同時に書かれている
	raw, err := store.Get(ctx, "cache:bestSellers:v1")
	assert.NoError(t, err)

	var persisted struct {
		Items []model.Product `json:"items"`
		TS    int64           `json:"ts"`
	}
	assert.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Len(t, persisted.Items, 1)
	assert.Equal(t, clock.Now().UnixMilli(), persisted.TS)
}

func TestCatalogCache_DerivesBestSellersWhenEndpointFails(t *testing.T) {
	ctx := context.Background()
	catalog := &CatalogGatewayMock{}
	store := kvstore.NewMemory()
	clock := newFakeClock()
	cache := usecase.NewCatalogCache(catalog, store, clock, zerolog.Nop())

	//スコア＝画像数＋購入可否。low=0 mid=2 top=4 tie=2 img=2
	all := []model.Product{
		{ID: "low", Available: false, Images: nil},
		{ID: "mid", Available: true, Images: []string{"a"}},
		{ID: "top", Available: true, Images: []string{"a", "b", "c"}},
		{ID: "tie", Available: true, Images: []string{"a"}},
		{ID: "img", Available: false, Images: []string{"a", "b"}},
		{ID: "p6", Available: true},
		{ID: "p7", Available: true},
		{ID: "p8"},
		{ID: "p9"},
	}
	catalog.On("BestSellers", mock.Anything).Return(nil, errors.New("500"))
	catalog.On("AllProducts", mock.Anything).Return(all, nil)

	items, err := cache.BestSellers(ctx)
	assert.NoError(t, err)

	//スコア降順・同点は元の並び・最大8件
	assert.Len(t, items, 8)
	assert.Equal(t, "top", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "tie", items[2].ID)
	assert.Equal(t, "img", items[3].ID)
}

func TestCatalogCache_DerivesNewArrivalsInOriginalOrder(t *testing.T) {
	ctx := context.Background()
	catalog := &CatalogGatewayMock{}
	cache := usecase.NewCatalogCache(catalog, kvstore.NewMemory(), newFakeClock(), zerolog.Nop())

	all := products("a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	catalog.On("NewArrivals", mock.Anything).Return(nil, errors.New("500"))
	catalog.On("AllProducts", mock.Anything).Return(all, nil)

	items, err := cache.NewArrivals(ctx)
	assert.NoError(t, err)
	assert.Len(t, items, 8)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "h", items[7].ID)
}

func TestCatalogCache_PropagatesErrorWhenEverythingFails(t *testing.T) {
	ctx := context.Background()
	catalog := &CatalogGatewayMock{}
	cache := usecase.NewCatalogCache(catalog, kvstore.NewMemory(), newFakeClock(), zerolog.Nop())

	catalog.On("BestSellers", mock.Anything).Return(nil, errors.New("500"))
	catalog.On("AllProducts", mock.Anything).Return(nil, errors.New("down"))

	_, err := cache.BestSellers(ctx)
	assert.Error(t, err)
}
