package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"app/internal/domain/model"
	"app/internal/gateway"

	"github.com/rs/zerolog"
)

// キャッシュの持ち時間。これを過ぎたら取り直す。
const catalogTTL = 5 * time.Minute

// フォールバック導出で返す件数
const fallbackListSize = 8

// 永続化に使うキー
const (
	bestSellersKey = "cache:bestSellers:v1"
	newArrivalsKey = "cache:newArrivals:v1"
)

// 永続層に置くJSONの形
type catalogEntry struct {
	Items []model.Product `json:"items"`
	TS    int64           `json:"ts"` // unix millis
}

// CatalogCache はベストセラー/新着をメモリ＋永続の2層でキャッシュする。
// 専用エンドポイントが落ちても全商品一覧から導出して必ず何か返す。
type CatalogCache struct {
	catalog gateway.CatalogGateway
	store   gateway.KVStore
	clock   Clock
	logger  zerolog.Logger

	mu  sync.Mutex
	mem map[string]catalogEntry
}

// DI
func NewCatalogCache(
	catalog gateway.CatalogGateway,
	store gateway.KVStore,
	clock Clock,
	logger zerolog.Logger,
) *CatalogCache {
	return &CatalogCache{
		catalog: catalog,
		store:   store,
		clock:   clock,
		logger:  logger,
		mem:     make(map[string]catalogEntry),
	}
}

// BestSellers はキャッシュ経由でベストセラーを返す。
func (c *CatalogCache) BestSellers(ctx context.Context) ([]model.Product, error) {
	return c.lookup(ctx, bestSellersKey, c.catalog.BestSellers, deriveBestSellers)
}

// NewArrivals はキャッシュ経由で新着を返す。
func (c *CatalogCache) NewArrivals(ctx context.Context) ([]model.Product, error) {
	return c.lookup(ctx, newArrivalsKey, c.catalog.NewArrivals, deriveNewArrivals)
}

// 照合順: メモリ→永続→専用エンドポイント→全商品から導出。最初に当たったものを返す。
func (c *CatalogCache) lookup(
	ctx context.Context,
	key string,
	fetch func(context.Context) ([]model.Product, error),
	derive func([]model.Product) []model.Product,
) ([]model.Product, error) {
	now := c.clock.Now()

	//1. メモリ
	c.mu.Lock()
	if e, ok := c.mem[key]; ok && c.fresh(e, now) {
		items := cloneProducts(e.Items)
		c.mu.Unlock()
		return items, nil
	}
	c.mu.Unlock()

	//2. 永続層（コールドスタートの読み戻し）
	if raw, err := c.store.Get(ctx, key); err == nil {
		var e catalogEntry
		if jerr := json.Unmarshal([]byte(raw), &e); jerr == nil && c.fresh(e, now) {
			c.mu.Lock()
			c.mem[key] = e
			c.mu.Unlock()
			return cloneProducts(e.Items), nil
		}
	} else if !errors.Is(err, gateway.ErrKeyNotFound) {
		c.logger.Warn().Err(err).Str("key", key).Msg("read cached catalog failed")
	}

	//3. 専用エンドポイント
	items, err := fetch(ctx)
	if err != nil {
		//4. 全商品から導出する（UIに何も出せないのが一番困る）
		c.logger.Warn().Err(err).Str("key", key).Msg("catalog endpoint failed, deriving fallback")

		all, aerr := c.catalog.AllProducts(ctx)
		if aerr != nil {
			return nil, aerr
		}
		items = derive(all)
	}

	c.write(ctx, key, items, now)
	return cloneProducts(items), nil
}

// 2層は必ず同時に書く。別々に書くとコールドスタートでズレる。
func (c *CatalogCache) write(ctx context.Context, key string, items []model.Product, now time.Time) {
	e := catalogEntry{Items: items, TS: now.UnixMilli()}

	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("marshal catalog cache failed")
		return
	}
	if err := c.store.Set(ctx, key, string(data)); err != nil {
		// 永続化できなくてもメモリ層で動き続ける
		c.logger.Warn().Err(err).Str("key", key).Msg("persist catalog cache failed")
	}
}

func (c *CatalogCache) fresh(e catalogEntry, now time.Time) bool {
	return now.Sub(time.UnixMilli(e.TS)) < catalogTTL
}

// 画像数＋購入可否のスコア降順。同点は元の並びを保つ。
func deriveBestSellers(all []model.Product) []model.Product {
	scored := cloneProducts(all)
	sort.SliceStable(scored, func(i, j int) bool {
		return bestSellerScore(scored[i]) > bestSellerScore(scored[j])
	})
	return truncateProducts(scored, fallbackListSize)
}

// 新着は並び替えず先頭から取る。
func deriveNewArrivals(all []model.Product) []model.Product {
	return truncateProducts(cloneProducts(all), fallbackListSize)
}

func bestSellerScore(p model.Product) int {
	score := len(p.Images)
	if p.Available {
		score++
	}
	return score
}

func truncateProducts(items []model.Product, n int) []model.Product {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func cloneProducts(items []model.Product) []model.Product {
	if items == nil {
		return nil
	}
	out := make([]model.Product, len(items))
	copy(out, items)
	return out
}
