package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"app/internal/domain/model"
	"app/internal/gateway"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// 永続化に使うキー
const cartIDKey = "cartId"

// refreshの連打をまとめる間隔。楽観更新→refreshが続けて飛んでも通信は1回で済む。
const refreshDebounce = 400 * time.Millisecond

// サーバー確定前の明細に出す仮の表示名
const pendingProductName = "(pending)"

// CartEngine は「今カートに何が入っているか」の唯一の正。
// ローカルは楽観更新で即時に書き換え、サーバーのrefreshで全置換して整合させる。
type CartEngine struct {
	carts  gateway.CartGateway
	store  gateway.KVStore
	tokens TokenSource
	clock  Clock
	logger zerolog.Logger

	mu          sync.Mutex
	initialized bool
	closed      bool
	loading     bool
	cartID      string
	items       []model.CartLineItem
	checkoutURL string
	lastRefresh time.Time
}

// DI
// tokensはnil可（未ログイン運用）。
func NewCartEngine(
	carts gateway.CartGateway,
	store gateway.KVStore,
	tokens TokenSource,
	clock Clock,
	logger zerolog.Logger,
) *CartEngine {
	return &CartEngine{
		carts:  carts,
		store:  store,
		tokens: tokens,
		clock:  clock,
		logger: logger,
	}
}

// 楽観的追加の入力。表示系は任意（refreshで正本に置き換わる）。
type OptimisticAddInput struct {
	VariantID    string
	Quantity     int
	ProductName  string
	Price        decimal.Decimal
	Image        string
	VariantTitle string
}

// Init は永続化済みのcartIdを1回だけ読み込む。
// ★ここを通る前にcartIdへ反応してはいけない（起動直後の誤クリア防止）。
func (e *CartEngine) Init(ctx context.Context) {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return
	}
	e.initialized = true
	e.mu.Unlock()

	v, err := e.store.Get(ctx, cartIDKey)
	if err != nil {
		if !errors.Is(err, gateway.ErrKeyNotFound) {
			// 読めなくても起動は続ける（このセッションはカート無しから）
			e.logger.Warn().Err(err).Msg("load persisted cart id failed")
		}
		return
	}
	if v == "" {
		return
	}

	e.mu.Lock()
	e.cartID = v
	e.mu.Unlock()

	e.RefreshCart(ctx, "")
}

// SetCartID はメモリと永続層のcartIdを更新する。
// 空にするとローカル状態も消す。非空にするとrefreshが走る。
// ストレージ失敗はログのみ（セッション内はメモリのidが正）。
func (e *CartEngine) SetCartID(ctx context.Context, id string) {
	e.mu.Lock()
	e.cartID = id
	if id == "" {
		e.items = nil
		e.checkoutURL = ""
	}
	e.mu.Unlock()

	if id == "" {
		if err := e.store.Delete(ctx, cartIDKey); err != nil && !errors.Is(err, gateway.ErrKeyNotFound) {
			e.logger.Warn().Err(err).Msg("delete persisted cart id failed")
		}
		return
	}

	if err := e.store.Set(ctx, cartIDKey, id); err != nil {
		e.logger.Warn().Err(err).Str("cart_id", id).Msg("persist cart id failed")
	}
	e.RefreshCart(ctx, "")
}

// RefreshCart はサーバーの正本でローカルを全置換する。
// id未指定かつカート無しは「空カート」として何もしない。
// 前回から400ms以内の呼び出しは落とす。
// not found のときだけ状態を消す（自己修復）。それ以外の失敗は現状維持。
func (e *CartEngine) RefreshCart(ctx context.Context, specificID string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	id := specificID
	if id == "" {
		id = e.cartID
	}
	if id == "" {
		e.mu.Unlock()
		return
	}

	now := e.clock.Now()
	if !e.lastRefresh.IsZero() && now.Sub(e.lastRefresh) < refreshDebounce {
		e.mu.Unlock()
		return
	}
	e.lastRefresh = now
	e.loading = true
	e.mu.Unlock()

	snap, err := e.carts.Get(ctx, id, e.tokenOf())

	e.mu.Lock()
	e.loading = false
	if e.closed {
		// unmount後に届いた結果は捨てる
		e.mu.Unlock()
		return
	}

	if err == nil {
		e.items = snap.Items
		e.checkoutURL = snap.CheckoutURL
		e.mu.Unlock()
		return
	}

	if errors.Is(err, gateway.ErrCartNotFound) {
		//消えたカートのidを持ち続けても仕方ないので捨てる
		e.cartID = ""
		e.items = nil
		e.checkoutURL = ""
		e.mu.Unlock()

		if derr := e.store.Delete(ctx, cartIDKey); derr != nil && !errors.Is(derr, gateway.ErrKeyNotFound) {
			e.logger.Warn().Err(derr).Msg("delete stale cart id failed")
		}
		return
	}

	e.mu.Unlock()
	// 一時的な失敗。古い状態のままにしておくほうが空にするよりまし
	e.logger.Warn().Err(err).Str("cart_id", id).Msg("refresh cart failed")
}

// AddItemOptimistic は同じVariantIDがあれば数量加算、無ければ一時IDで末尾追加。
// サーバーには触らない。
func (e *CartEngine) AddItemOptimistic(in OptimisticAddInput) {
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if in.VariantID != "" {
		for i := range e.items {
			if e.items[i].VariantID == in.VariantID {
				e.items[i].Quantity += qty
				return
			}
		}
	}

	name := in.ProductName
	if name == "" {
		name = pendingProductName
	}

	e.items = append(e.items, model.CartLineItem{
		ID:           fmt.Sprintf("%s%d", model.TempLineIDPrefix, e.clock.Now().UnixNano()),
		ProductName:  name,
		Quantity:     qty,
		Price:        in.Price,
		Image:        in.Image,
		VariantTitle: in.VariantTitle,
		VariantID:    in.VariantID,
	})
}

// UpdateLineItemOptimistic は対象明細の数量だけを書き換える。
func (e *CartEngine) UpdateLineItemOptimistic(lineID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == lineID {
			e.items[i].Quantity = quantity
			return
		}
	}
}

// RemoveLineItemOptimistic は対象明細をローカルから外す。
func (e *CartEngine) RemoveLineItemOptimistic(lineID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.items[:0]
	for _, it := range e.items {
		if it.ID != lineID {
			kept = append(kept, it)
		}
	}
	e.items = kept
}

// RevertOptimisticUpdate は事前に取ったスナップショットへ巻き戻す。
// 確定のサーバー呼び出しが失敗したときに、再取得なしで取り消すために使う。
func (e *CartEngine) RevertOptimisticUpdate(snapshot []model.CartLineItem) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = cloneLines(snapshot)
}

// Snapshot は現在の明細のコピーを返す。
func (e *CartEngine) Snapshot() []model.CartLineItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	return cloneLines(e.items)
}

// Items はSnapshotの別名（読み取り用途の意図を名前で分けている）。
func (e *CartEngine) Items() []model.CartLineItem {
	return e.Snapshot()
}

// Count は数量の合計。常に導出し、別持ちはしない。
func (e *CartEngine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0
	for _, it := range e.items {
		total += it.Quantity
	}
	return total
}

func (e *CartEngine) CartID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cartID
}

func (e *CartEngine) CheckoutURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkoutURL
}

func (e *CartEngine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// OnUserAuthenticated はログイン済みユーザーのサーバー側カートを引き、
// 削除済みでなく今のidと違うときだけ乗り換える。
// 戻ってきたユーザーのカートを、端末に残った匿名カートより優先するための処理。
func (e *CartEngine) OnUserAuthenticated(ctx context.Context, userID string) {
	token := e.tokenOf()
	if userID == "" || token == "" {
		return
	}

	uc, err := e.carts.GetForUser(ctx, userID, token)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("lookup user cart failed")
		return
	}
	if uc.CartID == "" || uc.IsDeleted {
		return
	}

	e.mu.Lock()
	same := uc.CartID == e.cartID
	e.mu.Unlock()
	if same {
		return
	}

	e.SetCartID(ctx, uc.CartID)
}

// Close 以降はin-flightのrefresh結果を反映しない。
func (e *CartEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

// ---- 楽観更新→確定→失敗なら巻き戻し、までを一通り行うヘルパー ----

type AddToCartInput struct {
	VariantID    string
	Quantity     int
	ProductName  string
	Price        decimal.Decimal
	Image        string
	VariantTitle string
}

// AddToCart はカートが無ければ作成から行う。
func (e *CartEngine) AddToCart(ctx context.Context, in AddToCartInput) error {
	if in.VariantID == "" {
		return ErrValidation
	}
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}

	prev := e.Snapshot()
	e.AddItemOptimistic(OptimisticAddInput{
		VariantID:    in.VariantID,
		Quantity:     qty,
		ProductName:  in.ProductName,
		Price:        in.Price,
		Image:        in.Image,
		VariantTitle: in.VariantTitle,
	})

	e.mu.Lock()
	id := e.cartID
	e.mu.Unlock()

	if id == "" {
		//最初の追加でカートを作る
		newID, err := e.carts.Create(ctx, gateway.CreateCartInput{
			VariantID:   in.VariantID,
			Quantity:    qty,
			AccessToken: e.tokenOf(),
		})
		if err != nil {
			e.RevertOptimisticUpdate(prev)
			return err
		}
		e.SetCartID(ctx, newID)
		return nil
	}

	if err := e.carts.Add(ctx, id, in.VariantID, qty, e.tokenOf()); err != nil {
		e.RevertOptimisticUpdate(prev)
		return err
	}

	e.RefreshCart(ctx, "")
	return nil
}

// ChangeQuantity は明細の数量変更を楽観更新してからサーバーに確定させる。
func (e *CartEngine) ChangeQuantity(ctx context.Context, lineID string, variantID string, quantity int) error {
	if quantity < 1 {
		return ErrValidation
	}

	e.mu.Lock()
	id := e.cartID
	e.mu.Unlock()
	if id == "" {
		return ErrNoCart
	}

	prev := e.Snapshot()
	e.UpdateLineItemOptimistic(lineID, quantity)

	if err := e.carts.UpdateLine(ctx, id, variantID, quantity); err != nil {
		e.RevertOptimisticUpdate(prev)
		return err
	}

	e.RefreshCart(ctx, "")
	return nil
}

// RemoveLine は明細削除を楽観更新してからサーバーに確定させる。
func (e *CartEngine) RemoveLine(ctx context.Context, lineID string, variantID string) error {
	e.mu.Lock()
	id := e.cartID
	e.mu.Unlock()
	if id == "" {
		return ErrNoCart
	}

	prev := e.Snapshot()
	e.RemoveLineItemOptimistic(lineID)

	if err := e.carts.RemoveLine(ctx, id, variantID); err != nil {
		e.RevertOptimisticUpdate(prev)
		return err
	}

	e.RefreshCart(ctx, "")
	return nil
}

// BuyNow はカートを経由しない即時購入。checkoutUrlを返す。
func (e *CartEngine) BuyNow(ctx context.Context, variantID string, quantity int) (string, error) {
	if variantID == "" {
		return "", ErrValidation
	}
	if quantity < 1 {
		quantity = 1
	}
	return e.carts.BuyNow(ctx, variantID, quantity, e.tokenOf())
}

// Checkout はホスト型チェックアウトのURLを取得して保持する。
func (e *CartEngine) Checkout(ctx context.Context) (string, error) {
	e.mu.Lock()
	id := e.cartID
	e.mu.Unlock()
	if id == "" {
		return "", ErrNoCart
	}

	u, err := e.carts.Checkout(ctx, id)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	e.checkoutURL = u
	e.mu.Unlock()
	return u, nil
}

func (e *CartEngine) tokenOf() string {
	if e.tokens == nil {
		return ""
	}
	return e.tokens.AccessToken()
}

func cloneLines(items []model.CartLineItem) []model.CartLineItem {
	if items == nil {
		return nil
	}
	out := make([]model.CartLineItem, len(items))
	copy(out, items)
	return out
}
