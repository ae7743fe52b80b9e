package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"app/internal/gateway"
)

// gateway.CartGatewayの実装。

type createCartRequest struct {
	VariantID   string `json:"variantId"`
	Quantity    int    `json:"quantity"`
	AccessToken string `json:"accessToken,omitempty"`
}

type addToCartRequest struct {
	CartID      string `json:"cartId"`
	VariantID   string `json:"variantId"`
	Quantity    int    `json:"quantity"`
	AccessToken string `json:"accessToken,omitempty"`
}

type updateLineRequest struct {
	CartID    string `json:"cartId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type removeLineRequest struct {
	CartID    string `json:"cartId"`
	VariantID string `json:"variantId"`
}

// POST /api/cart/create
func (a *cartAPI) Create(ctx context.Context, in gateway.CreateCartInput) (string, error) {
	data, err := a.c.doJSON(ctx, http.MethodPost, "/api/cart/create", nil, createCartRequest{
		VariantID:   in.VariantID,
		Quantity:    in.Quantity,
		AccessToken: in.AccessToken,
	})
	if err != nil {
		return "", err
	}

	root, err := decodeObject(data)
	if err != nil {
		return "", err
	}

	id := cartIDFromCreate(root)
	if id == "" {
		return "", fmt.Errorf("create cart: no cart id in response")
	}
	return id, nil
}

// POST /api/cart/add
func (a *cartAPI) Add(ctx context.Context, cartID string, variantID string, quantity int, accessToken string) error {
	_, err := a.c.doJSON(ctx, http.MethodPost, "/api/cart/add", nil, addToCartRequest{
		CartID:      cartID,
		VariantID:   variantID,
		Quantity:    quantity,
		AccessToken: accessToken,
	})
	return err
}

// PUT /api/cart/update
func (a *cartAPI) UpdateLine(ctx context.Context, cartID string, variantID string, quantity int) error {
	_, err := a.c.doJSON(ctx, http.MethodPut, "/api/cart/update", nil, updateLineRequest{
		CartID:    cartID,
		VariantID: variantID,
		Quantity:  quantity,
	})
	return err
}

// DELETE /api/cart/remove（bodyあり）
func (a *cartAPI) RemoveLine(ctx context.Context, cartID string, variantID string) error {
	_, err := a.c.doJSON(ctx, http.MethodDelete, "/api/cart/remove", nil, removeLineRequest{
		CartID:    cartID,
		VariantID: variantID,
	})
	return err
}

// GET /api/cart/{cartId}
// 400/404は「カートが消えた」を表す論理エラーに変換する。
func (a *cartAPI) Get(ctx context.Context, cartID string, accessToken string) (gateway.CartSnapshot, error) {
	q := url.Values{}
	if accessToken != "" {
		q.Set("accessToken", accessToken)
	}

	data, err := a.c.doJSON(ctx, http.MethodGet, "/api/cart/"+url.PathEscape(cartID), q, nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Status == http.StatusNotFound || se.Status == http.StatusBadRequest) {
			return gateway.CartSnapshot{}, gateway.ErrCartNotFound
		}
		return gateway.CartSnapshot{}, err
	}

	root, err := decodeObject(data)
	if err != nil {
		return gateway.CartSnapshot{}, err
	}

	//items直下・cart配下の両方を許す
	itemsRoot := root
	if inner := pickMap(root, "cart", "Cart"); inner != nil {
		itemsRoot = inner
	}

	snap := gateway.CartSnapshot{CheckoutURL: checkoutURLFrom(itemsRoot)}
	for _, m := range toObjectSlice(pickSlice(itemsRoot, "items", "Items", "lines", "Lines")) {
		snap.Items = append(snap.Items, normalizeCartLine(m))
	}
	return snap, nil
}

// ログイン中ユーザーのサーバー側カートを引く。
func (a *cartAPI) GetForUser(ctx context.Context, userID string, accessToken string) (gateway.UserCart, error) {
	q := url.Values{}
	q.Set("accessToken", accessToken)

	data, err := a.c.doJSON(ctx, http.MethodGet, "/api/cart/user/"+url.PathEscape(userID), q, nil)
	if err != nil {
		return gateway.UserCart{}, err
	}

	root, err := decodeObject(data)
	if err != nil {
		return gateway.UserCart{}, err
	}

	return gateway.UserCart{
		CartID:    pickString(root, "cartID", "cartId", "CartID"),
		IsDeleted: pickBool(root, "isDelete", "IsDelete", "isDeleted"),
	}, nil
}

// POST /api/cart/buy-now（クエリ渡し）
func (a *cartAPI) BuyNow(ctx context.Context, variantID string, quantity int, accessToken string) (string, error) {
	q := url.Values{}
	q.Set("variantId", variantID)
	q.Set("quantity", strconv.Itoa(quantity))
	if accessToken != "" {
		q.Set("accessToken", accessToken)
	}

	data, err := a.c.doJSON(ctx, http.MethodPost, "/api/cart/buy-now", q, nil)
	if err != nil {
		return "", err
	}

	root, err := decodeObject(data)
	if err != nil {
		return "", err
	}

	u := checkoutURLFrom(root)
	if u == "" {
		return "", fmt.Errorf("buy now: no checkout url in response")
	}
	return u, nil
}

// GET /api/cart/checkout/{cartId}
func (a *cartAPI) Checkout(ctx context.Context, cartID string) (string, error) {
	data, err := a.c.doJSON(ctx, http.MethodGet, "/api/cart/checkout/"+url.PathEscape(cartID), nil, nil)
	if err != nil {
		return "", err
	}

	root, err := decodeObject(data)
	if err != nil {
		return "", err
	}

	u := checkoutURLFrom(root)
	if u == "" {
		return "", fmt.Errorf("checkout: no checkout url in response")
	}
	return u, nil
}
