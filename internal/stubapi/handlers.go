package stubapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// ストアフロントが叩く全エンドポイントのハンドラ。
// レスポンスの形（camelCase/PascalCase・ネストの揺れ）は本番サーバーに合わせてある。
type Handler struct {
	store  *Store
	secret string
}

// DIコンストラクタ
func NewHandler(store *Store, secret string) *Handler {
	return &Handler{store: store, secret: secret}
}

func checkoutURL(cartID string) string {
	return "https://checkout.example.com/c/" + cartID
}

// ---- 商品 ----

type productResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Handle            string   `json:"handle"`
	VariantID         string   `json:"variantId"`
	Price             string   `json:"price"`
	Available         bool     `json:"available"`
	QuantityAvailable int      `json:"quantityAvailable"`
	Images            []string `json:"images"`
}

func toProductResponse(p stubProduct) productResponse {
	return productResponse{
		ID:                p.ID,
		Title:             p.Title,
		Handle:            p.Handle,
		VariantID:         p.VariantID,
		Price:             p.Price,
		Available:         p.Available,
		QuantityAvailable: p.QuantityAvailable,
		Images:            p.Images,
	}
}

// GET /api/products/best-sellers（生配列で返す）
func (h *Handler) BestSellers(c echo.Context) error {
	products := h.store.Products()
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		if p.Available {
			out = append(out, toProductResponse(p))
		}
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/products/new-arrivals（生配列で返す）
func (h *Handler) NewArrivals(c echo.Context) error {
	products := h.store.Products()
	out := make([]productResponse, 0, len(products))
	//新着は逆順
	for i := len(products) - 1; i >= 0; i-- {
		out = append(out, toProductResponse(products[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/storefront/products/all（data配下にネスト）
func (h *Handler) AllProducts(c echo.Context) error {
	products := h.store.Products()
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"products": out},
	})
}

// GET /api/products/search
func (h *Handler) Search(c echo.Context) error {
	query := strings.ToLower(strings.TrimSpace(c.QueryParam("query")))

	out := []productResponse{}
	for _, p := range h.store.Products() {
		if query == "" ||
			strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Handle), query) {
			out = append(out, toProductResponse(p))
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"products": out})
}

// GET /api/storefront/predictive（候補は最大3件）
func (h *Handler) Predictive(c echo.Context) error {
	query := strings.ToLower(strings.TrimSpace(c.QueryParam("query")))

	out := []productResponse{}
	for _, p := range h.store.Products() {
		if len(out) == 3 {
			break
		}
		if query != "" && strings.Contains(strings.ToLower(p.Title), query) {
			out = append(out, toProductResponse(p))
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": out})
}

// ---- カート ----

type createCartBody struct {
	VariantID   string `json:"variantId"`
	Quantity    int    `json:"quantity"`
	AccessToken string `json:"accessToken"`
}

type addToCartBody struct {
	CartID      string `json:"cartId"`
	VariantID   string `json:"variantId"`
	Quantity    int    `json:"quantity"`
	AccessToken string `json:"accessToken"`
}

type updateLineBody struct {
	CartID    string `json:"cartId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type removeLineBody struct {
	CartID    string `json:"cartId"`
	VariantID string `json:"variantId"`
}

// ログイン済みなら紐付け用のuserIDを引く。未ログインは空で続行。
func (h *Handler) userIDFromToken(token string) string {
	if token == "" {
		return ""
	}
	userID, err := parseToken(h.secret, token)
	if err != nil {
		return ""
	}
	return userID
}

// POST /api/cart/create
func (h *Handler) CreateCart(c echo.Context) error {
	var body createCartBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	//必須チェック
	if body.VariantID == "" || body.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, errorJSON("variantId and quantity are required"))
	}
	if _, ok := h.store.ProductByVariant(body.VariantID); !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("unknown variant"))
	}

	cart := h.store.CreateCart(body.VariantID, body.Quantity, h.userIDFromToken(body.AccessToken))
	return c.JSON(http.StatusOK, map[string]string{"cartId": cart.ID})
}

// POST /api/cart/add
func (h *Handler) AddToCart(c echo.Context) error {
	var body addToCartBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}
	if body.CartID == "" || body.VariantID == "" || body.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, errorJSON("cartId, variantId and quantity are required"))
	}

	if err := h.store.AddToCart(body.CartID, body.VariantID, body.Quantity, h.userIDFromToken(body.AccessToken)); err != nil {
		return c.JSON(http.StatusNotFound, errorJSON("cart not found"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// PUT /api/cart/update
func (h *Handler) UpdateCartLine(c echo.Context) error {
	var body updateLineBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}
	if body.CartID == "" || body.VariantID == "" || body.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, errorJSON("cartId, variantId and quantity are required"))
	}

	if err := h.store.UpdateCartLine(body.CartID, body.VariantID, body.Quantity); err != nil {
		return c.JSON(http.StatusNotFound, errorJSON("cart or line not found"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// DELETE /api/cart/remove
func (h *Handler) RemoveCartLine(c echo.Context) error {
	var body removeLineBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}
	if body.CartID == "" || body.VariantID == "" {
		return c.JSON(http.StatusBadRequest, errorJSON("cartId and variantId are required"))
	}

	if err := h.store.RemoveCartLine(body.CartID, body.VariantID); err != nil {
		return c.JSON(http.StatusNotFound, errorJSON("cart not found"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// GET /api/cart/:cartId
// 明細はvariantネスト形式で返す（本番サーバー互換）。
func (h *Handler) GetCart(c echo.Context) error {
	cartID := c.Param("cartId")

	cart, ok := h.store.Cart(cartID)
	if !ok {
		return c.JSON(http.StatusNotFound, errorJSON("cart not found"))
	}

	items := make([]map[string]interface{}, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		variant := map[string]interface{}{
			"id":    line.VariantID,
			"title": "Default",
		}
		if p, ok := h.store.ProductByVariant(line.VariantID); ok {
			variant["price"] = p.Price
			variant["product"] = map[string]interface{}{"title": p.Title}
			if len(p.Images) > 0 {
				variant["image"] = p.Images[0]
			}
		}
		items = append(items, map[string]interface{}{
			"id":       line.ID,
			"quantity": line.Quantity,
			"variant":  variant,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":       items,
		"checkoutUrl": checkoutURL(cart.ID),
	})
}

// GET /api/cart/user/:userId（要認証）
func (h *Handler) GetUserCart(c echo.Context) error {
	userID := c.Param("userId")
	if userID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
	}

	cartID, deleted, ok := h.store.UserCart(userID)
	if !ok {
		return c.JSON(http.StatusOK, map[string]interface{}{"cartId": "", "isDeleted": false})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"cartId": cartID, "isDeleted": deleted})
}

// POST /api/cart/buy-now（クエリ渡し）
func (h *Handler) BuyNow(c echo.Context) error {
	variantID := c.QueryParam("variantId")
	quantity, err := strconv.Atoi(c.QueryParam("quantity"))
	if variantID == "" || err != nil || quantity <= 0 {
		return c.JSON(http.StatusBadRequest, errorJSON("variantId and quantity are required"))
	}
	if _, ok := h.store.ProductByVariant(variantID); !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("unknown variant"))
	}

	cart := h.store.CreateCart(variantID, quantity, h.userIDFromToken(c.QueryParam("accessToken")))
	return c.JSON(http.StatusOK, map[string]string{"checkoutUrl": checkoutURL(cart.ID)})
}

// GET /api/cart/checkout/:cartId
func (h *Handler) Checkout(c echo.Context) error {
	cartID := c.Param("cartId")
	if _, ok := h.store.Cart(cartID); !ok {
		return c.JSON(http.StatusNotFound, errorJSON("cart not found"))
	}
	return c.JSON(http.StatusOK, map[string]string{"checkoutUrl": checkoutURL(cartID)})
}

// ---- 顧客 ----

// POST /api/storefront/customer/login（クエリ渡し）
func (h *Handler) Login(c echo.Context) error {
	email := c.QueryParam("email")
	password := c.QueryParam("password")
	if email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, errorJSON("email and password are required"))
	}

	user, err := h.store.Authenticate(email, password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
	}

	token, err := issueToken(h.secret, user.ID, user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
	}
	return c.JSON(http.StatusOK, map[string]string{"accessToken": token})
}

// POST /api/storefront/customer/create（クエリ渡し）
func (h *Handler) Register(c echo.Context) error {
	email := c.QueryParam("email")
	password := c.QueryParam("password")
	if email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, errorJSON("email and password are required"))
	}

	user, err := h.store.CreateUser(email, password, c.QueryParam("firstName"), c.QueryParam("lastName"))
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return c.JSON(http.StatusConflict, errorJSON("email already exists"))
		}
		return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
	}
	return c.JSON(http.StatusOK, map[string]string{"id": user.ID})
}

// GET /api/customer/profile（要認証・customer配下にネスト）
func (h *Handler) Profile(c echo.Context) error {
	user, ok := h.store.UserByID(currentUserID(c))
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customer": map[string]string{
			"id":          user.ID,
			"email":       user.Email,
			"firstName":   user.FirstName,
			"lastName":    user.LastName,
			"displayName": strings.TrimSpace(user.FirstName + " " + user.LastName),
		},
	})
}

// ---- 住所 ----

// 住所bodyはPascalCaseで来る。
type addressBody struct {
	AccessToken string `json:"AccessToken"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Address1    string `json:"Address1"`
	Address2    string `json:"Address2"`
	City        string `json:"City"`
	Province    string `json:"Province"`
	Zip         string `json:"Zip"`
	Country     string `json:"Country"`
	Phone       string `json:"Phone"`
}

func (b addressBody) toStub() stubAddress {
	return stubAddress{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Address1:  b.Address1,
		Address2:  b.Address2,
		City:      b.City,
		Province:  b.Province,
		Zip:       b.Zip,
		Country:   b.Country,
		Phone:     b.Phone,
	}
}

func addressJSON(a stubAddress) map[string]interface{} {
	return map[string]interface{}{
		"id":        a.ID,
		"firstName": a.FirstName,
		"lastName":  a.LastName,
		"address1":  a.Address1,
		"address2":  a.Address2,
		"city":      a.City,
		"province":  a.Province,
		"zip":       a.Zip,
		"country":   a.Country,
		"phone":     a.Phone,
		"isDefault": a.IsDefault,
	}
}

// GET /api/customer/address（要認証）
func (h *Handler) ListAddresses(c echo.Context) error {
	addresses := h.store.Addresses(currentUserID(c))
	out := make([]map[string]interface{}, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, addressJSON(a))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"addresses": out})
}

// POST /api/customer/address（要認証）
func (h *Handler) CreateAddress(c echo.Context) error {
	var body addressBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}
	//必須チェック
	if body.FirstName == "" || body.LastName == "" || body.Address1 == "" ||
		body.City == "" || body.Zip == "" || body.Country == "" {
		return c.JSON(http.StatusBadRequest, errorJSON("missing required fields"))
	}

	created := h.store.CreateAddress(currentUserID(c), body.toStub())
	return c.JSON(http.StatusOK, addressJSON(created))
}

// PUT /api/customer/address/:id（要認証）
func (h *Handler) UpdateAddress(c echo.Context) error {
	var body addressBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	if err := h.store.UpdateAddress(currentUserID(c), c.Param("id"), body.toStub()); err != nil {
		return c.JSON(http.StatusNotFound, errorJSON("address not found"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// DELETE /api/customer/address/:id（要認証）
func (h *Handler) DeleteAddress(c echo.Context) error {
	if err := h.store.DeleteAddress(currentUserID(c), c.Param("id")); err != nil {
		return c.JSON(http.StatusNotFound, errorJSON("address not found"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// ---- 注文 ----

// GET /api/Order/GetCustomerOrders（要認証）
func (h *Handler) ListOrders(c echo.Context) error {
	orders := h.store.Orders(currentUserID(c))
	out := make([]map[string]interface{}, 0, len(orders))
	for _, o := range orders {
		out = append(out, map[string]interface{}{
			"id":         o.ID,
			"number":     o.Number,
			"status":     o.Status,
			"totalPrice": o.TotalPrice,
			"createdAt":  o.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": out})
}

// ---- お気に入り ----

type wishlistAddBody struct {
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	VariantID  string `json:"variantId"`
}

// GET /api/wishlist/:customerId
// 本番サーバーはPascalCaseで返してくるので合わせる。
func (h *Handler) ListWishlist(c echo.Context) error {
	items := h.store.Wishlist(c.Param("customerId"))
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]interface{}{
			"Id":        item.ID,
			"ProductId": item.ProductID,
			"VariantId": item.VariantID,
			"Title":     item.Title,
			"Price":     item.Price,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"Items": out})
}

// POST /api/wishlist
func (h *Handler) AddWishlistItem(c echo.Context) error {
	var body wishlistAddBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}
	if body.CustomerID == "" || body.ProductID == "" {
		return c.JSON(http.StatusBadRequest, errorJSON("customerId and productId are required"))
	}

	item, err := h.store.AddWishlistItem(body.CustomerID, body.ProductID, body.VariantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, errorJSON("product not found"))
	}
	return c.JSON(http.StatusOK, map[string]string{"id": item.ID})
}

// DELETE /api/wishlist/:id
func (h *Handler) RemoveWishlistItem(c echo.Context) error {
	if err := h.store.RemoveWishlistItem(c.Param("id")); err != nil {
		return c.JSON(http.StatusNotFound, errorJSON("item not found"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
