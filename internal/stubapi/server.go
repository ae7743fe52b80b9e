package stubapi

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はストアフロント開発用のスタブコマースAPIを組み立てる。
// httptest.NewServer(e)でそのままE2Eにも使える。
func New(store *Store, secret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	h := NewHandler(store, secret)
	auth := AuthToken(secret)

	//商品
	e.GET("/api/products/best-sellers", h.BestSellers)
	e.GET("/api/products/new-arrivals", h.NewArrivals)
	e.GET("/api/products/search", h.Search)
	e.GET("/api/storefront/products/all", h.AllProducts)
	e.GET("/api/storefront/predictive", h.Predictive)
	e.GET("/api/products/predictive", h.Predictive)

	//カート
	e.POST("/api/cart/create", h.CreateCart)
	e.POST("/api/cart/add", h.AddToCart)
	e.PUT("/api/cart/update", h.UpdateCartLine)
	e.DELETE("/api/cart/remove", h.RemoveCartLine)
	e.POST("/api/cart/buy-now", h.BuyNow)
	e.GET("/api/cart/checkout/:cartId", h.Checkout)
	e.GET("/api/cart/user/:userId", h.GetUserCart, auth)
	e.GET("/api/cart/:cartId", h.GetCart)

	//顧客
	e.POST("/api/storefront/customer/login", h.Login)
	e.POST("/api/storefront/customer/create", h.Register)
	e.GET("/api/customer/profile", h.Profile, auth)
	e.GET("/api/customer/address", h.ListAddresses, auth)
	e.POST("/api/customer/address", h.CreateAddress, auth)
	e.PUT("/api/customer/address/:id", h.UpdateAddress, auth)
	e.DELETE("/api/customer/address/:id", h.DeleteAddress, auth)

	//注文
	e.GET("/api/Order/GetCustomerOrders", h.ListOrders, auth)

	//お気に入り
	e.GET("/api/wishlist/:customerId", h.ListWishlist)
	e.POST("/api/wishlist", h.AddWishlistItem)
	e.DELETE("/api/wishlist/:id", h.RemoveWishlistItem)

	return e
}
