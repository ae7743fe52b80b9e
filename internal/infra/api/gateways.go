package api

import "app/internal/gateway"

// gatewayごとの実装型。HTTPまわりは共通のClientに寄せる。
// main.goでこれらをnewしてusecaseに注入します。

type cartAPI struct {
	c *Client
}

func NewCartAPI(c *Client) gateway.CartGateway {
	return &cartAPI{c: c}
}

type productAPI struct {
	c *Client
}

func NewProductAPI(c *Client) gateway.CatalogGateway {
	return &productAPI{c: c}
}

type customerAPI struct {
	c *Client
}

func NewCustomerAPI(c *Client) gateway.CustomerGateway {
	return &customerAPI{c: c}
}

type orderAPI struct {
	c *Client
}

func NewOrderAPI(c *Client) gateway.OrderGateway {
	return &orderAPI{c: c}
}

type wishlistAPI struct {
	c *Client
}

func NewWishlistAPI(c *Client) gateway.WishlistGateway {
	return &wishlistAPI{c: c}
}
