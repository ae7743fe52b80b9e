package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"app/internal/domain/model"
	"app/internal/gateway"
)

// gateway.CustomerGatewayの実装。

// 住所のbodyはサーバー仕様に合わせてPascalCaseで送る。
type addressRequest struct {
	AccessToken string `json:"AccessToken,omitempty"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Address1    string `json:"Address1"`
	Address2    string `json:"Address2,omitempty"`
	City        string `json:"City"`
	Province    string `json:"Province,omitempty"`
	Zip         string `json:"Zip"`
	Country     string `json:"Country"`
	Phone       string `json:"Phone,omitempty"`
}

// POST /api/storefront/customer/login（クエリ渡し）
func (a *customerAPI) Login(ctx context.Context, email string, password string) (string, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("password", password)

	data, err := a.c.doJSON(ctx, http.MethodPost, "/api/storefront/customer/login", q, nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden) {
			return "", gateway.ErrUnauthorized
		}
		return "", err
	}

	root, err := decodeObject(data)
	if err != nil {
		return "", err
	}

	token := pickString(root, "accessToken", "AccessToken")
	if token == "" {
		return "", fmt.Errorf("login: no access token in response")
	}
	return token, nil
}

// POST /api/storefront/customer/create（クエリ渡し）
func (a *customerAPI) Register(ctx context.Context, in gateway.RegisterInput) error {
	q := url.Values{}
	q.Set("email", in.Email)
	q.Set("password", in.Password)
	q.Set("firstName", in.FirstName)
	q.Set("lastName", in.LastName)

	_, err := a.c.doJSON(ctx, http.MethodPost, "/api/storefront/customer/create", q, nil)
	return err
}

// GET /api/customer/profile
func (a *customerAPI) Profile(ctx context.Context, accessToken string) (model.Customer, error) {
	q := url.Values{}
	q.Set("accessToken", accessToken)

	data, err := a.c.doJSON(ctx, http.MethodGet, "/api/customer/profile", q, nil)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			return model.Customer{}, gateway.ErrUnauthorized
		}
		return model.Customer{}, err
	}

	root, err := decodeObject(data)
	if err != nil {
		return model.Customer{}, err
	}
	//customer配下に入っていることもある
	if inner := pickMap(root, "customer", "Customer"); inner != nil {
		root = inner
	}

	cust := model.Customer{
		ID:          pickString(root, "id", "Id", "ID"),
		DisplayName: pickString(root, "displayName", "DisplayName"),
		Email:       pickString(root, "email", "Email"),
		FirstName:   pickString(root, "firstName", "FirstName"),
		LastName:    pickString(root, "lastName", "LastName"),
	}
	if cust.DisplayName == "" {
		cust.DisplayName = cust.FirstName + " " + cust.LastName
	}
	return cust, nil
}

// GET /api/customer/address
func (a *customerAPI) ListAddresses(ctx context.Context, accessToken string) ([]model.Address, error) {
	q := url.Values{}
	q.Set("accessToken", accessToken)

	data, err := a.c.doJSON(ctx, http.MethodGet, "/api/customer/address", q, nil)
	if err != nil {
		return nil, err
	}

	raw, err := arrayFrom(data, "addresses", "Addresses", "items", "Items")
	if err != nil {
		return nil, err
	}

	out := make([]model.Address, 0, len(raw))
	for _, m := range raw {
		out = append(out, normalizeAddress(m))
	}
	return out, nil
}

// POST /api/customer/address
func (a *customerAPI) CreateAddress(ctx context.Context, accessToken string, in gateway.AddressInput) error {
	_, err := a.c.doJSON(ctx, http.MethodPost, "/api/customer/address", nil, toAddressRequest(accessToken, in))
	return err
}

// PUT /api/customer/address/{id}
func (a *customerAPI) UpdateAddress(ctx context.Context, accessToken string, addressID string, in gateway.AddressInput) error {
	_, err := a.c.doJSON(ctx, http.MethodPut, "/api/customer/address/"+url.PathEscape(addressID), nil, toAddressRequest(accessToken, in))
	return err
}

// DELETE /api/customer/address/{id}
func (a *customerAPI) DeleteAddress(ctx context.Context, accessToken string, addressID string) error {
	q := url.Values{}
	q.Set("accessToken", accessToken)

	_, err := a.c.doJSON(ctx, http.MethodDelete, "/api/customer/address/"+url.PathEscape(addressID), q, nil)
	return err
}

func toAddressRequest(accessToken string, in gateway.AddressInput) addressRequest {
	return addressRequest{
		AccessToken: accessToken,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Address1:    in.Address1,
		Address2:    in.Address2,
		City:        in.City,
		Province:    in.Province,
		Zip:         in.Zip,
		Country:     in.Country,
		Phone:       in.Phone,
	}
}
