package api

import (
	"encoding/json"
	"time"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// サーバーのレスポンスはcamelCase/PascalCaseが混ざるので、ここで一括で正規化する。
// 優先順位は常に「camelCase→PascalCase」。呼び出し側はこの並びでキーを渡す。

// 最初に見つかった空でない文字列を返す。
func pickString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// 数値はfloat64/文字列のどちらでも受ける。
func pickInt(m map[string]interface{}, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t)
		case string:
			if d, err := decimal.NewFromString(t); err == nil {
				return int(d.IntPart())
			}
		}
	}
	return 0
}

func pickBool(m map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// 金額は文字列のdecimalでも数値でも受ける。
func pickDecimal(m map[string]interface{}, keys ...string) decimal.Decimal {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if d, err := decimal.NewFromString(t); err == nil {
				return d
			}
		case float64:
			return decimal.NewFromFloat(t)
		case map[string]interface{}:
			// {amount: "12.00"} 形式
			if d := pickDecimal(t, "amount", "Amount"); !d.IsZero() {
				return d
			}
		}
	}
	return decimal.Zero
}

func pickMap(m map[string]interface{}, keys ...string) map[string]interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if mm, ok := v.(map[string]interface{}); ok {
				return mm
			}
		}
	}
	return nil
}

func pickSlice(m map[string]interface{}, keys ...string) []interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.([]interface{}); ok {
				return s
			}
		}
	}
	return nil
}

// 配列そのもの、またはオブジェクト内の配列（dataの下も見る）をほどく。
func arrayFrom(data []byte, keys ...string) ([]map[string]interface{}, error) {
	var direct []interface{}
	if err := json.Unmarshal(data, &direct); err == nil {
		return toObjectSlice(direct), nil
	}

	root, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	if s := pickSlice(root, keys...); s != nil {
		return toObjectSlice(s), nil
	}
	if inner := pickMap(root, "data", "Data"); inner != nil {
		if s := pickSlice(inner, keys...); s != nil {
			return toObjectSlice(s), nil
		}
	}

	// 配列が見つからない＝0件として扱う
	return nil, nil
}

func toObjectSlice(s []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(s))
	for _, v := range s {
		if m, ok := v.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// 商品1件を正規化する。
func normalizeProduct(m map[string]interface{}) model.Product {
	p := model.Product{
		ID:                pickString(m, "id", "Id", "ID"),
		Title:             pickString(m, "title", "Title", "name", "Name"),
		Handle:            pickString(m, "handle", "Handle"),
		VariantID:         pickString(m, "variantId", "VariantId", "variantID"),
		Price:             pickDecimal(m, "price", "Price"),
		Available:         pickBool(m, "available", "Available", "availableForSale"),
		QuantityAvailable: pickInt(m, "quantityAvailable", "QuantityAvailable"),
	}

	//画像は文字列配列・オブジェクト配列の両方が来る
	for _, v := range pickSlice(m, "images", "Images") {
		switch t := v.(type) {
		case string:
			p.Images = append(p.Images, t)
		case map[string]interface{}:
			if u := pickString(t, "url", "Url", "src", "Src"); u != "" {
				p.Images = append(p.Images, u)
			}
		}
	}
	if len(p.Images) == 0 {
		if u := pickString(m, "image", "Image"); u != "" {
			p.Images = append(p.Images, u)
		}
	}

	return p
}

// カート明細1件を正規化する。バリアント情報はネストされていることがある。
func normalizeCartLine(m map[string]interface{}) model.CartLineItem {
	line := model.CartLineItem{
		ID:           pickString(m, "id", "Id", "ID", "lineId"),
		ProductName:  pickString(m, "productName", "ProductName", "title", "Title"),
		Quantity:     pickInt(m, "quantity", "Quantity", "qty"),
		Price:        pickDecimal(m, "price", "Price"),
		Image:        pickString(m, "image", "Image"),
		VariantTitle: pickString(m, "variantTitle", "VariantTitle"),
		VariantID:    pickString(m, "variantId", "VariantId", "variantID"),
	}

	if v := pickMap(m, "variant", "Variant", "merchandise"); v != nil {
		if line.VariantID == "" {
			line.VariantID = pickString(v, "id", "Id", "ID")
		}
		if line.VariantTitle == "" {
			line.VariantTitle = pickString(v, "title", "Title")
		}
		if line.Price.IsZero() {
			line.Price = pickDecimal(v, "price", "Price")
		}
		if line.Image == "" {
			line.Image = pickString(v, "image", "Image")
		}
		if line.ProductName == "" {
			if p := pickMap(v, "product", "Product"); p != nil {
				line.ProductName = pickString(p, "title", "Title", "name", "Name")
			}
		}
	}

	return line
}

// createのレスポンスからcartIdを探す。優先順位: id → cartId → cart.id → data.id。
func cartIDFromCreate(m map[string]interface{}) string {
	if id := pickString(m, "id", "Id", "ID"); id != "" {
		return id
	}
	if id := pickString(m, "cartId", "CartId", "cartID"); id != "" {
		return id
	}
	if c := pickMap(m, "cart", "Cart"); c != nil {
		if id := pickString(c, "id", "Id", "ID"); id != "" {
			return id
		}
	}
	if d := pickMap(m, "data", "Data"); d != nil {
		if id := pickString(d, "id", "Id", "ID"); id != "" {
			return id
		}
	}
	return ""
}

func checkoutURLFrom(m map[string]interface{}) string {
	return pickString(m, "checkoutUrl", "CheckoutUrl", "checkoutURL", "webUrl")
}

// 住所1件を正規化する。
func normalizeAddress(m map[string]interface{}) model.Address {
	return model.Address{
		ID:        pickString(m, "id", "Id", "ID"),
		FirstName: pickString(m, "firstName", "FirstName"),
		LastName:  pickString(m, "lastName", "LastName"),
		Address1:  pickString(m, "address1", "Address1"),
		Address2:  pickString(m, "address2", "Address2"),
		City:      pickString(m, "city", "City"),
		Province:  pickString(m, "province", "Province"),
		Zip:       pickString(m, "zip", "Zip"),
		Country:   pickString(m, "country", "Country"),
		Phone:     pickString(m, "phone", "Phone"),
		IsDefault: pickBool(m, "isDefault", "IsDefault"),
	}
}

// お気に入り1件を正規化する。
func normalizeWishlistItem(m map[string]interface{}) model.WishlistItem {
	item := model.WishlistItem{
		ID:        pickString(m, "id", "Id", "ID"),
		ProductID: pickString(m, "productId", "ProductId", "productID"),
		VariantID: pickString(m, "variantId", "VariantId"),
		Title:     pickString(m, "title", "Title", "productTitle", "ProductTitle"),
		Image:     pickString(m, "image", "Image"),
		Price:     pickDecimal(m, "price", "Price"),
	}
	if item.ProductID == "" {
		if p := pickMap(m, "product", "Product"); p != nil {
			item.ProductID = pickString(p, "id", "Id", "ID")
			if item.Title == "" {
				item.Title = pickString(p, "title", "Title")
			}
		}
	}
	return item
}

// 注文1件を正規化する。
func normalizeOrder(m map[string]interface{}) model.Order {
	o := model.Order{
		ID:         pickString(m, "id", "Id", "ID"),
		Number:     pickString(m, "number", "Number", "orderNumber", "name"),
		Status:     pickString(m, "status", "Status", "fulfillmentStatus"),
		TotalPrice: pickDecimal(m, "totalPrice", "TotalPrice", "total"),
	}
	if ts := pickString(m, "createdAt", "CreatedAt", "processedAt"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			o.CreatedAt = t
		}
	}
	return o
}
