package model

// 配送先住所。サーバーのbodyはPascalCaseなのでinfra層で詰め替える。
type Address struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	//番地など
	Address1 string `json:"address1"`

	//建物名など
	Address2 string `json:"address2,omitempty"`

	City     string `json:"city"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`

	//デフォルト住所か
	IsDefault bool `json:"isDefault"`
}
