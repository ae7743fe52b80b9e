package validator

import (
	"context"
	"strings"

	"app/internal/gateway"
	"app/internal/usecase"
)

type addressValidator struct{}

// Usecaseは interface を依存注入
func NewAddressValidator() usecase.AddressValidator {
	return &addressValidator{}
}

// 住所の入力を検証。ここで落とせばネットワークには出さない。
func (v *addressValidator) ValidateAddress(ctx context.Context, in gateway.AddressInput) error {
	// 必須チェック
	required := []string{
		in.FirstName,
		in.LastName,
		in.Address1,
		in.City,
		in.Zip,
		in.Country,
	}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return ErrInvalidInput
		}
	}

	return nil
}
