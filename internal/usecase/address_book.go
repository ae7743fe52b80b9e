package usecase

import (
	"context"

	"app/internal/domain/model"
	"app/internal/gateway"
)

// usecaseがAddressValidatorInterfaceに依存する約束
type AddressValidator interface {
	ValidateAddress(ctx context.Context, in gateway.AddressInput) error
}

// AddressBook は配送先住所のCRUD。検証で落ちたら通信しない。
type AddressBook struct {
	customers gateway.CustomerGateway
	tokens    TokenSource
	validator AddressValidator
}

// DI
func NewAddressBook(
	customers gateway.CustomerGateway,
	tokens TokenSource,
	validator AddressValidator,
) *AddressBook {
	return &AddressBook{
		customers: customers,
		tokens:    tokens,
		validator: validator,
	}
}

func (b *AddressBook) List(ctx context.Context) ([]model.Address, error) {
	token := b.tokens.AccessToken()
	if token == "" {
		return nil, ErrUnauthorized
	}
	return b.customers.ListAddresses(ctx, token)
}

func (b *AddressBook) Create(ctx context.Context, in gateway.AddressInput) error {
	token := b.tokens.AccessToken()
	if token == "" {
		return ErrUnauthorized
	}
	if err := b.validator.ValidateAddress(ctx, in); err != nil {
		return ErrValidation
	}
	return b.customers.CreateAddress(ctx, token, in)
}

func (b *AddressBook) Update(ctx context.Context, addressID string, in gateway.AddressInput) error {
	token := b.tokens.AccessToken()
	if token == "" {
		return ErrUnauthorized
	}
	if addressID == "" {
		return ErrValidation
	}
	if err := b.validator.ValidateAddress(ctx, in); err != nil {
		return ErrValidation
	}
	return b.customers.UpdateAddress(ctx, token, addressID, in)
}

func (b *AddressBook) Delete(ctx context.Context, addressID string) error {
	token := b.tokens.AccessToken()
	if token == "" {
		return ErrUnauthorized
	}
	if addressID == "" {
		return ErrValidation
	}
	return b.customers.DeleteAddress(ctx, token, addressID)
}
