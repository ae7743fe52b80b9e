package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"app/internal/domain/model"
	"app/internal/gateway"
	"app/internal/infra/kvstore"
	"app/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthSession_Login_AdoptsAndPersistsPair(t *testing.T) {
	ctx := context.Background()
	customers := &CustomerGatewayMock{}
	store := kvstore.NewMemory()
	session := usecase.NewAuthSession(customers, store, passValidator{}, zerolog.Nop())

	cust := model.Customer{ID: "user-1", Email: "demo@example.com", DisplayName: "Demo Taro"}
	customers.On("Login", mock.Anything, "demo@example.com", "password123").Return("tok-1", nil)
	customers.On("Profile", mock.Anything, "tok-1").Return(cust, nil)

	got, err := session.Login(ctx, "demo@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, cust, got)

	current, ok := session.Current()
	assert.True(t, ok)
	assert.Equal(t, "user-1", current.ID)
	assert.Equal(t, "tok-1", session.AccessToken())

	//tokenとuserの両方が永続化されている
	token, err := store.Get(ctx, "accessToken")
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	rawUser, err := store.Get(ctx, "user")
	assert.NoError(t, err)
	var persisted model.Customer
	assert.NoError(t, json.Unmarshal([]byte(rawUser), &persisted))
	assert.Equal(t, "demo@example.com", persisted.Email)
}

func TestAuthSession_Login_ValidationFailureSkipsNetwork(t *testing.T) {
	ctx := context.Background()
	customers := &CustomerGatewayMock{}
	session := usecase.NewAuthSession(customers, kvstore.NewMemory(), failValidator{err: errors.New("bad")}, zerolog.Nop())

	_, err := session.Login(ctx, "not-an-email", "pw")
	assert.ErrorIs(t, err, usecase.ErrValidation)
	customers.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthSession_Login_WrongCredentials(t *testing.T) {
	ctx := context.Background()
	customers := &CustomerGatewayMock{}
	session := usecase.NewAuthSession(customers, kvstore.NewMemory(), passValidator{}, zerolog.Nop())

	customers.On("Login", mock.Anything, "demo@example.com", "wrong").Return("", gateway.ErrUnauthorized)

	_, err := session.Login(ctx, "demo@example.com", "wrong")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	_, ok := session.Current()
	assert.False(t, ok)
	assert.Equal(t, "", session.AccessToken())
}

func TestAuthSession_Restore_RequiresBothKeys(t *testing.T) {
	ctx := context.Background()
	customers := &CustomerGatewayMock{}

	//tokenだけ残っている（userが欠けた片割れ）
	store := kvstore.NewMemory()
	assert.NoError(t, store.Set(ctx, "accessToken", "tok-1"))

	session := usecase.NewAuthSession(customers, store, passValidator{}, zerolog.Nop())
	_, ok := session.Restore(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", session.AccessToken())
}

func TestAuthSession_Restore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	customers := &CustomerGatewayMock{}
	store := kvstore.NewMemory()

	cust := model.Customer{ID: "user-1", Email: "demo@example.com"}
	data, _ := json.Marshal(cust)
	assert.NoError(t, store.Set(ctx, "accessToken", "tok-1"))
	assert.NoError(t, store.Set(ctx, "user", string(data)))

	session := usecase.NewAuthSession(customers, store, passValidator{}, zerolog.Nop())
	restored, ok := session.Restore(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", restored.ID)
	assert.Equal(t, "tok-1", session.AccessToken())
}

func TestAuthSession_Restore_BrokenUserJSON(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	assert.NoError(t, store.Set(ctx, "accessToken", "tok-1"))
	assert.NoError(t, store.Set(ctx, "user", "{not json"))

	session := usecase.NewAuthSession(&CustomerGatewayMock{}, store, passValidator{}, zerolog.Nop())
	_, ok := session.Restore(ctx)
	assert.False(t, ok)
}

func TestAuthSession_Logout_ClearsMemoryAndStorage(t *testing.T) {
	ctx := context.Background()
	customers := &CustomerGatewayMock{}
	store := kvstore.NewMemory()
	session := usecase.NewAuthSession(customers, store, passValidator{}, zerolog.Nop())

	customers.On("Login", mock.Anything, "demo@example.com", "password123").Return("tok-1", nil)
	customers.On("Profile", mock.Anything, "tok-1").Return(model.Customer{ID: "user-1"}, nil)
	_, err := session.Login(ctx, "demo@example.com", "password123")
	assert.NoError(t, err)

	session.Logout(ctx)

	_, ok := session.Current()
	assert.False(t, ok)
	assert.Equal(t, "", session.AccessToken())

	_, err = store.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, gateway.ErrKeyNotFound)
	_, err = store.Get(ctx, "user")
	assert.ErrorIs(t, err, gateway.ErrKeyNotFound)
}

func TestAuthSession_Register_Validates(t *testing.T) {
	ctx := context.Background()
	customers := &CustomerGatewayMock{}
	session := usecase.NewAuthSession(customers, kvstore.NewMemory(), failValidator{err: errors.New("bad")}, zerolog.Nop())

	err := session.Register(ctx, gateway.RegisterInput{Email: "x", Password: "short"})
	assert.ErrorIs(t, err, usecase.ErrValidation)
	customers.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}
