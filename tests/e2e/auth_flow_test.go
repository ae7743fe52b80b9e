package e2e

import (
	"context"
	"testing"

	"app/internal/gateway"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func Test_Auth_RegisterLoginRestore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.session.Register(ctx, gateway.RegisterInput{
		Email:     "hanako@example.com",
		Password:  "supersecret1",
		FirstName: "Hanako",
		LastName:  "Sato",
	})
	assert.NoError(t, err)

	cust, err := env.session.Login(ctx, "hanako@example.com", "supersecret1")
	assert.NoError(t, err)
	assert.Equal(t, "hanako@example.com", cust.Email)
	assert.Equal(t, "Hanako Sato", cust.DisplayName)
	assert.NotEmpty(t, env.session.AccessToken())

	//アプリ再起動後もペアで復元できる
	env.restart(t)
	restored, ok := env.session.Restore(ctx)
	assert.True(t, ok)
	assert.Equal(t, cust.ID, restored.ID)
	assert.NotEmpty(t, env.session.AccessToken())
}

func Test_Auth_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Login(ctx, "demo@example.com", "wrong-password")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	_, ok := env.session.Current()
	assert.False(t, ok)
}

func Test_Auth_ValidationBeforeNetwork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Login(ctx, "not-an-email", "password123")
	assert.ErrorIs(t, err, usecase.ErrValidation)

	err = env.session.Register(ctx, gateway.RegisterInput{Email: "x@example.com", Password: "short"})
	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func Test_Auth_UserCartFollowsAcrossDevices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	//端末1：ログインしてカートに入れる
	cust, err := env.session.Login(ctx, "demo@example.com", "password123")
	assert.NoError(t, err)

	env.engine.Init(ctx)
	assert.NoError(t, env.engine.AddToCart(ctx, usecase.AddToCartInput{VariantID: "var-1", Quantity: 1}))
	firstCartID := env.engine.CartID()
	assert.NotEmpty(t, firstCartID)
	env.engine.Close()

	//端末2：まっさらなストレージでログインするとサーバー側カートに乗り換える
	env.kv = freshKV()
	env.buildClients(t)
	_, err = env.session.Login(ctx, "demo@example.com", "password123")
	assert.NoError(t, err)

	env.engine.Init(ctx)
	defer env.engine.Close()
	assert.Equal(t, "", env.engine.CartID())

	env.engine.OnUserAuthenticated(ctx, cust.ID)
	assert.Equal(t, firstCartID, env.engine.CartID())
	assert.Equal(t, 1, env.engine.Count())
}

func Test_Auth_LogoutClearsSessionButKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Login(ctx, "demo@example.com", "password123")
	assert.NoError(t, err)

	env.engine.Init(ctx)
	defer env.engine.Close()
	assert.NoError(t, env.engine.AddToCart(ctx, usecase.AddToCartInput{VariantID: "var-3", Quantity: 1}))

	env.session.Logout(ctx)

	_, ok := env.session.Current()
	assert.False(t, ok)
	_, err = env.kv.Get(ctx, "accessToken")
	assert.ErrorIs(t, err, gateway.ErrKeyNotFound)

	//匿名カートとしては残る
	assert.NotEmpty(t, env.engine.CartID())
	persisted, err := env.kv.Get(ctx, "cartId")
	assert.NoError(t, err)
	assert.Equal(t, env.engine.CartID(), persisted)
}
