package e2e

import (
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/gateway"
	"app/internal/infra/api"
	"app/internal/infra/kvstore"
	"app/internal/stubapi"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/rs/zerolog"
)

const testSecret = "e2e_test_secret"

// refreshのデバウンス(400ms)を確実に跨ぐための待ち
const debounceWait = 450 * time.Millisecond

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// スタブAPI＋実エンジン一式。KVはインメモリ（再起動はstoreを持ち回して再現する）。
type testEnv struct {
	srv       *httptest.Server
	stubStore *stubapi.Store
	kv        gateway.KVStore

	carts     gateway.CartGateway
	catalogGW gateway.CatalogGateway
	customers gateway.CustomerGateway
	orders    gateway.OrderGateway
	wishlist  gateway.WishlistGateway

	session *usecase.AuthSession
	engine  *usecase.CartEngine
	catalog *usecase.CatalogCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stubStore := stubapi.NewStore()
	srv := httptest.NewServer(stubapi.New(stubStore, testSecret))
	t.Cleanup(srv.Close)

	env := &testEnv{
		srv:       srv,
		stubStore: stubStore,
		kv:        kvstore.NewMemory(),
	}
	env.buildClients(t)
	return env
}

// 同じ永続ストアで作り直す（アプリ再起動の再現）。
func (env *testEnv) restart(t *testing.T) {
	t.Helper()
	env.engine.Close()
	env.buildClients(t)
}

func (env *testEnv) buildClients(t *testing.T) {
	t.Helper()

	client := api.NewClient(env.srv.URL, zerolog.Nop())
	env.carts = api.NewCartAPI(client)
	env.catalogGW = api.NewProductAPI(client)
	env.customers = api.NewCustomerAPI(client)
	env.orders = api.NewOrderAPI(client)
	env.wishlist = api.NewWishlistAPI(client)

	clock := &realClock{}
	env.session = usecase.NewAuthSession(env.customers, env.kv, validator.NewAuthValidator(), zerolog.Nop())
	env.engine = usecase.NewCartEngine(env.carts, env.kv, env.session, clock, zerolog.Nop())
	env.catalog = usecase.NewCatalogCache(env.catalogGW, env.kv, clock, zerolog.Nop())
}

func waitDebounce() {
	time.Sleep(debounceWait)
}

// 別端末相当のまっさらな永続ストア
func freshKV() gateway.KVStore {
	return kvstore.NewMemory()
}
