package main

import (
	"context"
	"fmt"
	"time"

	"app/internal/config"
	"app/internal/gateway"
	"app/internal/infra/api"
	"app/internal/infra/db"
	"app/internal/infra/kvstore"
	"app/internal/logger"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 設定に応じたKVストアを開く。
func openStore(cfg config.Config) (gateway.KVStore, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return kvstore.NewMemory(), nil
	case config.StorageFile:
		return kvstore.NewFile(cfg.StoragePath)
	case config.StorageRedis:
		return kvstore.NewRedis(cfg.RedisAddr, cfg.RedisDB), nil
	case config.StoragePostgres:
		gormDB, err := db.Connect()
		if err != nil {
			return nil, err
		}
		return kvstore.NewGorm(gormDB)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}

func main() {
	//.envは無くてもよい（コンテナでは環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.GoEnv)

	//端末ローカル相当の永続ストア
	store, err := openStore(cfg)
	if err != nil {
		panic(err)
	}

	//コマースAPIクライアント（Gateway実装）生成
	client := api.NewClient(cfg.APIBaseURL, log)
	cartGW := api.NewCartAPI(client)
	productGW := api.NewProductAPI(client)
	customerGW := api.NewCustomerAPI(client)
	orderGW := api.NewOrderAPI(client)
	wishlistGW := api.NewWishlistAPI(client)

	//usecaseに渡す部品
	clock := &realClock{}

	//Usecase生成
	session := usecase.NewAuthSession(customerGW, store, validator.NewAuthValidator(), log)
	engine := usecase.NewCartEngine(cartGW, store, session, clock, log)
	catalog := usecase.NewCatalogCache(productGW, store, clock, log)
	history := usecase.NewSearchHistory(store, log)
	addressBook := usecase.NewAddressBook(customerGW, session, validator.NewAddressValidator())

	ctx := context.Background()

	//起動シーケンス：セッション復元→カート復元→履歴読込
	if cust, ok := session.Restore(ctx); ok {
		log.Info().Str("email", cust.Email).Msg("session restored")
	}
	engine.Init(ctx)
	defer engine.Close()
	history.Load(ctx)

	//ホーム画面相当の取得
	if items, err := catalog.BestSellers(ctx); err != nil {
		log.Error().Err(err).Msg("best sellers unavailable")
	} else {
		log.Info().Int("count", len(items)).Msg("best sellers loaded")
	}
	if items, err := catalog.NewArrivals(ctx); err != nil {
		log.Error().Err(err).Msg("new arrivals unavailable")
	} else {
		log.Info().Int("count", len(items)).Msg("new arrivals loaded")
	}

	log.Info().
		Str("cart_id", engine.CartID()).
		Int("items", engine.Count()).
		Msg("cart ready")

	//ログイン済みならアカウント系も引いておく
	if cust, ok := session.Current(); ok {
		engine.OnUserAuthenticated(ctx, cust.ID)
		if addrs, err := addressBook.List(ctx); err != nil {
			log.Warn().Err(err).Msg("address list failed")
		} else {
			log.Info().Int("count", len(addrs)).Msg("addresses loaded")
		}
		if orders, err := orderGW.ListOrders(ctx, session.AccessToken()); err != nil {
			log.Warn().Err(err).Msg("order history failed")
		} else {
			log.Info().Int("count", len(orders)).Msg("orders loaded")
		}
		if items, err := wishlistGW.List(ctx, cust.ID); err != nil {
			log.Warn().Err(err).Msg("wishlist failed")
		} else {
			log.Info().Int("count", len(items)).Msg("wishlist loaded")
		}
	}
}
