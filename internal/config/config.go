package config

import (
	"fmt"
	"os"
	"strconv"
)

// ストレージドライバの種類
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Configはアプリ全体の設定
type Config struct {
	APIBaseURL string // コマースAPIのベースURL

	StorageDriver string // memory / file / redis / postgres
	StoragePath   string // fileドライバの保存先
	RedisAddr     string // redisドライバの接続先
	RedisDB       int    // redisドライバのDB番号

	JWTSecret string // スタブAPIの署名シークレット

	GoEnv string // dev/prod
	Port  string // スタブAPIのポート
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL: os.Getenv("API_BASE_URL"),

		StorageDriver: os.Getenv("STORAGE_DRIVER"),
		StoragePath:   os.Getenv("STORAGE_PATH"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: os.Getenv("GO_ENV"),
		Port:  os.Getenv("PORT"),
	}

	//必須チェック
	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	//ドライバごとの必須チェック
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = StorageFile
	}
	switch cfg.StorageDriver {
	case StorageMemory:
		// 追加設定なし
	case StorageFile:
		if cfg.StoragePath == "" {
			return Config{}, fmt.Errorf("STORAGE_PATH is required for file driver")
		}
	case StorageRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required for redis driver")
		}
		db, err := atoiOrZero("REDIS_DB")
		if err != nil {
			return Config{}, err
		}
		cfg.RedisDB = db
	case StoragePostgres:
		// 接続情報は infra/db が環境変数から組み立てる
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.StorageDriver)
	}

	return cfg, nil
}

func atoiOrZero(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
