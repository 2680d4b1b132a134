package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば POSTGRES_* より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークンの有効期限

	GoEnv    string // dev/prod
	LogLevel string // zerolog のレベル名

	RedisAddr     string // 空ならキャッシュなし
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	AlertInterval time.Duration // 監視アラートの間隔
	SeedData      bool
}

// .env があれば読み込む（無くてもエラーにしない）
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	ttlMin, err := atoiOr("JWT_TTL_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoiOr("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := atoiOr("CACHE_TTL_SECONDS", 300)
	if err != nil {
		return Config{}, err
	}
	alertSec, err := atoiOr("ALERT_INTERVAL_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}
	seed, err := boolOr("SEED_DATA", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "delivery"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    time.Duration(ttlMin) * time.Minute,

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CacheTTL:      time.Duration(cacheTTL) * time.Second,

		AlertInterval: time.Duration(alertSec) * time.Second,
		SeedData:      seed,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if ttlMin <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL_MINUTES must be positive")
	}
	if alertSec <= 0 {
		return Config{}, fmt.Errorf("ALERT_INTERVAL_SECONDS must be positive")
	}

	return cfg, nil
}

// gorm に渡す接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}
