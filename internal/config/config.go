package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DBDriver    string // postgres / sqlite
	DatabaseURL string // あれば最優先
	SQLitePath  string // DB_DRIVER=sqlite のとき

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークンの有効期間

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	SeedUsers         bool
	SeedAdminPassword string
	SeedUserPassword  string

	BcryptCost        int
	AuthRateLimit     float64 // /api/auth の1IPあたり req/s
	LowStockThreshold int64
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev"
}

// Loadは環境変数から設定を読む（.envの読み込みはmain側）
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	ttl, err := durationDefault("JWT_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cost, err := atoiDefault("BCRYPT_COST", 10)
	if err != nil {
		return Config{}, err
	}
	lowStock, err := atoiDefault("LOW_STOCK_THRESHOLD", 5)
	if err != nil {
		return Config{}, err
	}
	rateLimit, err := floatDefault("AUTH_RATE_LIMIT", 5)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenv("SQLITE_PATH", "estore.db"),

		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getenv("POSTGRES_DB", "estore"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    ttl,

		GoEnv:    getenv("GO_ENV", "prod"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		SeedUsers:         os.Getenv("SEED_USERS") == "true",
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		SeedUserPassword:  os.Getenv("SEED_USER_PASSWORD"),

		BcryptCost:        cost,
		AuthRateLimit:     rateLimit,
		LowStockThreshold: int64(lowStock),
	}

	//必須チェック
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite")
	}
	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev_secret_change_me"
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive")
	}
	if cfg.AuthRateLimit <= 0 {
		return Config{}, fmt.Errorf("AUTH_RATE_LIMIT must be positive")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
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

func floatDefault(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return f, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration (e.g. 24h): %w", key, err)
	}
	return d, nil
}
