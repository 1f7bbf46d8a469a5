package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DB Database

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTTL time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	GoEnv    string `env:"GO_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageDriver   string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DB接続の設定
type Database struct {
	// 指定があればPOSTGRES_*より優先
	URL string `env:"DATABASE_URL"`

	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB" envDefault:"football_store"`
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
}

func loadDotenv(files []string) {
	for _, f := range files {
		// 無くてもよい
		_ = godotenv.Load(f)
	}
}

// Loadは.env（あれば）と環境変数から読む
func Load(dotenvFiles ...string) (Config, error) {
	loadDotenv(dotenvFiles)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return errors.Errorf("STORAGE_DRIVER must be %q or %q", StoragePostgres, StorageMemory)
	}
	if c.AccessTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL must be positive")
	}
	return nil
}

// DB設定だけ読む（JWT_SECRETなどは不要なツール用）
func LoadDatabase(dotenvFiles ...string) (Database, error) {
	loadDotenv(dotenvFiles)

	var db Database
	if err := env.Parse(&db); err != nil {
		return Database{}, errors.Wrap(err, "parse env")
	}
	return db, nil
}

func (c Config) DSN() string {
	return c.DB.DSN()
}

// 接続文字列
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// ":8080" 形式
func (c Config) Addr() string {
	if c.Port != "" && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}
