package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StorageEngineSQLX = "sqlx"
	StorageEngineGorm = "gorm"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	SecretKey      string        `env:"SECRET_KEY" envDefault:"dev-secret-key-change-in-production"`
	DatabaseURL    string        `env:"DATABASE_URL" envDefault:"sqlite:///tasks.db"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// sqlx (SQLite/PostgreSQL/MySQL) или gorm (только PostgreSQL)
	StorageEngine string `env:"STORAGE_ENGINE" envDefault:"sqlx"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	BcryptCost    int    `env:"BCRYPT_COST" envDefault:"10"`

	Session struct {
		TTL          time.Duration `env:"SESSION_TTL" envDefault:"168h"`
		CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"todo_session"`
		CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, которые env.Parse проверить не может
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY не может быть пустым")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL не может быть пустым")
	}
	switch c.StorageEngine {
	case StorageEngineSQLX, StorageEngineGorm:
	default:
		return fmt.Errorf("неизвестный STORAGE_ENGINE: %q (используйте %q или %q)", c.StorageEngine, StorageEngineSQLX, StorageEngineGorm)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("неизвестный LOG_LEVEL: %q", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("неизвестный LOG_FORMAT: %q (используйте json или text)", c.LogFormat)
	}
	// границы bcrypt.MinCost..bcrypt.MaxCost
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST должен быть в диапазоне 4..31, получено %d", c.BcryptCost)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL должен быть положительным")
	}
	return nil
}

// String маскирует секрет, чтобы конфиг можно было писать в лог
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Storage: %s, LogLevel: %s, SecretKey: ***}", c.ServerPort, c.StorageEngine, c.LogLevel)
}
