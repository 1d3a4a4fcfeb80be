// config - источник загрузки конфигурации jobfeed.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// Перед чтением ENV подхватывается .env из рабочего каталога (если есть).
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Режимы применения фильтров.
const (
	ApplyImmediate = "immediate"
	ApplyDeferred  = "deferred"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Store   StoreConfig   `yaml:"store"`
	Feed    FeedConfig    `yaml:"feed"`
}

// HTTPConfig — локальный веб-сервер клиента.
type HTTPConfig struct {
	Host    string        `yaml:"host"    env:"HTTP_HOST"    env-default:"127.0.0.1"`
	Port    string        `yaml:"port"    env:"HTTP_PORT"    env-default:"5173"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// BackendConfig — REST-бэкенд с вакансиями.
type BackendConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"BACKEND_BASE_URL"   env-default:"http://127.0.0.1:8000"`
	Timeout   time.Duration `yaml:"timeout"    env:"BACKEND_TIMEOUT"    env-default:"10s"`
	UserAgent string        `yaml:"user_agent" env:"BACKEND_USER_AGENT" env-default:"jobfeed"`
}

// SessionConfig — жизненный цикл токенов.
//
// RenewBefore — за сколько до истечения access-токена начинается обновление.
// GateWait — сколько защищённая страница ждёт первой проверки, прежде чем
// отдать заглушку «загрузка».
type SessionConfig struct {
	CheckInterval time.Duration `yaml:"check_interval" env:"SESSION_CHECK_INTERVAL" env-default:"60s"`
	RenewBefore   time.Duration `yaml:"renew_before"   env:"SESSION_RENEW_BEFORE"   env-default:"300s"`
	GateWait      time.Duration `yaml:"gate_wait"      env:"SESSION_GATE_WAIT"      env-default:"2s"`
}

// StoreConfig — хранилище токенов и настроек.
type StoreConfig struct {
	Driver   string `yaml:"driver"    env:"STORE_DRIVER"    env-default:"file"`
	Path     string `yaml:"path"      env:"STORE_PATH"      env-default:".jobfeed/store.json"`
	RedisURL string `yaml:"redis_url" env:"STORE_REDIS_URL" env-default:"redis://127.0.0.1:6379/0"`
	Prefix   string `yaml:"prefix"    env:"STORE_PREFIX"    env-default:"jobfeed:"`
}

// FeedConfig — поведение ленты.
type FeedConfig struct {
	ApplyMode string `yaml:"apply_mode" env:"FEED_APPLY_MODE" env-default:"immediate"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	// .env не обязателен.
	_ = godotenv.Load()

	var cfg Config

	read := func(p string) (*Config, error) {
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, cfg.validate()
	}

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		return read(p)
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return read("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Feed.ApplyMode {
	case ApplyImmediate, ApplyDeferred:
	default:
		return fmt.Errorf("invalid feed.apply_mode %q: want %q or %q", c.Feed.ApplyMode, ApplyImmediate, ApplyDeferred)
	}

	if c.Session.CheckInterval <= 0 {
		return fmt.Errorf("session.check_interval must be positive")
	}

	if c.Session.RenewBefore < 0 {
		return fmt.Errorf("session.renew_before must not be negative")
	}

	return nil
}
