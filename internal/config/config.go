package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл (GTP_DATABASE_HOST, GTP_AUTH_JWT_SECRET и т.д.)
const EnvPrefix = "GTP"

// Драйверы хранилища
const (
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
	DriverMongo     = "mongo"
	DriverMemory    = "memory"
)

var (
	// ErrInvalidConfig возвращается при некорректной конфигурации
	ErrInvalidConfig = errors.New("invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Storage   StorageConfig   `toml:"storage"`
	Database  DatabaseConfig  `toml:"database"`
	Firestore FirestoreConfig `toml:"firestore"`
	Mongo     MongoConfig     `toml:"mongo"`
	Redis     RedisConfig     `toml:"redis"`
	Broker    BrokerConfig    `toml:"broker"`
	Auth      AuthConfig      `toml:"auth"`
	RateLimit RateLimitConfig `toml:"rate_limit" split_words:"true"`
	Business  BusinessConfig  `toml:"business"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`     // секунды
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`    // секунды
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level" split_words:"true"`
	File  string `toml:"file" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

type StorageConfig struct {
	Driver string `toml:"driver" split_words:"true"`

	// Количество попыток сериализуемой транзакции при конфликте
	MaxTxAttempts int `toml:"max_tx_attempts" split_words:"true"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type FirestoreConfig struct {
	ProjectID       string `toml:"project_id" split_words:"true"`
	CredentialsFile string `toml:"credentials_file" split_words:"true"`
}

type MongoConfig struct {
	URI      string `toml:"uri" split_words:"true"`
	Database string `toml:"database" split_words:"true"`
}

// RedisConfig кеш счетчиков; пустой Addr отключает кеш
type RedisConfig struct {
	Addr     string `toml:"addr" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	DB       int    `toml:"db" split_words:"true"`
	TTL      int    `toml:"ttl" split_words:"true"` // секунды
}

// BrokerConfig RabbitMQ для событий о записях; пустой URL отключает публикацию
type BrokerConfig struct {
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
	Timeout  int    `toml:"timeout" split_words:"true"` // секунды
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" split_words:"true"`
}

type RateLimitConfig struct {
	BookingsPerMinute int `toml:"bookings_per_minute" split_words:"true"`
	Burst             int `toml:"burst" split_words:"true"`

	// Адреса или CIDR прокси, которым разрешено передавать X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies" split_words:"true"`
}

// TrustedProxyPrefixes разбирает trusted_proxies; одиночный адрес становится префиксом /32 (/128)
func (c RateLimitConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: rate_limit.trusted_proxies: %v", ErrInvalidConfig, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: rate_limit.trusted_proxies: %v", ErrInvalidConfig, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

type BusinessConfig struct {
	Timezone string `toml:"timezone" split_words:"true"`
}

// Location часовой пояс сервиса (гражданские даты считаются в нем)
func (c BusinessConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Default значения по умолчанию для необязательных параметров
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "auto_bosch_gtp",
		},
		Storage: StorageConfig{
			Driver:        DriverPostgres,
			MaxTxAttempts: 5,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Mongo:  MongoConfig{Database: "gtp"},
		Redis:  RedisConfig{TTL: 300},
		Broker: BrokerConfig{Exchange: "gtp.bookings", Timeout: 5},
		RateLimit: RateLimitConfig{
			BookingsPerMinute: 10,
			Burst:             3,
		},
		Business: BusinessConfig{Timezone: "Europe/Sofia"},
	}
}

// Load читает конфигурацию из TOML файла и применяет переменные окружения
// Отсутствующий файл не является ошибкой: используются значения по умолчанию и окружение
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет конфигурацию при старте
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverFirestore, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Storage.Driver == DriverFirestore && c.Firestore.ProjectID == "" {
		return fmt.Errorf("%w: firestore.project_id is required", ErrInvalidConfig)
	}
	if c.Storage.Driver == DriverMongo && c.Mongo.URI == "" {
		return fmt.Errorf("%w: mongo.uri is required", ErrInvalidConfig)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}

	if _, err := c.Business.Location(); err != nil {
		return fmt.Errorf("%w: business.timezone: %v", ErrInvalidConfig, err)
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}

	if c.RateLimit.BookingsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("%w: rate_limit values must be positive", ErrInvalidConfig)
	}
	if _, err := c.RateLimit.TrustedProxyPrefixes(); err != nil {
		return err
	}

	return nil
}
