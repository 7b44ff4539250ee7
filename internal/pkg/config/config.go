package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Limiter    LimiterConfig
	Redis      RedisConfig
	Tracing    TracingConfig
	Broker     BrokerConfig
	Pagination PaginationConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host             string        `envconfig:"DB_HOST" default:"localhost"`
	Port             string        `envconfig:"DB_PORT" default:"5432"`
	User             string        `envconfig:"DB_USER" required:"true"`
	Password         string        `envconfig:"DB_PASSWORD" required:"true"`
	DBName           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode          string        `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone         string        `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns         int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns         int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime  time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	StatementTimeout time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"15s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"30m"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

// LimiterConfig selects the attempt limiter backend and its policies.
// "memory" keeps per-process state in a bounded LRU; "redis" shares state
// between processes.
type LimiterConfig struct {
	Backend        string        `envconfig:"LIMITER_BACKEND" default:"memory"`
	Capacity       int           `envconfig:"LIMITER_CAPACITY" default:"10000"`
	LoginMax       int           `envconfig:"LIMITER_LOGIN_MAX_ATTEMPTS" default:"5"`
	LoginWindow    time.Duration `envconfig:"LIMITER_LOGIN_WINDOW" default:"15m"`
	RegisterMax    int           `envconfig:"LIMITER_REGISTER_MAX_ATTEMPTS" default:"3"`
	RegisterWindow time.Duration `envconfig:"LIMITER_REGISTER_WINDOW" default:"60m"`
	KeyPrefix      string        `envconfig:"LIMITER_KEY_PREFIX" default:"attempts"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Empty endpoint disables export; spans are still created against a no-op provider.
type TracingConfig struct {
	ServiceName string  `envconfig:"OTEL_SERVICE_NAME" default:"bookstore-backoffice"`
	Endpoint    string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`
	Insecure    bool    `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	SampleRatio float64 `envconfig:"OTEL_SAMPLE_RATIO" default:"1.0"`
}

// Empty URL disables publishing.
type BrokerConfig struct {
	URL               string `envconfig:"AMQP_URL" default:""`
	Exchange          string `envconfig:"AMQP_EXCHANGE" default:"inventory"`
	LowStockThreshold int32  `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`
}

type PaginationConfig struct {
	DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"20"`
	MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"100"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			ShutdownTimeout: 5 * time.Second,
		},
		DB: DBConfig{
			Host:             "localhost",
			Port:             "15433", // Test DB port
			User:             "test",
			Password:         "test",
			DBName:           "test_db",
			SSLMode:          "disable",
			TimeZone:         "UTC",
			MaxConns:         10,
			MinConns:         1,
			MaxConnLifetime:  time.Hour,
			StatementTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-bookstore-backoffice",
			Duration: 30 * time.Minute,
		},
		Cookie: CookieConfig{
			Secure:   false,
			SameSite: "Lax",
		},
		Limiter: LimiterConfig{
			Backend:        "memory",
			Capacity:       1000,
			LoginMax:       5,
			LoginWindow:    15 * time.Minute,
			RegisterMax:    3,
			RegisterWindow: 60 * time.Minute,
			KeyPrefix:      "attempts-test",
		},
		Tracing: TracingConfig{
			ServiceName: "bookstore-backoffice-test",
			SampleRatio: 1.0,
		},
		Broker: BrokerConfig{
			Exchange:          "inventory",
			LowStockThreshold: 5,
		},
		Pagination: PaginationConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
	}
}
