package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "beezio"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Stripe       StripeConfig
	Supplier     SupplierConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BEEZIO_APP_ENV" required:"true"`
	Port         string `envconfig:"BEEZIO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BEEZIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BEEZIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BEEZIO_DB_DSN"`

	Host     string `envconfig:"BEEZIO_DB_HOST"`
	Port     int    `envconfig:"BEEZIO_DB_PORT" default:"5432"`
	User     string `envconfig:"BEEZIO_DB_USER"`
	Password string `envconfig:"BEEZIO_DB_PASSWORD"`
	Name     string `envconfig:"BEEZIO_DB_NAME"`
	SSLMode  string `envconfig:"BEEZIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BEEZIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BEEZIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BEEZIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BEEZIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BEEZIO_REDIS_URL"`
	Address      string        `envconfig:"BEEZIO_REDIS_ADDR"`
	Password     string        `envconfig:"BEEZIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BEEZIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BEEZIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BEEZIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BEEZIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BEEZIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BEEZIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	APIKey        string        `envconfig:"BEEZIO_STRIPE_API_KEY"`
	WebhookSecret string        `envconfig:"BEEZIO_STRIPE_WEBHOOK_SECRET"`
	Env           string        `envconfig:"BEEZIO_STRIPE_ENV" default:"test"`
	EventGuardTTL time.Duration `envconfig:"BEEZIO_STRIPE_EVENT_GUARD_TTL" default:"72h"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// SupplierConfig covers the CJ Dropshipping API used by the repricing webhook.
type SupplierConfig struct {
	BaseURL string        `envconfig:"BEEZIO_SUPPLIER_BASE_URL" default:"https://developers.cjdropshipping.com/api2.0/v1"`
	APIKey  string        `envconfig:"BEEZIO_SUPPLIER_API_KEY"`
	Timeout time.Duration `envconfig:"BEEZIO_SUPPLIER_TIMEOUT" default:"25s"`
}

type CheckoutConfig struct {
	SuccessURL string `envconfig:"BEEZIO_CHECKOUT_SUCCESS_URL"`
	CancelURL  string `envconfig:"BEEZIO_CHECKOUT_CANCEL_URL"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BEEZIO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := []struct {
		name  string
		value string
	}{
		{"BEEZIO_DB_HOST", db.Host},
		{"BEEZIO_DB_USER", db.User},
		{"BEEZIO_DB_NAME", db.Name},
	}
	for _, entry := range required {
		if entry.value == "" {
			missing = append(missing, entry.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either BEEZIO_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
