package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Shopify      ShopifyConfig
	Packlink     PacklinkConfig
	Resend       ResendConfig
	Identity     IdentityConfig
	Warehouse    WarehouseConfig
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
	Env          string `envconfig:"FIRMA_APP_ENV" required:"true"`
	Port         string `envconfig:"FIRMA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FIRMA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FIRMA_LOG_WARN_STACK" default:"false"`
	SiteURL      string `envconfig:"FIRMA_SITE_URL" default:"https://app.firmarollers.com"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FIRMA_DB_DSN"`
	Driver string `envconfig:"FIRMA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FIRMA_DB_HOST"`
	LegacyPort     int    `envconfig:"FIRMA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FIRMA_DB_USER"`
	LegacyPassword string `envconfig:"FIRMA_DB_PASSWORD"`
	LegacyName     string `envconfig:"FIRMA_DB_NAME"`
	LegacySSLMode  string `envconfig:"FIRMA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FIRMA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FIRMA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FIRMA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FIRMA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FIRMA_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"FIRMA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FIRMA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FIRMA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FIRMA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FIRMA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig carries the verification material for tokens minted by the
// external identity provider. The API only ever parses tokens.
type JWTConfig struct {
	Secret string `envconfig:"FIRMA_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"FIRMA_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool `envconfig:"FIRMA_AUTO_MIGRATE" default:"false"`
	EnforceTarifa bool `envconfig:"FIRMA_ENFORCE_TARIFA_RULES" default:"true"`
}

type ShopifyConfig struct {
	StoreDomain string        `envconfig:"FIRMA_SHOPIFY_STORE_DOMAIN" required:"true"`
	AdminToken  string        `envconfig:"FIRMA_SHOPIFY_ADMIN_TOKEN" required:"true"`
	APIVersion  string        `envconfig:"FIRMA_SHOPIFY_API_VERSION" default:"2026-01"`
	Timeout     time.Duration `envconfig:"FIRMA_SHOPIFY_TIMEOUT" default:"15s"`
}

type PacklinkConfig struct {
	BaseURL string        `envconfig:"FIRMA_PACKLINK_API_URL" required:"true"`
	APIKey  string        `envconfig:"FIRMA_PACKLINK_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"FIRMA_PACKLINK_TIMEOUT" default:"20s"`
}

type ResendConfig struct {
	APIKey     string        `envconfig:"FIRMA_RESEND_API_KEY" required:"true"`
	FromNoOp   string        `envconfig:"FIRMA_EMAIL_FROM_NOREPLY" default:"Firma Rollers <noreply@firmarollers.com>"`
	FromOrders string        `envconfig:"FIRMA_EMAIL_FROM_ORDERS" default:"Firma Rollers <pedidos@firmarollers.com>"`
	AdminEmail string        `envconfig:"FIRMA_EMAIL_ADMIN" default:"pedidos@firmarollers.com"`
	Timeout    time.Duration `envconfig:"FIRMA_RESEND_TIMEOUT" default:"10s"`
}

// IdentityConfig points at the GoTrue-style admin API that owns platform users.
type IdentityConfig struct {
	BaseURL    string        `envconfig:"FIRMA_IDENTITY_API_URL" required:"true"`
	ServiceKey string        `envconfig:"FIRMA_IDENTITY_SERVICE_KEY" required:"true"`
	Timeout    time.Duration `envconfig:"FIRMA_IDENTITY_TIMEOUT" default:"10s"`
}

// WarehouseConfig is the fixed origin used for shipping quotes and labels.
type WarehouseConfig struct {
	Name       string `envconfig:"FIRMA_WAREHOUSE_NAME" default:""`
	Surname    string `envconfig:"FIRMA_WAREHOUSE_SURNAME" default:""`
	Street     string `envconfig:"FIRMA_WAREHOUSE_STREET" default:""`
	City       string `envconfig:"FIRMA_WAREHOUSE_CITY" default:""`
	PostalCode string `envconfig:"FIRMA_WAREHOUSE_POSTAL_CODE" required:"true"`
	Country    string `envconfig:"FIRMA_WAREHOUSE_COUNTRY" default:"ES"`
	Phone      string `envconfig:"FIRMA_WAREHOUSE_PHONE" default:""`
	Email      string `envconfig:"FIRMA_WAREHOUSE_EMAIL" default:""`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
