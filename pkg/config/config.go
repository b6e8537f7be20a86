package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "ofertazo"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced from error messages and tests.
const (
	EnvAppEnv     = "OFERTAZO_APP_ENV"
	EnvPort       = "OFERTAZO_APP_PORT"
	EnvDBDSN      = "OFERTAZO_DB_DSN"
	EnvDBHost     = "OFERTAZO_DB_HOST"
	EnvDBUser     = "OFERTAZO_DB_USER"
	EnvDBName     = "OFERTAZO_DB_NAME"
	EnvRedisURL   = "OFERTAZO_REDIS_URL"
	EnvJWTSecret  = "OFERTAZO_JWT_SECRET"
	EnvJWTIssuer  = "OFERTAZO_JWT_ISSUER"
	EnvJWTExpMins = "OFERTAZO_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Analytics    AnalyticsConfig
	Ingest       IngestConfig
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
	Env          string `envconfig:"OFERTAZO_APP_ENV" required:"true"`
	Port         string `envconfig:"OFERTAZO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OFERTAZO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OFERTAZO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OFERTAZO_DB_DSN"`
	Driver string `envconfig:"OFERTAZO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OFERTAZO_DB_HOST"`
	LegacyPort     int    `envconfig:"OFERTAZO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OFERTAZO_DB_USER"`
	LegacyPassword string `envconfig:"OFERTAZO_DB_PASSWORD"`
	LegacyName     string `envconfig:"OFERTAZO_DB_NAME"`
	LegacySSLMode  string `envconfig:"OFERTAZO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OFERTAZO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OFERTAZO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OFERTAZO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OFERTAZO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OFERTAZO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OFERTAZO_REDIS_ADDR"`
	Password     string        `envconfig:"OFERTAZO_REDIS_PASSWORD"`
	DB           int           `envconfig:"OFERTAZO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OFERTAZO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OFERTAZO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OFERTAZO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OFERTAZO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OFERTAZO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OFERTAZO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OFERTAZO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"OFERTAZO_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AnalyticsConfig bounds the report query surface.
type AnalyticsConfig struct {
	QueryTimeout time.Duration `envconfig:"OFERTAZO_ANALYTICS_QUERY_TIMEOUT" default:"15s"`
	TopLimitMax  int           `envconfig:"OFERTAZO_ANALYTICS_TOP_LIMIT_MAX" default:"100"`
}

// IngestConfig throttles and deduplicates event ingestion.
type IngestConfig struct {
	RateLimitWindow time.Duration `envconfig:"OFERTAZO_INGEST_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitPerIP  int           `envconfig:"OFERTAZO_INGEST_RATE_LIMIT_PER_IP" default:"600"`
	IdempotencyTTL  time.Duration `envconfig:"OFERTAZO_INGEST_IDEMPOTENCY_TTL" default:"24h"`
	MaxFutureSkew   time.Duration `envconfig:"OFERTAZO_INGEST_MAX_FUTURE_SKEW" default:"5m"`
	MaxDimensionLen int           `envconfig:"OFERTAZO_INGEST_MAX_DIMENSION_LEN" default:"120"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"OFERTAZO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"OFERTAZO_AUTO_MIGRATE" default:"false"`
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
