package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PHRJr/BuritisProject/pkg/env"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Password     PasswordConfig
	Auth         AuthConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyBareFallbacks()
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Redis.URL) == "" {
		return nil, fmt.Errorf("%s is required", EnvRedisURL)
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOffline reads the configuration for command-line tools that talk to the
// database only. Redis and session settings are not validated.
func LoadOffline() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyBareFallbacks()
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"BURITIS_APP_ENV" default:"development"`
	Port         string   `envconfig:"BURITIS_PORT" default:"3000"`
	LogLevel     string   `envconfig:"BURITIS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"BURITIS_LOG_WARN_STACK" default:"false"`
	PublicDir    string   `envconfig:"BURITIS_PUBLIC_DIR" default:"public"`
	CORSOrigins  []string `envconfig:"BURITIS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	switch strings.ToLower(strings.TrimSpace(a.Env)) {
	case AppEnvDev, "development", "local":
		return true
	}
	return false
}

func (a AppConfig) IsProd() bool {
	switch strings.ToLower(strings.TrimSpace(a.Env)) {
	case AppEnvProd, "production":
		return true
	}
	return false
}

type DBConfig struct {
	DSN    string `envconfig:"BURITIS_DB_DSN"`
	Driver string `envconfig:"BURITIS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BURITIS_DB_HOST"`
	LegacyPort     int    `envconfig:"BURITIS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BURITIS_DB_USER"`
	LegacyPassword string `envconfig:"BURITIS_DB_PASSWORD"`
	LegacyName     string `envconfig:"BURITIS_DB_NAME"`
	LegacySSLMode  string `envconfig:"BURITIS_DB_SSLMODE" default:"require"`

	MaxOpenConns    int           `envconfig:"BURITIS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"BURITIS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"BURITIS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BURITIS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// applyBareFallbacks honours the unprefixed variables set by hosting platforms.
func (c *Config) applyBareFallbacks() {
	if os.Getenv(EnvAppEnv) == "" {
		if nodeEnv := env.First(EnvNodeEnv); nodeEnv != "" {
			c.App.Env = nodeEnv
		}
	}
	if os.Getenv(EnvPort) == "" {
		if port := env.First(EnvBarePort); port != "" {
			c.App.Port = port
		}
	}
	if c.Redis.URL == "" {
		c.Redis.URL = env.First(EnvBareRedisURL)
	}
	if c.Session.Secret == "" {
		c.Session.Secret = env.First(EnvBareSessionSecret)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"BURITIS_REDIS_URL"`
	Password     string        `envconfig:"BURITIS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BURITIS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BURITIS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BURITIS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BURITIS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BURITIS_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"BURITIS_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// SessionConfig drives the signed session cookie and its server-side record.
type SessionConfig struct {
	Secret     string        `envconfig:"BURITIS_SESSION_SECRET"`
	CookieName string        `envconfig:"BURITIS_SESSION_COOKIE_NAME" default:"buritis.sid"`
	TTL        time.Duration `envconfig:"BURITIS_SESSION_TTL" default:"24h"`
	Issuer     string        `envconfig:"BURITIS_SESSION_ISSUER" default:"buritis"`
}

func (s SessionConfig) validate() error {
	if strings.TrimSpace(s.Secret) == "" {
		return fmt.Errorf("%s is required", EnvSessionSecret)
	}
	if s.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionTTL)
	}
	return nil
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BURITIS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BURITIS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BURITIS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BURITIS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BURITIS_ARGON_KEY_LEN" default:"32"`
}

type AuthConfig struct {
	// SharedPasscodeHash enables the passcode login variant when set.
	SharedPasscodeHash string        `envconfig:"BURITIS_SHARED_PASSCODE_HASH"`
	LoginWindow        time.Duration `envconfig:"BURITIS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BURITIS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"10"`
	LoginIPLimit       int           `envconfig:"BURITIS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
}

type CatalogConfig struct {
	ProductDelimiter     string `envconfig:"BURITIS_CATALOG_PRODUCT_DELIMITER" default:","`
	AssociationDelimiter string `envconfig:"BURITIS_CATALOG_ASSOCIATION_DELIMITER" default:","`
	UserListDelimiter    string `envconfig:"BURITIS_CATALOG_USER_DELIMITER" default:","`
	ExportDelimiter      string `envconfig:"BURITIS_CATALOG_EXPORT_DELIMITER" default:","`
	NotFoundSentinel     string `envconfig:"BURITIS_CATALOG_NOT_FOUND_SENTINEL" default:"Não encontrada"`
	MaxUploadMB          int    `envconfig:"BURITIS_CATALOG_MAX_UPLOAD_MB" default:"20"`
}

// MaxUploadBytes returns the multipart memory ceiling for admin uploads.
func (c CatalogConfig) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BURITIS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if legacyURL := env.First(EnvDatabaseURL); legacyURL != "" {
		db.DSN = legacyURL
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, name := range legacyDBEnvVars {
		if legacyValues[name] == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s, %s or %s are required", EnvDBDSN, EnvDatabaseURL, strings.Join(missing, ", "))
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
