package config

// EnvPrefix is empty: every field carries its full BURITIS_* name as the
// envconfig tag, which envconfig resolves as the alternate lookup key.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "BURITIS_APP_ENV"
	EnvPort          = "BURITIS_PORT"
	EnvDBDSN         = "BURITIS_DB_DSN"
	EnvDBHost        = "BURITIS_DB_HOST"
	EnvDBUser        = "BURITIS_DB_USER"
	EnvDBName        = "BURITIS_DB_NAME"
	EnvRedisURL      = "BURITIS_REDIS_URL"
	EnvSessionSecret = "BURITIS_SESSION_SECRET"
	EnvSessionTTL    = "BURITIS_SESSION_TTL"
	EnvPasscodeHash  = "BURITIS_SHARED_PASSCODE_HASH"
	EnvSentinel      = "BURITIS_CATALOG_NOT_FOUND_SENTINEL"
	EnvAutoMigrate   = "BURITIS_AUTO_MIGRATE"
)

// Unprefixed names used by the previous deployment and hosting platforms.
const (
	EnvNodeEnv           = "NODE_ENV"
	EnvBarePort          = "PORT"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvBareRedisURL      = "REDIS_URL"
	EnvBareSessionSecret = "SESSION_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
