package config

import _ "time/tzdata"

const (
	EnvPrefix = "XCELERATE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
	DefaultSQLiteDSN = "file:xcelerate.db?_foreign_keys=on"

	EnvAppEnv                 = "XCELERATE_APP_ENV"
	EnvPort                   = "XCELERATE_APP_PORT"
	EnvDBDSN                  = "XCELERATE_DB_DSN"
	EnvDBDriver               = "XCELERATE_DB_DRIVER"
	EnvDBHost                 = "XCELERATE_DB_HOST"
	EnvDBUser                 = "XCELERATE_DB_USER"
	EnvDBName                 = "XCELERATE_DB_NAME"
	EnvDBPassword             = "XCELERATE_DB_PASSWORD"
	EnvRedisURL               = "XCELERATE_REDIS_URL"
	EnvJWTSecret              = "XCELERATE_JWT_SECRET"
	EnvJWTIssuer              = "XCELERATE_JWT_ISSUER"
	EnvJWTExpMins             = "XCELERATE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "XCELERATE_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "XCELERATE_USE_SQLITE"
	EnvCORSAllowedOrigins     = "XCELERATE_CORS_ALLOWED_ORIGINS"
	EnvNotificationsTimezone  = "XCELERATE_NOTIFICATIONS_TIMEZONE"
	EnvNotificationsTarget    = "XCELERATE_NOTIFICATIONS_WEEKLY_TARGET"
	EnvDefaultLocale          = "XCELERATE_DEFAULT_LOCALE"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
