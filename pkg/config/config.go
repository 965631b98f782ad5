package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Notifications NotificationsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Notifications.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"XCELERATE_APP_ENV" required:"true"`
	Port         string `envconfig:"XCELERATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"XCELERATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"XCELERATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"XCELERATE_DB_DSN"`
	Driver string `envconfig:"XCELERATE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"XCELERATE_DB_HOST"`
	Port     int    `envconfig:"XCELERATE_DB_PORT" default:"5432"`
	User     string `envconfig:"XCELERATE_DB_USER"`
	Password string `envconfig:"XCELERATE_DB_PASSWORD"`
	Name     string `envconfig:"XCELERATE_DB_NAME"`
	SSLMode  string `envconfig:"XCELERATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"XCELERATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"XCELERATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"XCELERATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"XCELERATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"XCELERATE_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"XCELERATE_REDIS_URL"`
	Address      string        `envconfig:"XCELERATE_REDIS_ADDR"`
	Password     string        `envconfig:"XCELERATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"XCELERATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"XCELERATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"XCELERATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"XCELERATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"XCELERATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"XCELERATE_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"XCELERATE_REDIS_KEY_PREFIX" default:"xc"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"XCELERATE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"XCELERATE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"XCELERATE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"XCELERATE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"XCELERATE_PASSWORD_MIN_LENGTH" default:"6"`
	ArgonMemoryKB    int `envconfig:"XCELERATE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"XCELERATE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"XCELERATE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"XCELERATE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"XCELERATE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"XCELERATE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"XCELERATE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"XCELERATE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"XCELERATE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"XCELERATE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"XCELERATE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RateLimitConfig drives the in-process token bucket applied to authenticated routes.
type RateLimitConfig struct {
	Requests int           `envconfig:"XCELERATE_RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"XCELERATE_RATE_LIMIT_WINDOW" default:"1m"`
	IdleTTL  time.Duration `envconfig:"XCELERATE_RATE_LIMIT_IDLE_TTL" default:"10m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"XCELERATE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"XCELERATE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"XCELERATE_AUTO_MIGRATE" default:"false"`
}

// NotificationsConfig tunes activity notification derivation.
type NotificationsConfig struct {
	Timezone        string        `envconfig:"XCELERATE_NOTIFICATIONS_TIMEZONE" default:"Asia/Jakarta"`
	WeeklyTarget    int           `envconfig:"XCELERATE_NOTIFICATIONS_WEEKLY_TARGET" default:"5"`
	RefreshInterval time.Duration `envconfig:"XCELERATE_NOTIFICATIONS_REFRESH_INTERVAL" default:"1h"`
	ReadStateTTL    time.Duration `envconfig:"XCELERATE_NOTIFICATIONS_READ_STATE_TTL" default:"720h"`
	DefaultLocale   string        `envconfig:"XCELERATE_DEFAULT_LOCALE" default:"id"`
}

// Location resolves the configured timezone, falling back to UTC when unset.
func (n NotificationsConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(n.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s %q: %w", EnvNotificationsTimezone, name, err)
	}
	return loc, nil
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if parts[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
