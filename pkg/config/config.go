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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Storage       StorageConfig
	Notifications NotificationsConfig
	Workflow      WorkflowConfig
	Cron          CronConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"BALARCO_APP_ENV" required:"true"`
	Port         string   `envconfig:"BALARCO_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"BALARCO_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"BALARCO_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"BALARCO_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BALARCO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BALARCO_DB_DSN"`
	Driver string `envconfig:"BALARCO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BALARCO_DB_HOST"`
	LegacyPort     int    `envconfig:"BALARCO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BALARCO_DB_USER"`
	LegacyPassword string `envconfig:"BALARCO_DB_PASSWORD"`
	LegacyName     string `envconfig:"BALARCO_DB_NAME"`
	LegacySSLMode  string `envconfig:"BALARCO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BALARCO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BALARCO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BALARCO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BALARCO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"BALARCO_REDIS_URL"`
	Address      string        `envconfig:"BALARCO_REDIS_ADDR"`
	Password     string        `envconfig:"BALARCO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BALARCO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BALARCO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BALARCO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BALARCO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BALARCO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BALARCO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BALARCO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BALARCO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BALARCO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BALARCO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BALARCO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BALARCO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BALARCO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BALARCO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BALARCO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BALARCO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BALARCO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BALARCO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BALARCO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BALARCO_AUTO_MIGRATE" default:"false"`
}

// StorageConfig points at the S3 compatible bucket holding work files.
type StorageConfig struct {
	Endpoint        string `envconfig:"BALARCO_STORAGE_ENDPOINT" required:"true"`
	AccessKeyID     string `envconfig:"BALARCO_STORAGE_ACCESS_KEY_ID" required:"true"`
	SecretAccessKey string `envconfig:"BALARCO_STORAGE_SECRET_ACCESS_KEY" required:"true"`
	Bucket          string `envconfig:"BALARCO_STORAGE_BUCKET" default:"balarco-works"`
	Region          string `envconfig:"BALARCO_STORAGE_REGION"`
	UseSSL          bool   `envconfig:"BALARCO_STORAGE_USE_SSL" default:"true"`
	MaxUploadMB     int    `envconfig:"BALARCO_MAX_UPLOAD_MB" default:"50"`
}

// MaxUploadBytes returns the per-file upload cap.
func (s StorageConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 0
	}
	return int64(s.MaxUploadMB) << 20
}

type NotificationsConfig struct {
	ChannelPrefix string `envconfig:"BALARCO_NOTIFICATIONS_CHANNEL_PREFIX" default:"user"`
	RetentionDays int    `envconfig:"BALARCO_NOTIFICATIONS_RETENTION_DAYS" default:"30"`
}

type WorkflowConfig struct {
	EnforceTransitions bool `envconfig:"BALARCO_WORKFLOW_ENFORCE_TRANSITIONS" default:"true"`
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"BALARCO_CRON_INTERVAL" default:"24h"`
	JobTimeout time.Duration `envconfig:"BALARCO_CRON_JOB_TIMEOUT" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
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
