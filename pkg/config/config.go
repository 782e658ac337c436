package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App            AppConfig
	Service        ServiceConfig
	DB             DBConfig
	Redis          RedisConfig
	FeatureFlags   FeatureFlagsConfig
	Reconciliation ReconciliationConfig
	Cron           CronConfig
	Eventing       EventingConfig
	GCP            GCPConfig
	PubSub         PubSubConfig
	BigQuery       BigQueryConfig
	Outbox         OutboxConfig
	Security       SecurityConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Reconciliation.validate(); err != nil {
		return nil, err
	}
	if cfg.App.IsProd() && strings.TrimSpace(cfg.Security.CredentialsKey) == "" {
		return nil, fmt.Errorf("%s is required in %s", EnvCredentialsKey, AppEnvProd)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MARKETRECON_APP_ENV" required:"true"`
	Port         string `envconfig:"MARKETRECON_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MARKETRECON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MARKETRECON_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"MARKETRECON_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MARKETRECON_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MARKETRECON_DB_DSN"`
	Driver string `envconfig:"MARKETRECON_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MARKETRECON_DB_HOST"`
	LegacyPort     int    `envconfig:"MARKETRECON_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MARKETRECON_DB_USER"`
	LegacyPassword string `envconfig:"MARKETRECON_DB_PASSWORD"`
	LegacyName     string `envconfig:"MARKETRECON_DB_NAME"`
	LegacySSLMode  string `envconfig:"MARKETRECON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MARKETRECON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MARKETRECON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MARKETRECON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MARKETRECON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MARKETRECON_REDIS_URL" required:"true"`
	Password     string        `envconfig:"MARKETRECON_REDIS_PASSWORD"`
	PoolSize     int           `envconfig:"MARKETRECON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARKETRECON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARKETRECON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARKETRECON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARKETRECON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"MARKETRECON_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"MARKETRECON_SQLITE_PATH" default:"marketrecon.db"`
	AutoMigrate bool   `envconfig:"MARKETRECON_AUTO_MIGRATE" default:"false"`
}

// ReconciliationConfig tunes the sync and reconciliation batches.
type ReconciliationConfig struct {
	WorkerConcurrency     int `envconfig:"MARKETRECON_RECON_WORKER_CONCURRENCY" default:"4"`
	DefaultSyncQuantity   int `envconfig:"MARKETRECON_SYNC_DEFAULT_QUANTITY" default:"10"`
	GeneratorLookbackDays int `envconfig:"MARKETRECON_SYNC_LOOKBACK_DAYS" default:"30"`

	// Fee defaults are parsed as exact decimals.
	DefaultCommissionRate decimal.Decimal `envconfig:"MARKETRECON_FEES_DEFAULT_COMMISSION_RATE" default:"0.15"`
	DefaultFixedFee       decimal.Decimal `envconfig:"MARKETRECON_FEES_DEFAULT_FIXED_FEE" default:"2.50"`
	DefaultProcessingRate decimal.Decimal `envconfig:"MARKETRECON_FEES_DEFAULT_PROCESSING_RATE" default:"0.03"`
}

func (r ReconciliationConfig) validate() error {
	if r.WorkerConcurrency < 1 {
		return fmt.Errorf("%s must be at least 1", EnvReconWorkerConcurrency)
	}
	if r.DefaultSyncQuantity < 1 || r.DefaultSyncQuantity > 100 {
		return fmt.Errorf("%s must be between 1 and 100", EnvSyncDefaultQuantity)
	}
	if r.GeneratorLookbackDays < 1 {
		return fmt.Errorf("%s must be at least 1", EnvSyncLookbackDays)
	}
	for env, v := range map[string]decimal.Decimal{
		EnvFeesCommissionRate: r.DefaultCommissionRate,
		EnvFeesFixedFee:       r.DefaultFixedFee,
		EnvFeesProcessingRate: r.DefaultProcessingRate,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s must not be negative", env)
		}
	}
	return nil
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"MARKETRECON_CRON_INTERVAL" default:"15m"`
	LockTTL         time.Duration `envconfig:"MARKETRECON_CRON_LOCK_TTL" default:"10m"`
	OutboxRetention time.Duration `envconfig:"MARKETRECON_CRON_OUTBOX_RETENTION" default:"720h"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"MARKETRECON_EVENTING_IDEMPOTENCY_TTL" default:"24h"`

	// SyncRateLimit caps sync requests per client IP within SyncRateWindow.
	// Zero disables the limiter.
	SyncRateLimit  int           `envconfig:"MARKETRECON_SYNC_RATE_LIMIT" default:"30"`
	SyncRateWindow time.Duration `envconfig:"MARKETRECON_SYNC_RATE_WINDOW" default:"1m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MARKETRECON_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MARKETRECON_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MARKETRECON_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ReconciliationTopic string `envconfig:"MARKETRECON_PUBSUB_RECONCILIATION_TOPIC" default:"marketrecon-reconciliation-events"`
}

type BigQueryConfig struct {
	Enabled   bool   `envconfig:"MARKETRECON_BIGQUERY_ENABLED" default:"false"`
	Dataset   string `envconfig:"MARKETRECON_BIGQUERY_DATASET" default:"marketrecon"`
	RunsTable string `envconfig:"MARKETRECON_BIGQUERY_RUNS_TABLE" default:"reconciliation_runs"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MARKETRECON_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MARKETRECON_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MARKETRECON_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// SecurityConfig holds the key that seals marketplace account credentials at
// rest. The key is 32 bytes, base64 encoded.
type SecurityConfig struct {
	CredentialsKey string `envconfig:"MARKETRECON_CREDENTIALS_KEY"`
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
