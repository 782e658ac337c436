package config

const (
	EnvPrefix = "MARKETRECON"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "MARKETRECON_APP_ENV"
	EnvPort     = "MARKETRECON_APP_PORT"
	EnvLogLevel = "MARKETRECON_LOG_LEVEL"

	EnvDBDSN  = "MARKETRECON_DB_DSN"
	EnvDBHost = "MARKETRECON_DB_HOST"
	EnvDBUser = "MARKETRECON_DB_USER"
	EnvDBName = "MARKETRECON_DB_NAME"

	EnvRedisURL = "MARKETRECON_REDIS_URL"

	EnvReconWorkerConcurrency = "MARKETRECON_RECON_WORKER_CONCURRENCY"
	EnvSyncDefaultQuantity    = "MARKETRECON_SYNC_DEFAULT_QUANTITY"
	EnvSyncLookbackDays       = "MARKETRECON_SYNC_LOOKBACK_DAYS"

	EnvFeesCommissionRate = "MARKETRECON_FEES_DEFAULT_COMMISSION_RATE"
	EnvFeesFixedFee       = "MARKETRECON_FEES_DEFAULT_FIXED_FEE"
	EnvFeesProcessingRate = "MARKETRECON_FEES_DEFAULT_PROCESSING_RATE"

	EnvCredentialsKey = "MARKETRECON_CREDENTIALS_KEY"

	EnvPubSubReconciliationTopic = "MARKETRECON_PUBSUB_RECONCILIATION_TOPIC"
	EnvBigQueryEnabled           = "MARKETRECON_BIGQUERY_ENABLED"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
