package config

const (
	EnvPrefix = "BALARCO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:balarco.db?_foreign_keys=on"
)

const (
	EnvAppEnv   = "BALARCO_APP_ENV"
	EnvPort     = "BALARCO_APP_PORT"
	EnvLogLevel = "BALARCO_LOG_LEVEL"

	EnvDBDSN    = "BALARCO_DB_DSN"
	EnvDBDriver = "BALARCO_DB_DRIVER"
	EnvDBHost   = "BALARCO_DB_HOST"
	EnvDBPort   = "BALARCO_DB_PORT"
	EnvDBUser   = "BALARCO_DB_USER"
	EnvDBName   = "BALARCO_DB_NAME"

	EnvRedisURL = "BALARCO_REDIS_URL"

	EnvJWTSecret              = "BALARCO_JWT_SECRET"
	EnvJWTIssuer              = "BALARCO_JWT_ISSUER"
	EnvJWTExpMins             = "BALARCO_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BALARCO_REFRESH_TOKEN_TTL_MINUTES"

	EnvUseSQLite = "BALARCO_USE_SQLITE"

	EnvStorageEndpoint  = "BALARCO_STORAGE_ENDPOINT"
	EnvStorageAccessKey = "BALARCO_STORAGE_ACCESS_KEY_ID"
	EnvStorageSecretKey = "BALARCO_STORAGE_SECRET_ACCESS_KEY"
	EnvStorageBucket    = "BALARCO_STORAGE_BUCKET"
	EnvMaxUploadMB      = "BALARCO_MAX_UPLOAD_MB"

	EnvNotificationsChannelPrefix = "BALARCO_NOTIFICATIONS_CHANNEL_PREFIX"
	EnvWorkflowEnforceTransitions = "BALARCO_WORKFLOW_ENFORCE_TRANSITIONS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
