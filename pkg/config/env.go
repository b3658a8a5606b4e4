package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "WEDSITE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "WEDSITE_APP_ENV"
	EnvPort          = "WEDSITE_APP_PORT"
	EnvPublicBaseURL = "WEDSITE_PUBLIC_BASE_URL"
	EnvDBDSN         = "WEDSITE_DB_DSN"
	EnvDBHost        = "WEDSITE_DB_HOST"
	EnvDBUser        = "WEDSITE_DB_USER"
	EnvDBName        = "WEDSITE_DB_NAME"
	EnvDBPassword    = "WEDSITE_DB_PASSWORD"
	EnvRedisURL      = "WEDSITE_REDIS_URL"
	EnvJWTSecret     = "WEDSITE_JWT_SECRET"
	EnvJWTIssuer     = "WEDSITE_JWT_ISSUER"
	EnvUseSQLite     = "WEDSITE_USE_SQLITE"
	EnvSendgridKey   = "WEDSITE_SENDGRID_API_KEY"
	EnvGCSBucket     = "WEDSITE_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
