package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GoogleMaps   GoogleMapsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Stationery   StationeryConfig
	Sendgrid     SendgridConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	} else if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.App.validateBaseURL(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env           string   `envconfig:"WEDSITE_APP_ENV" required:"true"`
	Port          string   `envconfig:"WEDSITE_APP_PORT" required:"true"`
	LogLevel      string   `envconfig:"WEDSITE_LOG_LEVEL" default:"info"`
	LogWarnStack  bool     `envconfig:"WEDSITE_LOG_WARN_STACK" default:"false"`
	LogFormat     string   `envconfig:"WEDSITE_LOG_FORMAT" default:"json"`
	PublicBaseURL string   `envconfig:"WEDSITE_PUBLIC_BASE_URL" required:"true"`
	CORSOrigins   []string `envconfig:"WEDSITE_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

func (a AppConfig) validateBaseURL() error {
	u, err := url.Parse(strings.TrimSpace(a.PublicBaseURL))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", EnvPublicBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvPublicBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", EnvPublicBaseURL)
	}
	return nil
}

type DBConfig struct {
	DSN        string `envconfig:"WEDSITE_DB_DSN"`
	Driver     string `envconfig:"WEDSITE_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"WEDSITE_DB_SQLITE_PATH" default:"wedsite.db"`

	LegacyHost     string `envconfig:"WEDSITE_DB_HOST"`
	LegacyPort     int    `envconfig:"WEDSITE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WEDSITE_DB_USER"`
	LegacyPassword string `envconfig:"WEDSITE_DB_PASSWORD"`
	LegacyName     string `envconfig:"WEDSITE_DB_NAME"`
	LegacySSLMode  string `envconfig:"WEDSITE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WEDSITE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WEDSITE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WEDSITE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WEDSITE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WEDSITE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WEDSITE_REDIS_ADDR"`
	Password     string        `envconfig:"WEDSITE_REDIS_PASSWORD"`
	DB           int           `envconfig:"WEDSITE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WEDSITE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WEDSITE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WEDSITE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WEDSITE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WEDSITE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes how planner access tokens issued by the identity provider are verified.
type JWTConfig struct {
	Secret string `envconfig:"WEDSITE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"WEDSITE_JWT_ISSUER" required:"true"`
}

// RateLimitConfig throttles the unauthenticated couple-facing endpoints.
type RateLimitConfig struct {
	PublicWindow     time.Duration `envconfig:"WEDSITE_RATE_LIMIT_PUBLIC_WINDOW" default:"1m"`
	PublicIPLimit    int           `envconfig:"WEDSITE_RATE_LIMIT_PUBLIC_IP_LIMIT" default:"30"`
	PublicTokenLimit int           `envconfig:"WEDSITE_RATE_LIMIT_PUBLIC_TOKEN_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WEDSITE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WEDSITE_AUTO_MIGRATE" default:"false"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"WEDSITE_GOOGLE_MAPS_API_KEY"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"WEDSITE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"WEDSITE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"WEDSITE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"WEDSITE_GCS_BUCKET_NAME"`
	UploadURLExpiry time.Duration `envconfig:"WEDSITE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	PublicBaseURL   string        `envconfig:"WEDSITE_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

// Enabled reports whether stationery uploads can be signed.
func (g GCSConfig) Enabled() bool {
	return strings.TrimSpace(g.BucketName) != ""
}

type StationeryConfig struct {
	MaxUploadMB int `envconfig:"WEDSITE_STATIONERY_MAX_UPLOAD_MB" default:"15"`
}

// MaxUploadBytes converts the configured megabyte cap into bytes.
func (s StationeryConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 0
	}
	return int64(s.MaxUploadMB) * 1024 * 1024
}

type SendgridConfig struct {
	APIKey              string `envconfig:"WEDSITE_SENDGRID_API_KEY"`
	DefaultFrom         string `envconfig:"WEDSITE_SENDGRID_FROM_EMAIL" default:"invitations@wedsite.app"`
	DefaultFromName     string `envconfig:"WEDSITE_SENDGRID_FROM_NAME" default:"Wedsite Invitations"`
	DefaultPlannerEmail string `envconfig:"WEDSITE_DEFAULT_PLANNER_EMAIL"`
}

// Enabled reports whether outbound email should go through SendGrid.
func (s SendgridConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != ""
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
