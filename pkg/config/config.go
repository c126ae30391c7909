package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream   UpstreamConfig
	Session    SessionConfig
	Reconciler ReconcilerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Cache      CacheConfig
	Uploads    UploadsConfig
	Exports    ExportsConfig
	Audit      AuditConfig
}

// UpstreamConfig points the gateway at the backing REST API. All three path
// families share one origin.
type UpstreamConfig struct {
	Origin        string
	AdminPrefix   string
	PublicPrefix  string
	UploadsPrefix string
}

// SessionConfig carries the single-credential admin guard settings.
// This is a placeholder guard, not a security boundary; replace with a real
// identity provider before production use.
type SessionConfig struct {
	Username       string
	PasswordBcrypt string
	TokenSecret    string
	TTL            time.Duration
}

// ReconcilerConfig tunes the content reconciliation loop.
type ReconcilerConfig struct {
	// SettleDelay is the wait between a successful CMS write and the
	// authoritative full refetch. The backend derives ongoing-course
	// projections asynchronously; this delay papers over that gap and is
	// overridable (tests set it to zero).
	SettleDelay    time.Duration
	RefreshWorkers int
	RefreshRetries int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs view-model caching.
type CacheConfig struct {
	Enabled      bool
	ContentTTL   time.Duration
	DashboardTTL time.Duration
}

// UploadsConfig selects the image upload path: Cloudinary when a URL is
// configured, otherwise the upstream uploads endpoint, otherwise local disk.
type UploadsConfig struct {
	CloudinaryURL    string
	CloudinaryFolder string
	LocalDir         string
	MaxFileSizeBytes int64
}

// ExportsConfig controls generated report storage.
type ExportsConfig struct {
	StorageDir      string
	CleanupInterval time.Duration
	RetainFor       time.Duration
}

// AuditConfig toggles the Postgres audit trail.
type AuditConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		Origin:        strings.TrimRight(v.GetString("UPSTREAM_ORIGIN"), "/"),
		AdminPrefix:   v.GetString("UPSTREAM_ADMIN_PREFIX"),
		PublicPrefix:  v.GetString("UPSTREAM_PUBLIC_PREFIX"),
		UploadsPrefix: v.GetString("UPSTREAM_UPLOADS_PREFIX"),
	}

	cfg.Session = SessionConfig{
		Username:       v.GetString("ADMIN_USERNAME"),
		PasswordBcrypt: v.GetString("ADMIN_PASSWORD_BCRYPT"),
		TokenSecret:    v.GetString("SESSION_TOKEN_SECRET"),
		TTL:            parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
	}

	cfg.Reconciler = ReconcilerConfig{
		SettleDelay:    parseDuration(v.GetString("RECONCILE_SETTLE_DELAY"), 600*time.Millisecond),
		RefreshWorkers: v.GetInt("RECONCILE_REFRESH_WORKERS"),
		RefreshRetries: v.GetInt("RECONCILE_REFRESH_RETRIES"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:      v.GetBool("ENABLE_CACHE"),
		ContentTTL:   parseDuration(v.GetString("CONTENT_CACHE_TTL"), 1*time.Minute),
		DashboardTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	maxUploadSize := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 5 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		CloudinaryURL:    v.GetString("CLOUDINARY_URL"),
		CloudinaryFolder: v.GetString("CLOUDINARY_FOLDER"),
		LocalDir:         v.GetString("UPLOADS_LOCAL_DIR"),
		MaxFileSizeBytes: maxUploadSize,
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
		RetainFor:       parseDuration(v.GetString("EXPORTS_RETAIN_FOR"), 24*time.Hour),
	}

	cfg.Audit = AuditConfig{
		Enabled: v.GetBool("ENABLE_AUDIT_TRAIL"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("UPSTREAM_ORIGIN", "http://localhost:5000")
	v.SetDefault("UPSTREAM_ADMIN_PREFIX", "/api/admin")
	v.SetDefault("UPSTREAM_PUBLIC_PREFIX", "/api")
	v.SetDefault("UPSTREAM_UPLOADS_PREFIX", "/api/uploads")

	v.SetDefault("ADMIN_USERNAME", "admin")
	// bcrypt of the development password; override in every deployment.
	v.SetDefault("ADMIN_PASSWORD_BCRYPT", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
	v.SetDefault("SESSION_TOKEN_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_TTL", "24h")

	v.SetDefault("RECONCILE_SETTLE_DELAY", "600ms")
	v.SetDefault("RECONCILE_REFRESH_WORKERS", 1)
	v.SetDefault("RECONCILE_REFRESH_RETRIES", 2)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "academy_cms")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CONTENT_CACHE_TTL", "1m")
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("CLOUDINARY_FOLDER", "academy_cms")
	v.SetDefault("UPLOADS_LOCAL_DIR", "./uploads")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 5*1024*1024)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("EXPORTS_RETAIN_FOR", "24h")

	v.SetDefault("ENABLE_AUDIT_TRAIL", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
