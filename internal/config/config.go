// Package config loads process-wide settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageLocal = "local"
	StorageMinIO = "minio"
	StorageGCS   = "gcs"
)

// Config aggregates application settings sourced from environment variables
// (and an optional .env file).
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Mail     MailConfig     `mapstructure:"mail"`
	Upload   UploadConfig   `mapstructure:"upload"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	GCS      GCSConfig      `mapstructure:"gcs"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port         int    `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	LogLevel     string `mapstructure:"log_level"`
	AllowOrigins string `mapstructure:"allow_origins"`
	RateLimitRPS int    `mapstructure:"rate_limit_rps"`
}

// Origins splits the comma separated allow-list.
func (a APIConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(a.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// DatabaseConfig holds the configuration parameters for connecting to PostgreSQL.
type DatabaseConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	User             string `mapstructure:"user"`
	Password         string `mapstructure:"password"`
	Name             string `mapstructure:"name"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// MailConfig holds SMTP relay credentials.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	FromName string `mapstructure:"from_name"`
}

// Enabled reports whether credentials were provided.
func (m MailConfig) Enabled() bool {
	return m.User != "" && m.Password != ""
}

// UploadConfig controls where resumes go.
type UploadConfig struct {
	Driver    string `mapstructure:"driver"`
	Dir       string `mapstructure:"dir"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
	ClamdAddr string `mapstructure:"clamd_addr"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
}

// GCSConfig contains the Google Cloud Storage bucket name.
type GCSConfig struct {
	Bucket string `mapstructure:"bucket"`
}

// RedisConfig enables the Redis token blacklist when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig enables application status events when URL is set.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// AdminConfig seeds an admin account at startup when both fields are set.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// Load reads configuration from environment variables (with optional defaults).
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 5000)
	v.SetDefault("api.mode", "debug")
	v.SetDefault("api.log_level", "info")
	v.SetDefault("api.allow_origins", "http://localhost:3000")
	v.SetDefault("api.rate_limit_rps", 5)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from_name", "Job Board App")
	v.SetDefault("upload.driver", StorageLocal)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "uploads")
	v.SetDefault("redis.db", 0)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                   "PORT",
		"api.mode":                   "GIN_MODE",
		"api.log_level":              "LOG_LEVEL",
		"api.allow_origins":          "ALLOW_ORIGIN",
		"api.rate_limit_rps":         "RATE_LIMIT_REQUESTS_PER_SECOND",
		"database.connection_string": "DB_CONNECTION_STR",
		"database.host":              "DB_HOST",
		"database.port":              "DB_PORT",
		"database.user":              "DB_USERNAME",
		"database.password":          "DB_PASSWORD",
		"database.name":              "DB_DATABASE",
		"auth.jwt_secret":            "JWT_SECRET",
		"mail.host":                  "SMTP_HOST",
		"mail.port":                  "SMTP_PORT",
		"mail.user":                  "EMAIL_USER",
		"mail.password":              "EMAIL_PASS",
		"mail.from_name":             "EMAIL_FROM_NAME",
		"upload.driver":              "STORAGE_DRIVER",
		"upload.dir":                 "UPLOAD_DIR",
		"upload.max_bytes":           "MAX_UPLOAD_BYTES",
		"upload.clamd_addr":          "CLAMD_ADDR",
		"minio.endpoint":             "MINIO_ENDPOINT",
		"minio.access_key_id":        "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":    "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":              "MINIO_USE_SSL",
		"minio.bucket":               "MINIO_BUCKET",
		"gcs.bucket":                 "GCS_BUCKET",
		"redis.addr":                 "REDIS_ADDR",
		"redis.password":             "REDIS_PASSWORD",
		"redis.db":                   "REDIS_DB",
		"nats.url":                   "NATS_URL",
		"admin.email":                "ADMIN_EMAIL",
		"admin.password":             "ADMIN_PASSWORD",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

// DSN returns the postgres connection string, preferring DB_CONNECTION_STR.
func (d DatabaseConfig) DSN() (string, error) {
	if d.ConnectionString != "" {
		return d.ConnectionString, nil
	}
	if d.Host == "" || d.Port == "" || d.User == "" || d.Password == "" || d.Name == "" {
		return "", errors.New("database configuration is incomplete")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name), nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if _, err := cfg.Database.DSN(); err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	switch cfg.Upload.Driver {
	case StorageLocal:
		if cfg.Upload.Dir == "" {
			return errors.New("upload dir is required for local storage")
		}
	case StorageMinIO:
		if cfg.MinIO.Endpoint == "" || cfg.MinIO.AccessKeyID == "" || cfg.MinIO.SecretAccessKey == "" || cfg.MinIO.Bucket == "" {
			return errors.New("minio endpoint, credentials and bucket are required")
		}
	case StorageGCS:
		if cfg.GCS.Bucket == "" {
			return errors.New("gcs bucket is required")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Upload.Driver)
	}
	return nil
}
