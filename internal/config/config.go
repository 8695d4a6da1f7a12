package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"

	// DefaultAdminEmail is the only address allowed to log in as admin unless
	// ADMIN_EMAIL overrides it.
	DefaultAdminEmail = "admin@docky.com"

	developmentJWTSecret = "super-secret-key"
)

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Environment string   `json:"environment"`
	Port        int      `json:"port"`
	Host        string   `json:"host"`
	CORSOrigins []string `json:"cors_origins"`
	Swagger     bool     `json:"swagger"`

	// Database configuration
	DatabaseURL      string `json:"database_url"`
	DBDriver         string `json:"db_driver"`
	DBPath           string `json:"db_path"`
	DBConnectRetries int    `json:"db_connect_retries"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret     string `json:"jwt_secret"`
	AdminEmail    string `json:"admin_email"`
	AdminName     string `json:"admin_name"`
	AdminPassword string `json:"admin_password"`

	// Document storage
	StorageDriver string `json:"storage_driver"`
	UploadDir     string `json:"upload_dir"`
	MaxUploadMB   int    `json:"max_upload_mb"`
	S3Bucket      string `json:"s3_bucket"`
	S3Region      string `json:"s3_region"`
	S3Endpoint    string `json:"s3_endpoint"`
	S3AccessKey   string `json:"s3_access_key"`
	S3SecretKey   string `json:"s3_secret_key"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, CORSOrigins: %v, DatabaseURL: %s, DBDriver: %s, DBPath: %s, LogLevel: %s, JWTSecret: [REDACTED], AdminEmail: %s, AdminPassword: %s, StorageDriver: %s, UploadDir: %s, MaxUploadMB: %d, S3Bucket: %s, S3Region: %s, S3Endpoint: %s, S3AccessKey: %s, S3SecretKey: [REDACTED]}",
		c.Environment, c.Port, c.Host, c.CORSOrigins, maskDatabaseURL(c.DatabaseURL), c.DBDriver, c.DBPath, c.LogLevel,
		c.AdminEmail, maskIfSet(c.AdminPassword), c.StorageDriver, c.UploadDir, c.MaxUploadMB,
		c.S3Bucket, c.S3Region, c.S3Endpoint, c.S3AccessKey)
}

// MaxUploadBytes is the request body limit applied to uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func maskIfSet(v string) string {
	if v == "" {
		return ""
	}
	return "[REDACTED]"
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), "REDACTED")
		}
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any environment variable is present but malformed, or if a
// value required by the selected environment is missing
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	maxUpload, err := strconv.Atoi(GetEnvWithDefault("MAX_UPLOAD_MB", "32"))
	if err != nil || maxUpload <= 0 {
		return nil, errors.New("MAX_UPLOAD_MB must be a positive integer")
	}

	environment := GetEnvWithDefault("APP_ENV", "development")

	dbURL := GetEnvWithDefault("DATABASE_URL", "")
	if dbURL != "" {
		if _, err := url.ParseRequestURI(dbURL); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL format: %w", err)
		}
	}
	defaultDriver := "sqlite"
	if dbURL != "" {
		defaultDriver = "postgres"
	}

	jwtSecret := GetEnvWithDefault("JWT_SECRET", "")
	if jwtSecret == "" {
		if environment == "production" {
			return nil, errors.New("JWT_SECRET environment variable is required in production")
		}
		jwtSecret = developmentJWTSecret
	}

	storageDriver := strings.ToLower(GetEnvWithDefault("STORAGE_DRIVER", StorageLocal))
	if storageDriver != StorageLocal && storageDriver != StorageS3 {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER: %s (supported: local, s3)", storageDriver)
	}

	config := &Config{
		Environment:      environment,
		Port:             port,
		Host:             GetEnvWithDefault("APP_HOST", "0.0.0.0"),
		CORSOrigins:      splitList(GetEnvWithDefault("CORS_ORIGINS", "*")),
		Swagger:          GetEnvAsType("SWAGGER_ENABLED", true),
		DatabaseURL:      dbURL,
		DBDriver:         strings.ToLower(GetEnvWithDefault("DB_DRIVER", defaultDriver)),
		DBPath:           GetEnvWithDefault("DB_PATH", "docky.db"),
		DBConnectRetries: GetEnvAsType("DB_CONNECT_RETRIES", 5),
		LogLevel:         GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:        jwtSecret,
		AdminEmail:       GetEnvWithDefault("ADMIN_EMAIL", DefaultAdminEmail),
		AdminName:        GetEnvWithDefault("ADMIN_NAME", "Admin"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		StorageDriver:    storageDriver,
		UploadDir:        GetEnvWithDefault("UPLOAD_DIR", "uploads"),
		MaxUploadMB:      maxUpload,
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         GetEnvWithDefault("S3_REGION", "us-east-1"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
	}
	if config.StorageDriver == StorageS3 && config.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// LevelForEnvironment picks the default log level for an APP_ENV value.
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
