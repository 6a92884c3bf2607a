package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Secret wraps a sensitive string so it never shows up in logs or JSON.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Audit stores.
const (
	AuditStoreDatabase = "database"
	AuditStoreMongo    = "mongo"
)

// Config holds application configuration
type Config struct {
	// Server
	Env         string
	Port        string
	LogLevel    string
	CORSOrigins []string

	// MetricsToken, when set, is required in X-API-Key to scrape /metrics.
	MetricsToken Secret

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword Secret
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        Secret
	JWTExpirationDur time.Duration

	// Cache
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword Secret
	RedisDB       int

	// Audit
	AuditStore    string
	MongoURI      Secret
	MongoDatabase string

	// Bootstrap admin, created at startup when no active admin exists.
	AdminEmail    string
	AdminPassword Secret
	AdminName     string
}

// BootstrapAdmin reports whether both bootstrap admin credentials are set.
func (c *Config) BootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword.Value() != ""
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		MetricsToken: Secret(getEnv("METRICS_TOKEN", "")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "siteadmin"),
		DBPassword: Secret(getEnv("DB_PASSWORD", "siteadmin")),
		DBName:     getEnv("DB_NAME", "siteadmin"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: Secret(getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only")),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: Secret(getEnv("REDIS_PASSWORD", "")),

		AuditStore:    strings.ToLower(getEnv("AUDIT_STORE", AuditStoreDatabase)),
		MongoURI:      Secret(getEnv("MONGO_URI", "mongodb://localhost:27017")),
		MongoDatabase: getEnv("MONGO_DATABASE", "siteadmin"),

		AdminEmail:    strings.TrimSpace(getEnv("ADMIN_EMAIL", "")),
		AdminPassword: Secret(getEnv("ADMIN_PASSWORD", "")),
		AdminName:     getEnv("ADMIN_NAME", ""),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	ttlStr := getEnv("CACHE_TTL", "5m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid CACHE_TTL %q: must be a positive duration", ttlStr)
	}
	config.CacheTTL = ttl

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, fmt.Errorf("invalid REDIS_DB: must be a non-negative integer")
	}
	config.RedisDB = redisDB

	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			config.CORSOrigins = append(config.CORSOrigins, o)
		}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	appConfig = config
	return config, nil
}

func (c *Config) validate() error {
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, c.CacheBackend)
	}
	switch c.AuditStore {
	case AuditStoreDatabase, AuditStoreMongo:
	default:
		return fmt.Errorf("AUDIT_STORE must be %q or %q, got %q", AuditStoreDatabase, AuditStoreMongo, c.AuditStore)
	}
	if (c.AdminEmail == "") != (c.AdminPassword.Value() == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.Env == "production" && c.JWTSecret.Value() == "fallback-secret-key-for-dev-only" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the loaded configuration. Tests use it to avoid reading the
// environment.
func Set(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
