package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Security    SecurityConfig
	Mail        MailConfig
	OpenBanking OpenBankingConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
	Jobs        JobsConfig
	Storage     StorageConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// Pool limits. Zero values fall back to the datasource defaults.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL       string
	Password  string
	PoolSize  int
	KeyPrefix string
}

// JWTConfig holds the signing secrets and lifetimes of both token kinds.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SecurityConfig holds the at-rest sealing key (32-byte hex string) for bank tokens and link sessions.
type SecurityConfig struct {
	BankTokenKey string
}

// MailConfig holds outbound mail settings. An empty ResendAPIKey logs mails instead of sending them.
type MailConfig struct {
	ResendAPIKey string
	From         string
	QueueSize    int
}

// OpenBankingConfig holds settings of the bank data source
type OpenBankingConfig struct {
	DefaultIdentity string
}

// RateLimitConfig holds per-client throttling of public auth routes
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	TTL               time.Duration
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
	File  string
}

// JobsConfig holds background job intervals
type JobsConfig struct {
	SessionCleanupInterval time.Duration
}

// StorageConfig locates uploaded files. PublicURL is the path the server serves Dir under.
type StorageConfig struct {
	Dir       string
	PublicURL string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "p2p_lending"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 0),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 0),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 0),
		},
		Redis: RedisConfig{
			URL:       getEnv("REDIS_URL", "redis://localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			PoolSize:  getEnvAsInt("REDIS_POOL_SIZE", 10),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "p2p:"),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-this-access-secret"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-this-refresh-secret"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			BankTokenKey: getEnv("BANK_TOKEN_KEY", "0000000000000000000000000000000000000000000000000000000000000000"),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("MAIL_FROM", "P2P Lending <no-reply@p2p-lending.local>"),
			QueueSize:    getEnvAsInt("MAIL_QUEUE_SIZE", 100),
		},
		OpenBanking: OpenBankingConfig{
			DefaultIdentity: getEnv("OPEN_BANKING_DEFAULT_IDENTITY", "demo_user"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 5),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
			TTL:               getEnvAsDuration("RATE_LIMIT_TTL", 10*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Jobs: JobsConfig{
			SessionCleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", time.Hour),
		},
		Storage: StorageConfig{
			Dir:       getEnv("STORAGE_DIR", "./uploads"),
			PublicURL: getEnv("STORAGE_PUBLIC_URL", "/uploads"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
