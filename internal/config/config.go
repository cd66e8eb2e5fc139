package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig
	VNPay    VNPayConfig
	MinIO    MinIOConfig
	Jobs     JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	BaseURL     string
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort string
	From     string
}

type VNPayConfig struct {
	TmnCode    string // merchant code issued by VNPay
	HashSecret string // secret key for HMAC-SHA512
	PayURL     string // sandbox or production pay URL
	ReturnURL  string // browser redirect target after payment
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// JobConfig carries the cron specs for the periodic worker jobs.
type JobConfig struct {
	PublishSweepSpec   string // flips scheduled records active
	DiscountExpirySpec string // deactivates expired discount codes
	OrderConfirmSpec   string // auto-confirms stale pending orders
	OrderConfirmAfter  time.Duration
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "PTTech API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Database:       getEnv("DB_NAME", "pttech"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConns:       int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns:       int32(getEnvInt("DB_MIN_CONNS", 5)),
			MaxRetries:     getEnvInt("DB_MAX_RETRIES", 5),
			RetryDelay:     time.Second,
			ConnectTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "change-me-in-production"),
			AccessTokenExpiry:  time.Duration(getEnvInt("JWT_ACCESS_EXPIRY_MIN", 30)) * time.Minute,
			RefreshTokenExpiry: time.Duration(getEnvInt("JWT_REFRESH_EXPIRY_HOURS", 72)) * time.Hour,
		},
		Email: EmailConfig{
			SMTPHost: getEnv("SMTP_HOST", "localhost"),
			SMTPPort: getEnv("SMTP_PORT", "1025"),
			From:     getEnv("EMAIL_FROM", "noreply@pttech.vn"),
		},
		VNPay: VNPayConfig{
			TmnCode:    getEnv("VNPAY_TMN_CODE", ""),
			HashSecret: getEnv("VNPAY_HASH_SECRET", ""),
			PayURL:     getEnv("VNPAY_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			ReturnURL:  getEnv("VNPAY_RETURN_URL", "http://localhost:8080/api/v1/orders/vnpay/return"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "pttech"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Jobs: JobConfig{
			PublishSweepSpec:   getEnv("JOB_PUBLISH_SWEEP_SPEC", "* * * * *"),
			DiscountExpirySpec: getEnv("JOB_DISCOUNT_EXPIRY_SPEC", "0 * * * *"),
			OrderConfirmSpec:   getEnv("JOB_ORDER_CONFIRM_SPEC", "*/30 * * * *"),
			OrderConfirmAfter:  time.Duration(getEnvInt("JOB_ORDER_CONFIRM_AFTER_MIN", 30)) * time.Minute,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "change-me-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.VNPay.HashSecret == "" {
			return fmt.Errorf("VNPAY_HASH_SECRET must be set in production")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
