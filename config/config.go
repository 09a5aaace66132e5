package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"medbrain/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string
	JWTExpiry time.Duration

	AIServiceURL     string
	AIServiceTimeout time.Duration

	AWSRegion  string
	SNSFCMArn  string
	SNSAPNSArn string
}

func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional outside development

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "medbrain"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "medbrain"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRES_HOURS", 168)) * time.Hour,

		AIServiceURL:     getEnv("AI_SERVICE_URL", "http://localhost:8001"),
		AIServiceTimeout: time.Duration(getEnvInt("AI_SERVICE_TIMEOUT_MS", 30000)) * time.Millisecond,

		AWSRegion:  getEnv("AWS_REGION", "ap-south-1"),
		SNSFCMArn:  os.Getenv("SNS_FCM_ARN"),
		SNSAPNSArn: os.Getenv("SNS_APNS_ARN"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.AIServiceTimeout <= 0 {
		return errors.New("AI_SERVICE_TIMEOUT_MS must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// ConnectDB opens the Postgres connection and migrates the schema.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.DailyMetric{},
		&models.AIInsight{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.UserDevice{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
