package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	aws_pkg "github.com/haxllo/ar-alphaya-jewellery-sub002/pkg/aws"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Port string
	Env  string

	RedisURL string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	// PayHere merchant credentials. An empty secret is tolerated at boot so
	// the rest of the storefront stays up, but every notify call will fail
	// with a configuration error until it is set.
	PayHereMerchantID     string
	PayHereMerchantSecret string

	// Exchange-rates provider
	RatesAPIBaseURL string
	BaseCurrency    string
	RatesCacheTTL   time.Duration

	KafkaBrokers       string
	CheckoutTopic      string
	PaymentEventsTopic string
	PaymentSNSTopicARN string

	JWTSecret string
	CartTTL   time.Duration
}

// Load reads configuration from the environment with optional Secrets
// Manager override for the merchant secret and DB credentials.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// No .env file is fine in deployed environments.
	}

	cfg := &Config{
		Port: getEnv("PORT", "8093"),
		Env:  getEnv("APP_ENV", "development"),

		RedisURL: getEnv("REDIS_URL", "redis://redis:6379"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Colombo"),

		PayHereMerchantID:     os.Getenv("PAYHERE_MERCHANT_ID"),
		PayHereMerchantSecret: os.Getenv("PAYHERE_MERCHANT_SECRET"),

		RatesAPIBaseURL: getEnv("RATES_API_BASE_URL", "https://api.exchangerate.host"),
		BaseCurrency:    getEnv("BASE_CURRENCY", "USD"),
		RatesCacheTTL:   getDurationSeconds("RATES_CACHE_TTL", 3600),

		KafkaBrokers:       getEnv("KAFKA_BROKERS", "localhost:9092"),
		CheckoutTopic:      getEnv("KAFKA_CHECKOUT_TOPIC", "checkout.requested"),
		PaymentEventsTopic: getEnv("KAFKA_PAYMENT_TOPIC", "payment.events"),
		PaymentSNSTopicARN: os.Getenv("PAYMENT_SNS_TOPIC_ARN"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key"),
		CartTTL:   time.Hour * 24 * 30, // carts live for 30 days
	}

	// Override sensitive values from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)
			if v, err := sm.GetSecret(context.Background(), "storefront/PAYHERE_MERCHANT_SECRET"); err == nil && v != "" {
				cfg.PayHereMerchantSecret = v
			}
			if dbjson, err := sm.GetSecret(context.Background(), "storefront/DB_CREDENTIALS"); err == nil && dbjson != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(dbjson), &m); err == nil {
					if v, ok := m["POSTGRES_USER"]; ok && v != "" {
						cfg.PostgresUser = v
					}
					if v, ok := m["POSTGRES_PASSWORD"]; ok && v != "" {
						cfg.PostgresPassword = v
					}
					if v, ok := m["POSTGRES_DB"]; ok && v != "" {
						cfg.PostgresDB = v
					}
					if v, ok := m["POSTGRES_HOST"]; ok && v != "" {
						cfg.PostgresHost = v
					}
				}
			}
		}
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationSeconds(key string, fallback int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
