package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort      string `mapstructure:"APP_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB       int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB       int    `mapstructure:"REDIS_QUEUE_DB"`
	RedisRetryCooldown int    `mapstructure:"REDIS_RETRY_COOLDOWN_SEC"`

	// Response cache.
	CacheDefaultTTL int `mapstructure:"CACHE_DEFAULT_TTL_SEC"`
	CacheWorkers    int `mapstructure:"CACHE_WORKERS"`
	CacheQueueSize  int `mapstructure:"CACHE_QUEUE_SIZE"`

	// Scheduling.
	Timezone          string `mapstructure:"TIMEZONE"`
	SlotStepMinutes   int    `mapstructure:"SLOT_STEP_MINUTES"`
	ReminderLeadHours int    `mapstructure:"REMINDER_LEAD_HOURS"`

	// API keys.
	APIKeyHeader     string `mapstructure:"API_KEY_HEADER"`
	APIKeyQueryParam string `mapstructure:"API_KEY_QUERY_PARAM"`
	APIKeyCacheTTL   int    `mapstructure:"API_KEY_CACHE_TTL_SEC"`
	AdminJWTSecret   string `mapstructure:"ADMIN_JWT_SECRET"`

	// Third parties.
	HCaptchaSecret    string `mapstructure:"HCAPTCHA_SECRET_KEY"`
	HCaptchaVerifyURL string `mapstructure:"HCAPTCHA_VERIFY_URL"`
	ResendAPIKey      string `mapstructure:"RESEND_API_KEY"`
	MailFrom          string `mapstructure:"MAIL_FROM"`

	// Abuse protection.
	RateLimitBookings int `mapstructure:"RATE_LIMIT_BOOKINGS"`
	RateLimitWindow   int `mapstructure:"RATE_LIMIT_WINDOW_SEC"`
	DuplicateGuardTTL int `mapstructure:"DUPLICATE_GUARD_TTL_SEC"`
	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Header a trusted proxy sets to the caller address, e.g. CF-Connecting-IP.
	ClientIPHeader string `mapstructure:"CLIENT_IP_HEADER"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "salonbook")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("REDIS_RETRY_COOLDOWN_SEC", 5)
	viper.SetDefault("CACHE_DEFAULT_TTL_SEC", 300)
	viper.SetDefault("CACHE_WORKERS", 4)
	viper.SetDefault("CACHE_QUEUE_SIZE", 256)
	viper.SetDefault("TIMEZONE", "Europe/London")
	viper.SetDefault("SLOT_STEP_MINUTES", 10)
	viper.SetDefault("REMINDER_LEAD_HOURS", 24)
	viper.SetDefault("API_KEY_HEADER", "x-api-key")
	viper.SetDefault("API_KEY_QUERY_PARAM", "api_key")
	viper.SetDefault("API_KEY_CACHE_TTL_SEC", 86400)
	viper.SetDefault("ADMIN_JWT_SECRET", "")
	viper.SetDefault("HCAPTCHA_SECRET_KEY", "")
	viper.SetDefault("HCAPTCHA_VERIFY_URL", "https://hcaptcha.com/siteverify")
	viper.SetDefault("RESEND_API_KEY", "")
	viper.SetDefault("MAIL_FROM", "Bookings <bookings@example.com>")
	viper.SetDefault("RATE_LIMIT_BOOKINGS", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SEC", 60)
	viper.SetDefault("DUPLICATE_GUARD_TTL_SEC", 300)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("CLIENT_IP_HEADER", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
