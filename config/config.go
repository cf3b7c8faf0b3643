package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Stripe (payment collaborator).
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Booking engine defaults, resolved once here rather than scattered
	// through transition logic.
	DefaultSlotIntervalMinutes int    `mapstructure:"DEFAULT_SLOT_INTERVAL_MINUTES"`
	DefaultCurrency            string `mapstructure:"DEFAULT_CURRENCY"`
	AvailabilityCacheTTLSecs   int    `mapstructure:"AVAILABILITY_CACHE_TTL_SECS"`
	PlatformFeePercent         int    `mapstructure:"PLATFORM_FEE_PERCENT"`
}

var AppConfig Config

func LoadConfig() {
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
	viper.SetDefault("DATABASE_NAME", "glowbook")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("DEFAULT_SLOT_INTERVAL_MINUTES", 30)
	viper.SetDefault("DEFAULT_CURRENCY", "usd")
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SECS", 60)
	viper.SetDefault("PLATFORM_FEE_PERCENT", 10)

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
