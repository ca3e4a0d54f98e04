package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Reservation engine tuning.
	HoldDurationMin  int `mapstructure:"HOLD_DURATION_MIN"`  // default soft-hold lifetime
	SweepIntervalSec int `mapstructure:"SWEEP_INTERVAL_SEC"` // expiry sweep cadence
	HorizonDays      int `mapstructure:"HORIZON_DAYS"`       // rolling slot generation horizon
	AvailCacheSec    int `mapstructure:"AVAIL_CACHE_SEC"`    // availability response cache TTL
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("HOLD_DURATION_MIN", 15)
	viper.SetDefault("SWEEP_INTERVAL_SEC", 30)
	viper.SetDefault("HORIZON_DAYS", 30)
	viper.SetDefault("AVAIL_CACHE_SEC", 10)

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

// HoldDuration returns the configured default soft-hold lifetime.
func HoldDuration() time.Duration {
	return time.Duration(AppConfig.HoldDurationMin) * time.Minute
}

// SweepInterval returns the configured expiry sweep cadence.
func SweepInterval() time.Duration {
	return time.Duration(AppConfig.SweepIntervalSec) * time.Second
}
