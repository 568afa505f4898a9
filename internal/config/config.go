package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds environment-based settings.
type Config struct {
	ServerAddress  string
	StoreBackend   string // "json" or "postgres"
	DataDir        string
	DatabaseURL    string
	MigrationsPath string
	TokenSecret    string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	CacheTTL      time.Duration

	UploadDir     string
	MaxUploadSize int64

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// .env is a development convenience; absence is fine
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("STORE_BACKEND", "json")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("MIGRATIONS_PATH", "./migrations")
	viper.SetDefault("CACHE_TTL", "30s")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("MAX_UPLOAD_SIZE", 10<<20)

	cfg := &Config{
		ServerAddress:  viper.GetString("SERVER_ADDRESS"),
		StoreBackend:   viper.GetString("STORE_BACKEND"),
		DataDir:        viper.GetString("DATA_DIR"),
		DatabaseURL:    viper.GetString("DATABASE_URL"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		TokenSecret:    viper.GetString("TOKEN_SECRET"),

		RedisAddress:  viper.GetString("REDIS_ADDRESS"),
		RedisUsername: viper.GetString("REDIS_USERNAME"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		CacheTTL:      viper.GetDuration("CACHE_TTL"),

		UploadDir:     viper.GetString("UPLOAD_DIR"),
		MaxUploadSize: viper.GetInt64("MAX_UPLOAD_SIZE"),

		UseSpaces:       viper.GetBool("USE_SPACES"),
		SpacesEndpoint:  viper.GetString("SPACES_ENDPOINT"),
		SpacesRegion:    viper.GetString("SPACES_REGION"),
		SpacesBucket:    viper.GetString("SPACES_BUCKET"),
		SpacesCDNURL:    viper.GetString("SPACES_CDN_URL"),
		SpacesAccessKey: viper.GetString("SPACES_ACCESS_KEY"),
		SpacesSecretKey: viper.GetString("SPACES_SECRET_KEY"),
	}

	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}
	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
	}
	if cfg.StoreBackend != "postgres" && cfg.StoreBackend != "json" {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}
