package config

import (
	"log"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// DataDir is the directory holding the durable storage slots
	// (journal entries and user preferences).
	DataDir string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// AuthProvider selects the identity provider adapter: "memory" or "clerk".
	AuthProvider        string
	ClerkBaseURL        string `mapstructure:"CLERK_BASE_URL"`
	ClerkPublishableKey string `mapstructure:"CLERK_PUBLISHABLE_KEY"`

	FrontendBaseURL  string `mapstructure:"FRONTEND_BASE_URL"`
	MantraDailyLimit int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DATA_DIR", "")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "mantra-journal-app")
	viper.SetDefault("AUTH_PROVIDER", "memory")
	viper.SetDefault("CLERK_BASE_URL", "")
	viper.SetDefault("CLERK_PUBLISHABLE_KEY", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("MANTRA_DAILY_LIMIT", 3)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.DataDir = viper.GetString("DATA_DIR")
	if cfg.DataDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			log.Printf("Warning: could not resolve home directory (%v). Using relative data dir.\n", err)
			cfg.DataDir = ".mantra-journal"
		} else {
			cfg.DataDir = filepath.Join(home, ".mantra-journal")
		}
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AuthProvider = viper.GetString("AUTH_PROVIDER")
	cfg.ClerkBaseURL = viper.GetString("CLERK_BASE_URL")
	cfg.ClerkPublishableKey = viper.GetString("CLERK_PUBLISHABLE_KEY")
	if cfg.AuthProvider == "clerk" && cfg.ClerkBaseURL == "" {
		log.Println("Warning: AUTH_PROVIDER is 'clerk' but CLERK_BASE_URL is not set. Auth will not function.")
	}

	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	cfg.MantraDailyLimit = viper.GetInt("MANTRA_DAILY_LIMIT")
	if cfg.MantraDailyLimit <= 0 {
		log.Printf("Warning: MANTRA_DAILY_LIMIT must be positive. Defaulting to 3.\n")
		cfg.MantraDailyLimit = 3
	}

	return cfg, nil
}
