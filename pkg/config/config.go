package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// Session
	SessionSecret string
	CookieSecure  string

	// JWT (JSON API)
	JWTSecret    string
	JWTExpiresIn string

	// Image storage
	GCPBucketName                string
	GoogleApplicationCredentials string
	UploadDir                    string

	// Logging
	LogLevel  string
	LogFormat string

	// Allowed Origins for the JSON API
	AllowedOrigins string

	Site SiteInfo
}

// SiteInfo is the branding shown in every page footer and on the contact page.
type SiteInfo struct {
	Name         string `mapstructure:"name"`
	Tagline      string `mapstructure:"tagline"`
	ContactEmail string `mapstructure:"contact_email"`
	ContactPhone string `mapstructure:"contact_phone"`
	City         string `mapstructure:"city"`
}

var AppConfig *Config

// LoadConfig loads environment variables into Config struct
func LoadConfig() {
	// Load .env file if it exists (optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:                         getEnv("PORT", "8000"),
		Environment:                  getEnv("APP_ENV", "development"),
		DatabaseURL:                  getEnv("DATABASE_URL", ""),
		SessionSecret:                getEnv("SESSION_SECRET", ""),
		CookieSecure:                 getEnv("COOKIE_SECURE", "false"),
		JWTSecret:                    getEnv("JWT_SECRET", ""),
		JWTExpiresIn:                 getEnv("JWT_EXPIRES_IN", "7d"),
		GCPBucketName:                getEnv("GCP_BUCKET_NAME", ""),
		GoogleApplicationCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		UploadDir:                    getEnv("UPLOAD_DIR", "media"),
		LogLevel:                     getEnv("LOG_LEVEL", "info"),
		LogFormat:                    getEnv("LOG_FORMAT", "text"),
		AllowedOrigins:               getEnv("ALLOWED_ORIGINS", ""),
		Site:                         LoadSiteInfo(getEnv("SITE_CONFIG", "config/site.toml")),
	}

	// Validate required config
	if AppConfig.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if AppConfig.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}
	if err := resolveJWTSecret(AppConfig); err != nil {
		log.Fatal(err)
	}

	log.Println("✅ Configuration loaded successfully")
}

// resolveJWTSecret requires a JWT_SECRET of its own in production. Elsewhere a
// missing one falls back to the session secret with a warning.
func resolveJWTSecret(cfg *Config) error {
	if cfg.JWTSecret != "" && cfg.JWTSecret != cfg.SessionSecret {
		return nil
	}
	if cfg.Environment == "production" {
		return errors.New("JWT_SECRET is required in production and must differ from SESSION_SECRET")
	}
	if cfg.JWTSecret == "" {
		log.Println("⚠️  JWT_SECRET not set, signing API tokens with SESSION_SECRET")
		cfg.JWTSecret = cfg.SessionSecret
	}
	return nil
}

// LoadSiteInfo reads the [site] table of a TOML file. Missing files fall back
// to DefaultSiteInfo.
func LoadSiteInfo(path string) SiteInfo {
	site := DefaultSiteInfo()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("⚠️  %s not found, using default site info: %v", path, err)
		return site
	}
	if err := v.UnmarshalKey("site", &site); err != nil {
		log.Printf("⚠️  Failed to read site info from %s: %v", path, err)
		return DefaultSiteInfo()
	}
	return site
}

// DefaultSiteInfo is used when no site.toml is present.
func DefaultSiteInfo() SiteInfo {
	return SiteInfo{
		Name:    "HomeChef",
		Tagline: "Home-cooked food from chefs in your neighbourhood",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProduction returns true if running in production mode
func IsProduction() bool {
	return AppConfig.Environment == "production"
}

// IsDevelopment returns true if running in development mode
func IsDevelopment() bool {
	return AppConfig.Environment == "development" || AppConfig.Environment == ""
}

// CookiesSecure reports whether session cookies should carry the Secure flag.
func CookiesSecure() bool {
	return strings.EqualFold(strings.TrimSpace(AppConfig.CookieSecure), "true")
}
