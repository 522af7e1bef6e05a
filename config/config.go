package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL string
	Port        string
	GoEnv       string
	AdminAPIKey string

	// PhonePe payment gateway
	PhonePeMerchantID  string
	PhonePeSaltKey     string
	PhonePeSaltIndex   string
	PhonePeEnv         string // "production" or "sandbox"
	PhonePeRedirectURL string
	PhonePeCallbackURL string

	// Notifications
	NotificationMethod string // "whatsapp", "email", "both", "none"
	BusinessName       string
	BusinessPhone      string
	WhatsAppProvider   string // "callmebot" or "link"
	CallMeBotAPIKey    string
	CallMeBotPhone     string
	SMTPHost           string
	SMTPPort           int
	EmailUser          string
	EmailPassword      string

	KeepAliveEnabled bool
	LogLevel         string
}

var configInstance *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// In production (Render), environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		GoEnv:       getEnv("GO_ENV", "development"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		PhonePeMerchantID:  getEnv("PHONEPE_MERCHANT_ID", ""),
		PhonePeSaltKey:     getEnv("PHONEPE_SALT_KEY", ""),
		PhonePeSaltIndex:   getEnv("PHONEPE_SALT_INDEX", "1"),
		PhonePeEnv:         getEnv("PHONEPE_ENV", "sandbox"),
		PhonePeRedirectURL: getEnv("PHONEPE_REDIRECT_URL", "http://localhost:5173/payment/callback"),
		PhonePeCallbackURL: getEnv("PHONEPE_CALLBACK_URL", "http://localhost:8080/api/payment/callback"),

		NotificationMethod: getEnv("NOTIFICATION_METHOD", "none"),
		BusinessName:       getEnv("BUSINESS_NAME", "Amma Fresh"),
		BusinessPhone:      getEnv("BUSINESS_PHONE", ""),
		WhatsAppProvider:   getEnv("WHATSAPP_PROVIDER", "link"),
		CallMeBotAPIKey:    getEnv("CALLMEBOT_API_KEY", ""),
		CallMeBotPhone:     getEnv("CALLMEBOT_PHONE", ""),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 587),
		EmailUser:          getEnv("EMAIL_USER", ""),
		EmailPassword:      getEnv("EMAIL_PASSWORD", ""),

		KeepAliveEnabled: getEnvAsBool("KEEP_ALIVE_ENABLED", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	configInstance = config
	return config, nil
}

// GetConfig returns the loaded configuration instance
func GetConfig() *Config {
	return configInstance
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	configInstance = cfg
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AdminAPIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY is required")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
