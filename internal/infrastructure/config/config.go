// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Spreadsheet store backends
const (
	StoreSheety = "sheety"
	StoreSheets = "sheets"
)

// MaxAdults is the largest party a flight offer search accepts
const MaxAdults = 9

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Schedule, 0 runs a single check
	CheckInterval time.Duration

	// Search
	HomeCity    string
	HomeCountry string
	HomeIata    string
	Currency    string
	Adults      int
	WindowDays  int
	MaxOffers   int

	// Spreadsheet store
	StoreBackend      string
	SheetyDealsURL    string
	SheetyUsersURL    string
	SheetyBearerToken string
	SpreadsheetID     string
	DealsRange        string
	UsersRange        string

	// Google (Gmail + Sheets)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GmailSender        string

	// Amadeus
	AmadeusBaseURL   string
	AmadeusAPIKey    string
	AmadeusAPISecret string
	AmadeusRateLimit float64

	HTTPClientTimeout time.Duration

	// MongoDB, optional
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL, optional
	PostgresURI string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		CheckInterval: time.Duration(getEnvAsInt("CHECK_INTERVAL", 0)) * time.Second,

		HomeCity:    getEnv("HOME_CITY", "London"),
		HomeCountry: getEnv("HOME_COUNTRY", "GB"),
		HomeIata:    strings.ToUpper(getEnv("HOME_IATA", "")),
		Currency:    strings.ToUpper(getEnv("CURRENCY", "GBP")),
		Adults:      getEnvAsInt("ADULTS", 1),
		WindowDays:  getEnvAsInt("SEARCH_WINDOW_DAYS", 180),
		MaxOffers:   getEnvAsInt("MAX_OFFERS", 50),

		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", StoreSheety)),
		SheetyDealsURL:    getEnv("SHEETY_FLIGHTDEALS_URL", ""),
		SheetyUsersURL:    getEnv("SHEETY_FLIGHTDEALS_USERS_URL", ""),
		SheetyBearerToken: getEnv("SHEETY_BEARER_TOKEN", ""),
		SpreadsheetID:     getEnv("GOOGLE_SPREADSHEET_ID", ""),
		DealsRange:        getEnv("GOOGLE_DEALS_RANGE", "deals!A2:D"),
		UsersRange:        getEnv("GOOGLE_USERS_RANGE", "users!D2:D"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GmailSender:        getEnv("GMAIL_SENDER", "me"),

		AmadeusBaseURL:   strings.TrimRight(getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"), "/"),
		AmadeusAPIKey:    getEnv("AMADEUS_API_KEY", ""),
		AmadeusAPISecret: getEnv("AMADEUS_API_SECRET", ""),
		AmadeusRateLimit: getEnvAsFloat("AMADEUS_RATE_LIMIT", 8),

		HTTPClientTimeout: time.Duration(getEnvAsInt("HTTP_CLIENT_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "flightdeals"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreSheety:
		if c.SheetyDealsURL == "" || c.SheetyUsersURL == "" {
			return fmt.Errorf("SHEETY_FLIGHTDEALS_URL and SHEETY_FLIGHTDEALS_USERS_URL are required for the sheety store")
		}
	case StoreSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("GOOGLE_SPREADSHEET_ID is required for the sheets store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.HomeIata == "" && c.HomeCity == "" {
		return fmt.Errorf("either HOME_IATA or HOME_CITY must be set")
	}
	if c.Adults < 1 || c.Adults > MaxAdults {
		return fmt.Errorf("ADULTS must be between 1 and %d, got %d", MaxAdults, c.Adults)
	}
	if c.WindowDays < 2 {
		return fmt.Errorf("SEARCH_WINDOW_DAYS must be at least 2, got %d", c.WindowDays)
	}

	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
