package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tesseract-Nexus/go-shared/secrets"
)

// OriginAddress is the configured business origin, global to the deployment
// (not per-order). Loaded from a JSON env blob so deployments can swap it
// without a schema change.
type OriginAddress struct {
	Address1 string `json:"Address1"`
	Address2 string `json:"Address2"`
	City     string `json:"City"`
	Region   string `json:"Region"`
	Zip5     string `json:"Zip5"`
	Country  string `json:"Country"`
}

// AvaTaxConfig holds credentials and endpoints for the tax engine's
// address-resolution API
type AvaTaxConfig struct {
	Account            string
	LicenseKey         string
	Endpoint           string
	AddressServicePath string

	AddressValidationEnabled bool
	// Country names (as the OMS records them) for which validation runs
	ValidationCountries []string
}

// Config holds application configuration
type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	Environment string
	LogLevel    string

	Origin OriginAddress
	AvaTax AvaTaxConfig
}

// Load creates a new configuration from environment variables
func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	validationEnabled, _ := strconv.ParseBool(getEnv("AVATAX_ADDRESS_VALIDATION", "false"))

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: secrets.GetDBPassword(),
		DBName:     getEnv("DB_NAME", "tesseract_hub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Server
		Port:        getEnv("PORT", "8093"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Origin: loadOriginAddress(),
		AvaTax: AvaTaxConfig{
			Account:                  getEnv("AVATAX_ACCOUNT", ""),
			LicenseKey:               getEnv("AVATAX_LICENSE_KEY", ""),
			Endpoint:                 getEnv("AVATAX_ENDPOINT", "https://development.avalara.net"),
			AddressServicePath:       getEnv("AVATAX_ADDRESS_SERVICE_PATH", "/1.0/address/"),
			AddressValidationEnabled: validationEnabled,
			ValidationCountries:      splitList(getEnv("AVATAX_VALIDATION_COUNTRIES", "United States")),
		},
	}
}

// loadOriginAddress parses the AVATAX_ORIGIN_ADDRESS JSON blob. A missing or
// malformed blob yields an empty origin rather than a startup failure; the
// origin record then carries empty fields, which the tax engine tolerates.
func loadOriginAddress() OriginAddress {
	var origin OriginAddress
	raw := getEnv("AVATAX_ORIGIN_ADDRESS", "{}")
	if err := json.Unmarshal([]byte(raw), &origin); err != nil {
		return OriginAddress{}
	}
	return origin
}

// InitDB initializes the database connection
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
