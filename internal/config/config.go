package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime settings for the service.
type Config struct {
	Port          string
	StorageDriver string // memory, sqlite or mongo
	SQLitePath    string
	MongoURI      string
	MongoDB       string
	LicenseSecret string
	AllowedOrigin string
}

// LoadConfig reads the configuration from the environment, optionally
// seeded from a .env file in the working directory.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		StorageDriver: getEnv("STORAGE_DRIVER", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", "moodjournal.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "moodjournal"),
		LicenseSecret: getEnv("LICENSE_SECRET", "dev-license-secret"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
