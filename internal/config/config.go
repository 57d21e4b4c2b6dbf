package config

import (
	"os"
)

// Config holds the application configuration.
type Config struct {
	Port   string
	DBPath string
	CSVDir string
}

// Load reads the configuration from environment variables, falling back
// to defaults suitable for local development.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/journeys.db"
	}

	csvDir := os.Getenv("CSV_DIR")
	if csvDir == "" {
		csvDir = "./csv"
	}

	return &Config{
		Port:   port,
		DBPath: dbPath,
		CSVDir: csvDir,
	}
}
