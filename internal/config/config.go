package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort        string
	FrontendURL       string  // Origin allowed by CORS
	FaultRate         float64 // Probability that a list call fails with a transient error
	LowStockThreshold int     // Default threshold for the low-stock analytics view
}

// LoadConfig loads configuration from environment variables.
// Path is the directory where .env might be located (e.g., ".").
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path + "/.env"); err != nil {
		log.Println("No .env file found or error loading, relying on OS environment variables")
	}

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		FaultRate:         getEnvFloat("FAULT_RATE", 0.3),
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
	}, nil
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 1 {
		log.Printf("Invalid value %q for %s, using default %v", raw, key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		log.Printf("Invalid value %q for %s, using default %v", raw, key, defaultValue)
		return defaultValue
	}
	return value
}
