// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	JWTSecretKey string
	DBPath       string
	// StoreTimeout bounds every persistence call made on the socket path.
	// On expiry the event is logged and dropped (at-most-once).
	StoreTimeout time.Duration
	Environment  string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "5000"),
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		DBPath:       getEnv("DB_PATH", "echo.db"),
		StoreTimeout: time.Duration(getEnvAsInt("STORE_TIMEOUT_SECONDS", 5)) * time.Second,
		Environment:  env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		if cfg.JWTSecretKey == "" {
			log.Fatalf("Missing required production environment variable: JWT_SECRET_KEY")
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
