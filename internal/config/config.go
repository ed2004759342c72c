package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	AI       AIConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	LogLevel  string
	BatchSize int
}

type AIConfig struct {
	GroqAPIKey   string
	GroqModel    string
	GeminiAPIKey string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	batchSize, err := strconv.Atoi(getEnv("BATCH_SIZE", "10000"))
	if err != nil {
		batchSize = 10000
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "acctai_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			BatchSize: batchSize,
		},
		AI: AIConfig{
			GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
			GroqModel:    getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		},
	}, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
