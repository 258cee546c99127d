package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries the process configuration. Everything comes from the
// environment, optionally seeded by a .env file.
type Config struct {
	Port             string
	DataDir          string
	FileDir          string
	AllowOrigins     []string
	RabbitMQURI      string
	RabbitMQExchange string
	LLMBaseURL       string
	LLMAPIKey        string
	LLMModel         string
}

// Load reads the .env file if present and builds the config from the
// environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:             getEnvOrDefault("PORT", "8001"),
		DataDir:          getEnvOrDefault("DATA_DIR", "data"),
		FileDir:          getEnvOrDefault("FILE_DIR", "file"),
		AllowOrigins:     splitOrigins(os.Getenv("ALLOW_ORIGINS")),
		RabbitMQURI:      os.Getenv("RABBITMQ_URI"),
		RabbitMQExchange: os.Getenv("RABBITMQ_EXCHANGE"),
		LLMBaseURL:       getEnvOrDefault("LLM_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		LLMAPIKey:        getEnvOrDefault("DASHSCOPE_API_KEY", ""),
		LLMModel:         getEnvOrDefault("LLM_MODEL", "qwen-long"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitOrigins parses a comma-separated origin list. Empty input means
// "allow all", handled by the CORS setup.
func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
