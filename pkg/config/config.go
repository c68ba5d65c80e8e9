package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GoogleApiKey   string
	DatabaseURL    string
	ReasoningModel string
	FastModel      string
	SearchModel    string
	EmbeddingModel string
	Port           string

	WebhookBaseURL string

	MaxSources         int
	MaxClaimsPerSource int
	MaxReferences      int
	MaxIterations      int
	SoftCap            int

	ChunkSize    int
	ChunkOverlap int
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		GoogleApiKey:   getEnv("GOOGLE_API_KEY", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		ReasoningModel: getEnv("REASONING_MODEL", "gemini-3-pro-preview"),
		FastModel:      getEnv("FAST_MODEL", "gemini-3-flash-preview"),
		SearchModel:    getEnv("SEARCH_MODEL", "gemini-3-flash-preview"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
		Port:           getEnv("PORT", "3000"),

		WebhookBaseURL: getEnv("WEBHOOK_BASE_URL", ""),

		MaxSources:         getEnvAsInt("MAX_SOURCES", 25),
		MaxClaimsPerSource: getEnvAsInt("MAX_CLAIMS_PER_SOURCE", 3),
		MaxReferences:      getEnvAsInt("MAX_REFERENCES", 15),
		MaxIterations:      getEnvAsInt("MAX_ITERATIONS", 2),
		SoftCap:            getEnvAsInt("SOFT_CAP", 2),

		ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
