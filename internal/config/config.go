package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// AI backend
	AIBackend          string // "gemini" or "ollama"
	GeminiAPIKey       string
	GeminiModel        string
	GeminiConcurrent   int
	OllamaBaseURL      string
	OllamaModel        string
	OllamaReadTimeout  int // seconds
	AITimeoutSeconds   int
	QuizTimeoutSeconds int

	// Identity provider token exchange
	IdentityAPIKey string

	// Uploads
	UploadDir   string
	MaxUploadMB int64

	// External binaries
	TesseractBin   string
	WkhtmltopdfBin string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		AIBackend:          getEnvOrDefault("AI_BACKEND", "gemini"),
		GeminiAPIKey:       getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiConcurrent:   getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		OllamaBaseURL:      getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:        getEnvOrDefault("OLLAMA_MODEL", "mistral"),
		OllamaReadTimeout:  getEnvAsIntOrDefault("OLLAMA_READ_TIMEOUT", 300),
		AITimeoutSeconds:   getEnvAsIntOrDefault("AI_TIMEOUT_SECONDS", 120),
		QuizTimeoutSeconds: getEnvAsIntOrDefault("QUIZ_TIMEOUT_SECONDS", 180),

		IdentityAPIKey: getEnvOrDefault("IDENTITY_API_KEY", ""),

		UploadDir:   getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		MaxUploadMB: int64(getEnvAsIntOrDefault("MAX_UPLOAD_MB", 10)),

		TesseractBin:   getEnvOrDefault("TESSERACT_BIN", "tesseract"),
		WkhtmltopdfBin: getEnvOrDefault("WKHTMLTOPDF_BIN", "wkhtmltopdf"),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	if cfg.AIBackend == "gemini" && cfg.GeminiAPIKey == "" {
		panic("GEMINI_API_KEY is required when AI_BACKEND=gemini")
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
