package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JobBoard JobBoardConfig
	Ai       AIConfig
	Wizard   WizardConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type JobBoardConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type AIConfig struct {
	LLMProvider   string // "ollama" or "huggingface"
	LLMModel      string
	OllamaBaseURL string
	HuggingFace   string // API key
}

// WizardConfig tunes the session engine. The defaults mirror the
// production values; tests inject much shorter intervals.
type WizardConfig struct {
	SaveDebounce       time.Duration
	SaveRetryDelay     time.Duration
	TransitionDuration time.Duration
	MaxKeywords        int
	SnapshotTTL        time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		JobBoard: JobBoardConfig{
			BaseURL:   getEnv("JOB_BOARD_BASE_URL", "https://api.hh.ru"),
			UserAgent: getEnv("JOB_BOARD_USER_AGENT", "job-wizard-be/1.0"),
			Timeout:   time.Duration(getEnvAsInt("JOB_BOARD_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFace:   getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Wizard: WizardConfig{
			SaveDebounce:       time.Duration(getEnvAsInt("WIZARD_SAVE_DEBOUNCE_MS", 600)) * time.Millisecond,
			SaveRetryDelay:     time.Duration(getEnvAsInt("WIZARD_SAVE_RETRY_MS", 1000)) * time.Millisecond,
			TransitionDuration: time.Duration(getEnvAsInt("WIZARD_TRANSITION_MS", 4000)) * time.Millisecond,
			MaxKeywords:        getEnvAsInt("WIZARD_MAX_KEYWORDS", 3),
			SnapshotTTL:        time.Duration(getEnvAsInt("WIZARD_SNAPSHOT_TTL_HOURS", 72)) * time.Hour,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
