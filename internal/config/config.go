package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Analyzer  AnalyzerConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
	Report    ReportConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AnalyzerConfig describes the chat-completions endpoint resumes are sent to.
type AnalyzerConfig struct {
	Provider    string
	Endpoint    string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	// Driver is "memory" (default) or "postgres".
	Driver      string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
}

// ReportConfig points at TTF files for the PDF export. Empty paths use the
// built-in Go fonts.
type ReportConfig struct {
	FontRegular string
	FontBold    string
}

type RateLimitConfig struct {
	AnalyzeMax    int
	AnalyzeWindow time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_matcher"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Analyzer: AnalyzerConfig{
			Provider:    getEnv("ANALYZER_PROVIDER", "mistral"),
			Endpoint:    getEnv("ANALYZER_ENDPOINT", "https://api.mistral.ai/v1/chat/completions"),
			APIKey:      getEnv("MISTRAL_API_KEY", ""),
			Model:       getEnv("ANALYZER_MODEL", "mistral-large-latest"),
			Temperature: getEnvAsFloat("ANALYZER_TEMPERATURE", 0.7),
			Timeout:     getEnvAsDuration("ANALYZER_TIMEOUT", "90s"),
			MaxRetries:  getEnvAsInt("ANALYZER_MAX_RETRIES", 3),
			RetryDelay:  getEnvAsDuration("ANALYZER_RETRY_DELAY", "1s"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORE_DRIVER", "memory"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:    getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
		RateLimit: RateLimitConfig{
			AnalyzeMax:    getEnvAsInt("ANALYZE_RATE_LIMIT", 10),
			AnalyzeWindow: getEnvAsDuration("ANALYZE_RATE_WINDOW", "1m"),
		},
		Report: ReportConfig{
			FontRegular: getEnv("REPORT_FONT_REGULAR", ""),
			FontBold:    getEnv("REPORT_FONT_BOLD", ""),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
