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
	Oracle    OracleConfig
	Scoring   ScoringConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
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
}

type OracleConfig struct {
	Provider     string // "openai" or "gemini"
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
}

type ScoringConfig struct {
	BatchSize        int
	MaxCandidates    int
	MaxResults       int
	CallTimeout      time.Duration
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	ParallelBatches  bool
	InterBatchDelay  time.Duration
	ResultTTL        time.Duration
	CandidateTTL     time.Duration
}

type CacheConfig struct {
	MemoryCapacity int
}

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	MaxClients        int
	MaxBodyBytes      int
}

type WorkerConfig struct {
	Concurrency int
	MaxJobs     int
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
			DBName:   getEnv("DB_NAME", "candidate_ranker"),
		},
		Oracle: OracleConfig{
			Provider:     getEnv("ORACLE_PROVIDER", "openai"),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-3.5-turbo-0125"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Scoring: ScoringConfig{
			BatchSize:        getEnvAsInt("SCORING_BATCH_SIZE", 3),
			MaxCandidates:    getEnvAsInt("SCORING_MAX_CANDIDATES", 50),
			MaxResults:       getEnvAsInt("SCORING_MAX_RESULTS", 30),
			CallTimeout:      getEnvAsDuration("SCORING_CALL_TIMEOUT", "15s"),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryBaseDelay:   getEnvAsDuration("RETRY_BASE_DELAY", "500ms"),
			ParallelBatches:  getEnvAsBool("SCORING_PARALLEL_BATCHES", false),
			InterBatchDelay:  getEnvAsDuration("SCORING_INTER_BATCH_DELAY", "100ms"),
			ResultTTL:        getEnvAsDuration("SCORING_RESULT_TTL", "600s"),
			CandidateTTL:     getEnvAsDuration("CANDIDATE_CACHE_TTL", "1800s"),
		},
		Cache: CacheConfig{
			MemoryCapacity: getEnvAsInt("CACHE_MEMORY_CAPACITY", 100),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvAsInt("RATE_LIMIT_REQUESTS", 10),
			Window:            getEnvAsDuration("RATE_LIMIT_WINDOW", "60s"),
			MaxClients:        getEnvAsInt("RATE_LIMIT_MAX_CLIENTS", 500),
			MaxBodyBytes:      getEnvAsInt("RATE_LIMIT_MAX_BODY_BYTES", 10240),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
			MaxJobs:     getEnvAsInt("WORKER_MAX_JOBS", 100),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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
