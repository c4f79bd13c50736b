package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Scoring strategy names, see internal/scoring.
const (
	StrategyHeuristic   = "heuristic"
	StrategyAIAugmented = "ai"
)

type Config struct {
	Port        string
	AppEnv      string
	MongoURI    string
	MongoDB     string
	JWTSecret   string
	JWTExpire   int
	FrontendURL string

	// AI signal provider
	OpenAIAPIKey string
	OpenAIModel  string

	// Points / moderation tuning
	ScoringStrategy string
	BatchSize       int
	BatchDelayMs    int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "cinecircle"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		JWTExpire:   getEnvInt("JWT_EXPIRE_HOURS", 24),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ScoringStrategy: getEnv("SCORING_STRATEGY", StrategyAIAugmented),
		BatchSize:       getEnvInt("MODERATION_BATCH_SIZE", 50),
		BatchDelayMs:    getEnvInt("MODERATION_BATCH_DELAY_MS", 1000),
	}
}

// Validate fails fast on settings the server cannot run without. The AI
// provider has a documented fallback for transient failures, but a missing
// key is permanent misconfiguration and must not boot silently degraded.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ScoringStrategy != StrategyHeuristic && c.ScoringStrategy != StrategyAIAugmented {
		return fmt.Errorf("SCORING_STRATEGY must be %q or %q", StrategyHeuristic, StrategyAIAugmented)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
