package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	OracleProviderOpenAI = "openai"
	OracleProviderRules  = "rules"
)

type Config struct {
	OracleProvider          string
	OracleAPIKey            string
	OracleBaseURL           string
	OracleModel             string
	OracleMaxRetries        int
	OracleRequestsPerMinute int
	SteamBaseURL            string
	SteamLanguage           string
	ServerPort              string
	ParallelExtraction      bool
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		OracleProvider:          getEnv("ORACLE_PROVIDER", OracleProviderOpenAI),
		OracleAPIKey:            getEnv("ORACLE_API_KEY", os.Getenv("API_KEY")),
		OracleBaseURL:           getEnv("ORACLE_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		OracleModel:             getEnv("ORACLE_MODEL", "gemma-3n-e2b-it"),
		OracleMaxRetries:        getEnvInt("ORACLE_MAX_RETRIES", 2),
		OracleRequestsPerMinute: getEnvInt("ORACLE_REQUESTS_PER_MINUTE", 30),
		SteamBaseURL:            getEnv("STEAM_BASE_URL", "https://store.steampowered.com"),
		SteamLanguage:           getEnv("STEAM_LANGUAGE", "english"),
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ParallelExtraction:      getEnvBool("PARALLEL_EXTRACTION", false),
	}

	switch cfg.OracleProvider {
	case OracleProviderOpenAI, OracleProviderRules:
	default:
		return nil, fmt.Errorf("ORACLE_PROVIDER must be %q or %q, got %q", OracleProviderOpenAI, OracleProviderRules, cfg.OracleProvider)
	}
	if cfg.OracleMaxRetries < 0 {
		return nil, fmt.Errorf("ORACLE_MAX_RETRIES must not be negative")
	}

	logger.Debug().
		Str("oracle_provider", cfg.OracleProvider).
		Str("oracle_model", cfg.OracleModel).
		Str("oracle_base_url", cfg.OracleBaseURL).
		Int("oracle_max_retries", cfg.OracleMaxRetries).
		Str("steam_base_url", cfg.SteamBaseURL).
		Bool("parallel_extraction", cfg.ParallelExtraction).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
