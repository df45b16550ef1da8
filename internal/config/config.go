package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for a composition run. Values come
// from flags and the environment; rule tables live in a separate file, see
// rules.go.
type Config struct {
	ScriptPath   string
	MaterialsDir string
	OutputPlan   string
	RulesPath    string

	Width  int
	Height int
	FPS    int

	MinScore        float64
	PrefetchWorkers int
	PlaceholderDir  string
	ChannelURL      string

	StockAPIKey    string
	SemanticURL    string
	SemanticAPIKey string

	ListenAddr string
	LogFile    string
	Verbose    bool
}

// FromEnv creates a configuration sourced from environment variables,
// loading a .env file when present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		MaterialsDir:    getEnv("S2V_MATERIALS_DIR", "materials"),
		RulesPath:       getEnv("S2V_RULES_PATH", ""),
		PlaceholderDir:  getEnv("S2V_PLACEHOLDER_DIR", "materials/placeholders"),
		ChannelURL:      getEnv("S2V_CHANNEL_URL", ""),
		StockAPIKey:     getEnv("S2V_PEXELS_API_KEY", os.Getenv("PEXELS_API_KEY")),
		SemanticURL:     getEnv("S2V_SEMANTIC_URL", ""),
		SemanticAPIKey:  getEnv("S2V_SEMANTIC_API_KEY", ""),
		ListenAddr:      getEnv("S2V_LISTEN_ADDR", ":8080"),
		LogFile:         getEnv("S2V_LOG_FILE", ""),
		Width:           1280,
		Height:          720,
		FPS:             30,
		MinScore:        40,
		PrefetchWorkers: 0,
	}

	if v := os.Getenv("S2V_MIN_SCORE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse S2V_MIN_SCORE: %w", err)
		}
		cfg.MinScore = f
	}

	if v := os.Getenv("S2V_PREFETCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse S2V_PREFETCH_WORKERS: %w", err)
		}
		cfg.PrefetchWorkers = n
	}

	if v := os.Getenv("S2V_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse S2V_VERBOSE: %w", err)
		}
		cfg.Verbose = b
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
