package config

import (
	"os"
	"path/filepath"
	"strconv"

	"loto-mcp/internal/stats"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath   string
	LogDir     string
	CacheDir   string
	ReportsDir string

	HistoryBackend   string
	DefaultGame      string
	GameProfilesFile string

	Stats        stats.Options
	MaxRebalance int
	RandomSeed   int64
	CheckWorkers int

	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	cfg := &AppConfig{
		DataPath:   dataPath,
		LogDir:     filepath.Join(dataPath, "logs"),
		CacheDir:   filepath.Join(dataPath, "cache"),
		ReportsDir: filepath.Join(dataPath, "reports"),

		HistoryBackend:   getEnv("HISTORY_BACKEND", "jsonl"),
		DefaultGame:      getEnv("DEFAULT_GAME", "lotofacil"),
		GameProfilesFile: getEnv("GAME_PROFILES_FILE", ""),

		MaxRebalance: getEnvInt("REBALANCE_MAX_ITERATIONS", 20),
		RandomSeed:   int64(getEnvInt("RANDOM_SEED", 0)),
		CheckWorkers: getEnvInt("CHECK_WORKERS", 0),

		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	sentinel, err := stats.ParseSentinel(getEnv("NEVER_DRAWN_SENTINEL", ""))
	if err != nil {
		return nil, err
	}
	cfg.Stats = stats.Options{
		HotWindow:      getEnvInt("HOT_WINDOW", 10),
		ColdWindow:     getEnvInt("COLD_WINDOW", 10),
		DelayThreshold: getEnvInt("DELAY_THRESHOLD", 5),
		Sentinel:       sentinel,
	}

	// Ensure directories exist
	for _, dir := range []string{cfg.LogDir, cfg.CacheDir, cfg.ReportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create data directory")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}
