// Package config loads runtime configuration from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir string `json:"project_dir"`
	ResultsDir string `json:"results_dir"`
	CacheDir   string `json:"cache_dir"`

	DefaultModelName     string `json:"default_model_name"`
	DefaultModelProvider string `json:"default_model_provider"`
	MaxRetries           int    `json:"max_retries"`

	CatalogDBPath string `json:"catalog_db_path"`
	HistoryDBPath string `json:"history_db_path"`
	ListenAddr    string `json:"listen_addr"`
	PromptLabel   string `json:"prompt_label"`

	CacheEnabled     bool `json:"cache_enabled"`
	Debug            bool `json:"debug"`
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`
}

// Load builds the configuration from the environment, reading .env first so
// local development does not need exported variables.
func Load() *Config {
	_ = godotenv.Load()

	currentDir, _ := os.Getwd()

	return &Config{
		ProjectDir: currentDir,
		ResultsDir: envOr("HEDGEGRAPH_RESULTS_DIR", filepath.Join(currentDir, "results")),
		CacheDir:   envOr("HEDGEGRAPH_CACHE_DIR", filepath.Join(currentDir, "data", "cache")),

		DefaultModelName:     envOr("HEDGEGRAPH_MODEL", "gpt-4.1"),
		DefaultModelProvider: envOr("HEDGEGRAPH_PROVIDER", "OpenAI"),
		MaxRetries:           envInt("HEDGEGRAPH_MAX_RETRIES", 2),

		CatalogDBPath: envOr("HEDGEGRAPH_CATALOG_DB", filepath.Join(currentDir, "data", "catalog.db")),
		HistoryDBPath: envOr("HEDGEGRAPH_HISTORY_DB", filepath.Join(currentDir, "data", "runs.db")),
		ListenAddr:    envOr("HEDGEGRAPH_LISTEN_ADDR", ":8080"),
		PromptLabel:   envOr("LANGFUSE_PROMPT_LABEL", "production"),

		CacheEnabled:     envBool("HEDGEGRAPH_CACHE_ENABLED", true),
		Debug:            envBool("HEDGEGRAPH_DEBUG", false),
		EinoDebugEnabled: envBool("EINO_DEBUG_ENABLED", false),
		EinoDebugPort:    envInt("EINO_DEBUG_PORT", 52538),
	}
}

func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.ResultsDir, c.CacheDir, filepath.Dir(c.CatalogDBPath)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
