// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// StorageConfig configures the local chunk index.
type StorageConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// AIConfig holds connection details for the embedding and analyst models.
type AIConfig struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	AnalystHost    string `yaml:"analyst_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	AnalystModel   string `yaml:"analyst_model"`
}

// SearchConfig configures the retrieval layer.
type SearchConfig struct {
	MaxHits         int      `yaml:"max_hits"`
	TimeoutSecs     int      `yaml:"timeout_secs"`
	KeywordPatterns []string `yaml:"keyword_patterns,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Chunker ChunkerConfig `yaml:"chunker"`
	AI      AIConfig      `yaml:"ai"`
	Search  SearchConfig  `yaml:"search"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults. Environment variables override file values either way.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./docsieve.yaml first, then ~/.config/docsieve/config.yaml.
// If neither exists, defaults are returned without writing anything.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "docsieve.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg, "", nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docsieve", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{Path: "docsieve.db"},
		Chunker: ChunkerConfig{ChunkSize: 1000, ChunkOverlap: 100},
		AI: AIConfig{
			EmbeddingHost:  "http://localhost:11434/v1",
			AnalystHost:    "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
			AnalystModel:   "qwen2.5:3b",
		},
		Search: SearchConfig{MaxHits: 10, TimeoutSecs: 30},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = def.Storage.Path
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = def.Chunker.ChunkSize
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = def.Chunker.ChunkOverlap
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = def.AI.EmbeddingHost
	}
	if cfg.AI.AnalystHost == "" {
		cfg.AI.AnalystHost = cfg.AI.EmbeddingHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if cfg.AI.AnalystModel == "" {
		cfg.AI.AnalystModel = def.AI.AnalystModel
	}
	if cfg.Search.MaxHits == 0 {
		cfg.Search.MaxHits = def.Search.MaxHits
	}
	if cfg.Search.TimeoutSecs == 0 {
		cfg.Search.TimeoutSecs = def.Search.TimeoutSecs
	}
}

// applyEnvOverrides lets the environment win over file values. Callers load
// .env files (godotenv) before reaching here.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("DOCSIEVE_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DOCSIEVE_EMBEDDING_HOST"); v != "" {
		cfg.AI.EmbeddingHost = v
	}
	if v := os.Getenv("DOCSIEVE_ANALYST_HOST"); v != "" {
		cfg.AI.AnalystHost = v
	}
	if v := os.Getenv("DOCSIEVE_EMBEDDING_MODEL"); v != "" {
		cfg.AI.EmbeddingModel = v
	}
	if v := os.Getenv("DOCSIEVE_ANALYST_MODEL"); v != "" {
		cfg.AI.AnalystModel = v
	}
	if v := os.Getenv("DOCSIEVE_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Chunker.ChunkSize = n
		}
	}
	if v := os.Getenv("DOCSIEVE_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Chunker.ChunkOverlap = n
		}
	}
}
