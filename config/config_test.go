package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "docsieve.db", cfg.Storage.Path)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 100, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "embeddinggemma", cfg.AI.EmbeddingModel)
	assert.Equal(t, 10, cfg.Search.MaxHits)
}

func TestLoad_FileValuesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
storage:
  path: /var/lib/docsieve
chunker:
  chunk_size: 500
ai:
  embedding_host: http://embed:8080/v1
search:
  max_hits: 3
  keyword_patterns:
    - '\b\d{4,}\b'
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/docsieve", cfg.Storage.Path)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 3, cfg.Search.MaxHits)
	assert.Equal(t, []string{`\b\d{4,}\b`}, cfg.Search.KeywordPatterns)

	// Unset fields fall back to defaults; analyst host follows embedding host.
	assert.Equal(t, 100, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "http://embed:8080/v1", cfg.AI.AnalystHost)
	assert.Equal(t, "qwen2.5:3b", cfg.AI.AnalystModel)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [not: a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCSIEVE_STORAGE_PATH", "/tmp/env.db")
	t.Setenv("DOCSIEVE_EMBEDDING_MODEL", "nomic-embed-text")
	t.Setenv("DOCSIEVE_CHUNK_SIZE", "250")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  path: /from/file\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.Storage.Path)
	assert.Equal(t, "nomic-embed-text", cfg.AI.EmbeddingModel)
	assert.Equal(t, 250, cfg.Chunker.ChunkSize)
}

func TestLoad_EnvOverrideIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("DOCSIEVE_CHUNK_SIZE", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := defaultConfig()
	original.Storage.Path = "/data/index"
	original.Search.MaxHits = 7

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
