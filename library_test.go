package docsieve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("create new library", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		lib, err := Open(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, lib)
		defer lib.Close()

		// Verify components are initialized
		assert.NotNil(t, lib.ChunkRepository())
		assert.NotNil(t, lib.CheckpointRepository())
		assert.NotNil(t, lib.Provider())
		assert.NotNil(t, lib.backend)
		assert.NotNil(t, lib.logger)
	})

	t.Run("in-memory library", func(t *testing.T) {
		lib, err := Open("", WithInMemoryStorage())
		require.NoError(t, err)
		require.NotNil(t, lib)
		defer lib.Close()

		assert.NotNil(t, lib.ChunkRepository())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open a library at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		lib, err := Open(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, lib)
	})
}

func TestLibrary_Close(t *testing.T) {
	tmpDir := t.TempDir()
	lib, err := Open(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, lib)

	err = lib.Close()
	assert.NoError(t, err)

	// Second close is a no-op
	err = lib.Close()
	assert.NoError(t, err)
}

func TestLibrary_FactoryMethods(t *testing.T) {
	lib, err := Open("", WithInMemoryStorage())
	require.NoError(t, err)
	require.NotNil(t, lib)
	defer lib.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := lib.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := lib.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create reindexer", func(t *testing.T) {
		reindexer, err := lib.NewReindexer(nil, nil)
		require.NoError(t, err)
		require.NotNil(t, reindexer)
	})

	t.Run("can create classifier", func(t *testing.T) {
		classifier, err := lib.NewClassifier()
		require.NoError(t, err)
		require.NotNil(t, classifier)
	})

	t.Run("can create summarizer", func(t *testing.T) {
		summarizer, err := lib.NewSummarizer()
		require.NoError(t, err)
		require.NotNil(t, summarizer)
	})

	t.Run("can create assistant", func(t *testing.T) {
		assistant, err := lib.NewAssistant()
		require.NoError(t, err)
		require.NotNil(t, assistant)
	})
}
