package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuezhaodesign/Inkspire/chunkify"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func Test_Read_appliesDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Read(writeConfig(t, "log: custom.log\n"))
	require.NoError(t, err)

	assert.Equal(t, "custom.log", cfg.LogFile)
	assert.Equal(t, "course_libraries", cfg.LibraryRoot)
	assert.Equal(t, "materials", cfg.MaterialsRoot)
	assert.Equal(t, 500, cfg.MergeEventsMs)
	assert.Equal(t, chunkify.DefaultSize, cfg.ChunkSize)
	assert.Equal(t, chunkify.DefaultOverlap, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.Results)
	assert.Equal(t, ":8000", cfg.ServerAddr)
	assert.Equal(t, ":8080", cfg.McpAddr)
	assert.Equal(t, "gemini-2.5-flash", cfg.Generation.Model)
	assert.Nil(t, cfg.Chroma)
}

func Test_Read_fullConfig(t *testing.T) {
	cfg, err := Read(writeConfig(t, `
log: run.log
library_root: /data/libraries
materials_root: /data/materials
write_debounce_ms: 250
chunk_size: 800
chunk_overlap: 100
results: 7
server_addr: ":9000"
mcp_addr: ":9001"
generation:
  model: gemini-2.5-pro
  api_key: key-from-file
  temperature: 0.7
chroma:
  addr: http://chroma:8001
  collection: readings
  request_size: 4096
  gemini:
    model: embedding-001
    api_key: embed-key
`))
	require.NoError(t, err)

	assert.Equal(t, "/data/libraries", cfg.LibraryRoot)
	assert.Equal(t, 250, cfg.MergeEventsMs)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 7, cfg.Results)
	assert.Equal(t, "gemini-2.5-pro", cfg.Generation.Model)
	assert.Equal(t, "key-from-file", cfg.Generation.ApiKey)
	assert.InDelta(t, 0.7, cfg.Generation.Temperature, 1e-9)

	require.NotNil(t, cfg.Chroma)
	assert.Equal(t, "http://chroma:8001", cfg.Chroma.Addr)
	assert.Equal(t, "readings", cfg.Chroma.Collection)
	assert.Equal(t, 4096, cfg.Chroma.RequestSize)
	require.NotNil(t, cfg.Chroma.Gemini)
	assert.Equal(t, "embed-key", cfg.Chroma.Gemini.ApiKey)
	assert.Nil(t, cfg.Chroma.OpenAI)
}

func Test_Read_rejectsBadChunkConfig(t *testing.T) {
	_, err := Read(writeConfig(t, "chunk_size: 100\nchunk_overlap: 100\n"))
	assert.ErrorIs(t, err, chunkify.ErrInvalidChunkConfig)
}

func Test_Read_missingFile(t *testing.T) {
	_, err := Read("/nope/config.yaml")
	assert.Error(t, err)
}

func Test_Read_apiKeyFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "env-key")

	cfg, err := Read(writeConfig(t, "log: run.log\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Generation.ApiKey)
}

func Test_Default(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := Default()
	assert.Equal(t, "inkspire.log", cfg.LogFile)
	assert.Equal(t, chunkify.DefaultSize, cfg.ChunkSize)
}
