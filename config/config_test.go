package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "groq", cfg.DefaultModelProvider)
	assert.True(t, cfg.Memory.Enabled)
	assert.Equal(t, "default", cfg.Memory.DefaultThreadID)
	assert.Equal(t, "memory", cfg.Memory.Store)
	assert.Equal(t, "en-US", cfg.Speech.DefaultLanguage)
	assert.Contains(t, cfg.Speech.SupportedLanguages, "fr-FR")
	assert.Equal(t, 10, cfg.News.MaxResults)
	assert.Contains(t, cfg.News.TechDomains, "techcrunch.com")
	assert.Contains(t, cfg.News.BusinessDomains, "bloomberg.com")
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_model_provider: openai
memory:
  enabled: false
  store: sqlite
  sqlite_path: /tmp/agent.db
server:
  host: 127.0.0.1
  port: 9000
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.DefaultModelProvider)
	assert.False(t, cfg.Memory.Enabled)
	assert.Equal(t, "sqlite", cfg.Memory.Store)
	assert.Equal(t, "/tmp/agent.db", cfg.Memory.SqlitePath)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.Equal(t, "en-US", cfg.Speech.DefaultLanguage)
}

func TestLoadFileMissingIsNotError(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "groq", cfg.DefaultModelProvider)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::bad yaml::"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", "openai")
	t.Setenv("MEMORY_STORE", "redis")
	t.Setenv("MEMORY_REDIS_ADDR", "redis:6380")
	t.Setenv("MEMORY_ENABLED", "false")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.DefaultModelProvider)
	assert.Equal(t, "redis", cfg.Memory.Store)
	assert.Equal(t, "redis:6380", cfg.Memory.RedisAddr)
	assert.False(t, cfg.Memory.Enabled)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cfg := Default()

	t.Setenv("GROQ_API_KEY", "")
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")

	t.Setenv("GROQ_API_KEY", "key")
	assert.NoError(t, cfg.Validate())

	cfg.DefaultModelProvider = "openai"
	t.Setenv("OPENAI_API_KEY", "")
	require.Error(t, cfg.Validate())

	cfg.DefaultModelProvider = "claude"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model provider")
}

func TestSupportsLanguage(t *testing.T) {
	cfg := Default().Speech
	assert.True(t, cfg.SupportsLanguage("en-US"))
	assert.False(t, cfg.SupportsLanguage("xx-XX"))
}
