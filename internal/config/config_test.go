package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
	assert.Equal(t, "restaurant_reviews", cfg.Store.Collection)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, 6, cfg.Agent.MaxTurns)
	assert.Empty(t, cfg.Redis.Addr, "embedding cache disabled by default")
	assert.NotEmpty(t, cfg.App.CORSOrigins)
}

func TestLoadTomlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 9000
cors_origins = ["http://localhost:5173"]

[store]
path = "/tmp/reviews.db"
collection = "reviews_v2"

[agent]
max_turns = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.App.CORSOrigins)
	assert.Equal(t, "/tmp/reviews.db", cfg.Store.Path)
	assert.Equal(t, "reviews_v2", cfg.Store.Collection)
	assert.Equal(t, 3, cfg.Agent.MaxTurns)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("APP_PORT", "8081")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("STORE_COLLECTION", "reviews_env")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.App.Port)
	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
	assert.Equal(t, "reviews_env", cfg.Store.Collection)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
}

func TestEmbeddingKeyFallsBackToLLMKey(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("LLM_API_KEY", "sk-shared")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-shared", cfg.Embedding.APIKey)

	t.Setenv("EMBEDDING_API_KEY", "sk-embed")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-embed", cfg.Embedding.APIKey)
}
