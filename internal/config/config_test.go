package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "CORS_ALLOW_ORIGINS", "READ_TIMEOUT_SEC", "WRITE_TIMEOUT_SEC",
	"LOG_LEVEL", "LOG_FORMAT", "SEARCH_BACKEND", "SEARCH_MAX_RESULTS", "SEARCH_TIMEOUT_SEC",
	"SEARXNG_URL", "SEARXNG_CATEGORIES", "SEARXNG_LANGUAGE", "SEARXNG_ENGINES",
	"MONGODB_URI", "MONGODB_DB", "MONGODB_SNIPPET_COLLECTION", "MONGODB_VECTOR_INDEX",
	"EMBEDDING_MODEL", "MODEL_BACKEND", "MODEL_NAME", "MODEL_TEMPERATURE", "MODEL_MAX_TOKENS",
	"MODEL_TIMEOUT_SEC", "GCP_PROJECT_ID", "GCP_LOCATION", "GOOGLE_APPLICATION_CREDENTIALS",
	"GOOGLE_API_KEY", "ANTHROPIC_API_KEY", "OLLAMA_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.Equal(t, SearchSearxng, cfg.SearchBackend)
	assert.Equal(t, ModelOllama, cfg.ModelBackend)
	assert.Equal(t, 5, cfg.SearchMaxResults)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.False(t, cfg.UsesMongo())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("READ_TIMEOUT_SEC", "7")
	t.Setenv("SEARCH_MAX_RESULTS", "3")
	t.Setenv("MODEL_BACKEND", "Claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MODEL_TEMPERATURE", "0.2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 7*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 3, cfg.SearchMaxResults)
	assert.Equal(t, ModelClaude, cfg.ModelBackend)
	assert.InDelta(t, 0.2, cfg.ModelTemperature, 0.0001)
}

func TestLoad_InvalidNumberKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("WRITE_TIMEOUT_SEC", "soon")
	t.Setenv("SEARCH_MAX_RESULTS", "many")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 5, cfg.SearchMaxResults)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "kisan.toml")
	content := `
[server]
port = "7000"
write_timeout_sec = 90

[search]
backend = "atlas"
max_results = 8

[mongo]
uri = "mongodb://localhost:27017"
database = "agri"

[model]
backend = "gemini"
name = "gemini-2.0-flash"

[gcp]
project_id = "kisan-sathi"

[keys]
google_api_key = "from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("GOOGLE_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.WriteTimeout)
	assert.Equal(t, SearchAtlas, cfg.SearchBackend)
	assert.Equal(t, 8, cfg.SearchMaxResults)
	assert.Equal(t, "agri", cfg.DBName)
	assert.Equal(t, "gemini-2.0-flash", cfg.ModelName)
	assert.Equal(t, "from-env", cfg.GoogleAPIKey)
	assert.True(t, cfg.UsesMongo())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "unknown search backend", mutate: func(c *Config) { c.SearchBackend = "bing" }, wantErr: "unknown search backend"},
		{name: "atlas needs mongo", mutate: func(c *Config) { c.SearchBackend = SearchAtlas; c.ProjectID = "p" }, wantErr: "MONGODB_URI"},
		{name: "atlas needs project", mutate: func(c *Config) { c.SearchBackend = SearchAtlas; c.MongoURI = "mongodb://x" }, wantErr: "GCP_PROJECT_ID"},
		{name: "unknown model backend", mutate: func(c *Config) { c.ModelBackend = "gpt" }, wantErr: "unknown model backend"},
		{name: "vertex needs project", mutate: func(c *Config) { c.ModelBackend = ModelVertex }, wantErr: "GCP_PROJECT_ID"},
		{name: "gemini needs key", mutate: func(c *Config) { c.ModelBackend = ModelGemini }, wantErr: "GOOGLE_API_KEY"},
		{name: "claude needs key", mutate: func(c *Config) { c.ModelBackend = ModelClaude }, wantErr: "ANTHROPIC_API_KEY"},
		{name: "mock needs nothing", mutate: func(c *Config) { c.ModelBackend = ModelMock }},
		{name: "max results positive", mutate: func(c *Config) { c.SearchMaxResults = 0 }, wantErr: "max results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
