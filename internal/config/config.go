// Package config centralises all environment / file / flag configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business‑logic
// layers receive an already‑built Config instance via dependency‑injection.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Search backends.
const (
	SearchSearxng = "searxng"
	SearchAtlas   = "atlas"
)

// Model backends.
const (
	ModelOllama = "ollama"
	ModelVertex = "vertex"
	ModelGemini = "gemini"
	ModelClaude = "claude"
	ModelMock   = "mock"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple; prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port             string
	CORSAllowOrigins string

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Search
	SearchBackend     string
	SearchMaxResults  int
	SearchTimeout     time.Duration
	SearxngURL        string
	SearxngCategories string
	SearxngLanguage   string
	SearxngEngines    string

	// Data stores (atlas search backend)
	MongoURI          string
	DBName            string
	SnippetCollection string
	VectorIndex       string
	EmbeddingModel    string

	// Model
	ModelBackend     string
	ModelName        string
	ModelTemperature float32
	ModelMaxTokens   int
	ModelTimeout     time.Duration

	// External services
	ProjectID       string
	Location        string
	CredentialsFile string
	GoogleAPIKey    string
	AnthropicAPIKey string
	OllamaURL       string
}

// Default returns the configuration used when neither a file nor the
// environment overrides a value.
func Default() Config {
	return Config{
		Port:             "8000",
		CORSAllowOrigins: "*",
		ReadTimeout:      5 * time.Second,
		WriteTimeout:     60 * time.Second,
		LogLevel:         "info",
		LogFormat:        "console",

		SearchBackend:    SearchSearxng,
		SearchMaxResults: 5,
		SearchTimeout:    10 * time.Second,
		SearxngURL:       "http://localhost:8080",

		DBName:            "kisan_sathi",
		SnippetCollection: "snippets",
		VectorIndex:       "snippet_vector_index",
		EmbeddingModel:    "text-embedding-005",

		ModelBackend:     ModelOllama,
		ModelTemperature: 0.7,
		ModelMaxTokens:   1024,
		ModelTimeout:     120 * time.Second,

		Location:  "us-central1",
		OllamaURL: "http://localhost:11434",
	}
}

// Load builds the Config in layers: defaults, then the optional TOML file at
// path (or $CONFIG_FILE), then .env / process environment.
// The result is validated so mis‑configurations fail fast.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	// godotenv.Load() is a no‑op if .env doesn't exist, so it is safe in production.
	_ = godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend names and the credentials the selected backends need.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.SearchBackend {
	case SearchSearxng:
		if c.SearxngURL == "" {
			return errors.New("SEARXNG_URL is required for the searxng search backend")
		}
	case SearchAtlas:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the atlas search backend")
		}
		if c.ProjectID == "" {
			return errors.New("GCP_PROJECT_ID is required for atlas query embeddings")
		}
	default:
		return errors.Errorf("unknown search backend %q", c.SearchBackend)
	}
	if c.SearchMaxResults <= 0 {
		return errors.Errorf("search max results must be positive, got %d", c.SearchMaxResults)
	}

	switch c.ModelBackend {
	case ModelOllama:
		if c.OllamaURL == "" {
			return errors.New("OLLAMA_URL is required for the ollama model backend")
		}
	case ModelVertex:
		if c.ProjectID == "" {
			return errors.New("GCP_PROJECT_ID is required for the vertex model backend")
		}
	case ModelGemini:
		if c.GoogleAPIKey == "" {
			return errors.New("GOOGLE_API_KEY is required for the gemini model backend")
		}
	case ModelClaude:
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required for the claude model backend")
		}
	case ModelMock:
	default:
		return errors.Errorf("unknown model backend %q", c.ModelBackend)
	}
	return nil
}

// UsesMongo reports whether the selected backends need a MongoDB connection.
func (c Config) UsesMongo() bool {
	return c.SearchBackend == SearchAtlas
}

// applyEnv overlays process environment variables on cfg.
func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.CORSAllowOrigins = getEnv("CORS_ALLOW_ORIGINS", cfg.CORSAllowOrigins)
	cfg.ReadTimeout = getDuration("READ_TIMEOUT_SEC", cfg.ReadTimeout)
	cfg.WriteTimeout = getDuration("WRITE_TIMEOUT_SEC", cfg.WriteTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.SearchBackend = strings.ToLower(getEnv("SEARCH_BACKEND", cfg.SearchBackend))
	cfg.SearchMaxResults = getInt("SEARCH_MAX_RESULTS", cfg.SearchMaxResults)
	cfg.SearchTimeout = getDuration("SEARCH_TIMEOUT_SEC", cfg.SearchTimeout)
	cfg.SearxngURL = getEnv("SEARXNG_URL", cfg.SearxngURL)
	cfg.SearxngCategories = getEnv("SEARXNG_CATEGORIES", cfg.SearxngCategories)
	cfg.SearxngLanguage = getEnv("SEARXNG_LANGUAGE", cfg.SearxngLanguage)
	cfg.SearxngEngines = getEnv("SEARXNG_ENGINES", cfg.SearxngEngines)

	cfg.MongoURI = getEnv("MONGODB_URI", cfg.MongoURI)
	cfg.DBName = getEnv("MONGODB_DB", cfg.DBName)
	cfg.SnippetCollection = getEnv("MONGODB_SNIPPET_COLLECTION", cfg.SnippetCollection)
	cfg.VectorIndex = getEnv("MONGODB_VECTOR_INDEX", cfg.VectorIndex)
	cfg.EmbeddingModel = getEnv("EMBEDDING_MODEL", cfg.EmbeddingModel)

	cfg.ModelBackend = strings.ToLower(getEnv("MODEL_BACKEND", cfg.ModelBackend))
	cfg.ModelName = getEnv("MODEL_NAME", cfg.ModelName)
	cfg.ModelTemperature = getFloat("MODEL_TEMPERATURE", cfg.ModelTemperature)
	cfg.ModelMaxTokens = getInt("MODEL_MAX_TOKENS", cfg.ModelMaxTokens)
	cfg.ModelTimeout = getDuration("MODEL_TIMEOUT_SEC", cfg.ModelTimeout)

	cfg.ProjectID = getEnv("GCP_PROJECT_ID", cfg.ProjectID)
	cfg.Location = getEnv("GCP_LOCATION", cfg.Location)
	cfg.CredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", cfg.CredentialsFile)
	cfg.GoogleAPIKey = getEnv("GOOGLE_API_KEY", cfg.GoogleAPIKey)
	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.OllamaURL = getEnv("OLLAMA_URL", cfg.OllamaURL)
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultVal.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Warn().Str("key", key).Str("value", v).Dur("default", defaultVal).Msg("invalid duration, using default")
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Int("default", defaultVal).Msg("invalid integer, using default")
	}
	return defaultVal
}

func getFloat(key string, defaultVal float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
		log.Warn().Str("key", key).Str("value", v).Float32("default", defaultVal).Msg("invalid float, using default")
	}
	return defaultVal
}

// fileConfig mirrors the TOML layout. Zero values leave the defaults alone.
type fileConfig struct {
	Server struct {
		Port             string `toml:"port"`
		CORSAllowOrigins string `toml:"cors_allow_origins"`
		ReadTimeoutSec   int    `toml:"read_timeout_sec"`
		WriteTimeoutSec  int    `toml:"write_timeout_sec"`
	} `toml:"server"`

	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`

	Search struct {
		Backend    string `toml:"backend"`
		MaxResults int    `toml:"max_results"`
		TimeoutSec int    `toml:"timeout_sec"`
		Searxng    struct {
			URL        string `toml:"url"`
			Categories string `toml:"categories"`
			Language   string `toml:"language"`
			Engines    string `toml:"engines"`
		} `toml:"searxng"`
	} `toml:"search"`

	Mongo struct {
		URI               string `toml:"uri"`
		Database          string `toml:"database"`
		SnippetCollection string `toml:"snippet_collection"`
		VectorIndex       string `toml:"vector_index"`
		EmbeddingModel    string `toml:"embedding_model"`
	} `toml:"mongo"`

	Model struct {
		Backend     string  `toml:"backend"`
		Name        string  `toml:"name"`
		Temperature float32 `toml:"temperature"`
		MaxTokens   int     `toml:"max_tokens"`
		TimeoutSec  int     `toml:"timeout_sec"`
	} `toml:"model"`

	GCP struct {
		ProjectID       string `toml:"project_id"`
		Location        string `toml:"location"`
		CredentialsFile string `toml:"credentials_file"`
	} `toml:"gcp"`

	Keys struct {
		Google    string `toml:"google_api_key"`
		Anthropic string `toml:"anthropic_api_key"`
	} `toml:"keys"`

	Ollama struct {
		URL string `toml:"url"`
	} `toml:"ollama"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	setString(&cfg.Port, fc.Server.Port)
	setString(&cfg.CORSAllowOrigins, fc.Server.CORSAllowOrigins)
	setSeconds(&cfg.ReadTimeout, fc.Server.ReadTimeoutSec)
	setSeconds(&cfg.WriteTimeout, fc.Server.WriteTimeoutSec)
	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogFormat, fc.Log.Format)

	setString(&cfg.SearchBackend, strings.ToLower(fc.Search.Backend))
	if fc.Search.MaxResults > 0 {
		cfg.SearchMaxResults = fc.Search.MaxResults
	}
	setSeconds(&cfg.SearchTimeout, fc.Search.TimeoutSec)
	setString(&cfg.SearxngURL, fc.Search.Searxng.URL)
	setString(&cfg.SearxngCategories, fc.Search.Searxng.Categories)
	setString(&cfg.SearxngLanguage, fc.Search.Searxng.Language)
	setString(&cfg.SearxngEngines, fc.Search.Searxng.Engines)

	setString(&cfg.MongoURI, fc.Mongo.URI)
	setString(&cfg.DBName, fc.Mongo.Database)
	setString(&cfg.SnippetCollection, fc.Mongo.SnippetCollection)
	setString(&cfg.VectorIndex, fc.Mongo.VectorIndex)
	setString(&cfg.EmbeddingModel, fc.Mongo.EmbeddingModel)

	setString(&cfg.ModelBackend, strings.ToLower(fc.Model.Backend))
	setString(&cfg.ModelName, fc.Model.Name)
	if fc.Model.Temperature > 0 {
		cfg.ModelTemperature = fc.Model.Temperature
	}
	if fc.Model.MaxTokens > 0 {
		cfg.ModelMaxTokens = fc.Model.MaxTokens
	}
	setSeconds(&cfg.ModelTimeout, fc.Model.TimeoutSec)

	setString(&cfg.ProjectID, fc.GCP.ProjectID)
	setString(&cfg.Location, fc.GCP.Location)
	setString(&cfg.CredentialsFile, fc.GCP.CredentialsFile)
	setString(&cfg.GoogleAPIKey, fc.Keys.Google)
	setString(&cfg.AnthropicAPIKey, fc.Keys.Anthropic)
	setString(&cfg.OllamaURL, fc.Ollama.URL)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setSeconds(dst *time.Duration, sec int) {
	if sec > 0 {
		*dst = time.Duration(sec) * time.Second
	}
}
