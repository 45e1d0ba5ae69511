package service

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
)

// LLM defines the interface for language model interactions
type LLM interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// ClosableLLM is an LLM that holds client resources.
type ClosableLLM interface {
	LLM
	Close() error
}

// Default model names per backend, used when MODEL_NAME is unset.
var defaultModels = map[string]string{
	config.ModelOllama: "llama3",
	config.ModelVertex: "gemini-2.0-flash-lite-001",
	config.ModelGemini: "gemini-2.0-flash",
	config.ModelClaude: "claude-sonnet-4-20250514",
	config.ModelMock:   "mock",
}

// ModelName returns the configured model or the backend default.
func ModelName(cfg config.Config) string {
	if cfg.ModelName != "" {
		return cfg.ModelName
	}
	return defaultModels[cfg.ModelBackend]
}

// NewLLM builds the model client selected by cfg.ModelBackend.
func NewLLM(ctx context.Context, cfg config.Config) (ClosableLLM, error) {
	switch cfg.ModelBackend {
	case config.ModelOllama:
		return NewOllamaLLM(cfg.OllamaURL, ModelName(cfg), cfg.ModelTemperature, &http.Client{Timeout: cfg.ModelTimeout}), nil
	case config.ModelVertex:
		return NewVertexLLM(ctx, cfg)
	case config.ModelGemini:
		return NewGeminiLLM(ctx, cfg)
	case config.ModelClaude:
		return NewClaudeLLM(cfg), nil
	case config.ModelMock:
		return NewMockLLM(), nil
	default:
		return nil, errors.Errorf("unknown model backend %q", cfg.ModelBackend)
	}
}
