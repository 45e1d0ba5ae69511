package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
)

// GeminiLLM talks to the Gemini API with an API key.
type GeminiLLM struct {
	client    *genai.Client
	model     string
	temp      float32
	maxTokens int32
	timeout   time.Duration
}

// NewGeminiLLM creates a Gemini API client.
func NewGeminiLLM(ctx context.Context, cfg config.Config) (*GeminiLLM, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize genai client")
	}

	name := ModelName(cfg)
	log.Info().Str("model", name).Dur("timeout", cfg.ModelTimeout).Msg("Gemini model initialized")

	return &GeminiLLM{
		client:    client,
		model:     name,
		temp:      cfg.ModelTemperature,
		maxTokens: int32(cfg.ModelMaxTokens),
		timeout:   cfg.ModelTimeout,
	}, nil
}

// GenerateResponse sends the prompt as a single user turn.
func (g *GeminiLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temp),
	}
	if g.maxTokens > 0 {
		genCfg.MaxOutputTokens = g.maxTokens
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", errors.Wrap(err, "gemini: generation failed")
	}

	// Take the first candidate that carries text.
	var sb strings.Builder
	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			if sb.Len() > 0 {
				break
			}
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini: no response generated")
	}
	return sb.String(), nil
}

// Close is a no-op; the genai client holds no closable resources.
func (g *GeminiLLM) Close() error {
	return nil
}
